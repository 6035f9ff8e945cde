package model

import "fmt"

// APIError is an application-level rejection reported by the platform, as
// opposed to a transport or HTTP failure. Typical codes are USERNAME_TAKEN and
// BAD_CAPTCHA.
type APIError struct {
	Code    string
	Message string
	Field   string // Form field the error refers to; may be empty.
}

func (e *APIError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
}
