package model

// Credentials holds everything a script-type client needs to authenticate as
// the testing user. Field order matches the persisted document.
type Credentials struct {
	Username     string `json:"username" yaml:"username"`
	Password     string `json:"password" yaml:"password"`
	ClientID     string `json:"client_id" yaml:"client_id"`
	ClientSecret string `json:"client_secret" yaml:"client_secret"`
}

// NewScriptCredentials combines an accepted registration with the client ID
// and secret of the script app the operator copied from the web UI.
func NewScriptCredentials(reg Registration, clientID, clientSecret string) Credentials {
	return Credentials{
		Username:     reg.Username,
		Password:     reg.Password,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}
}

// Masked returns a copy safe to print: secrets are reduced to their first
// two characters.
func (c Credentials) Masked() Credentials {
	return Credentials{
		Username:     c.Username,
		Password:     mask(c.Password),
		ClientID:     c.ClientID,
		ClientSecret: mask(c.ClientSecret),
	}
}

func mask(s string) string {
	if len(s) <= 2 {
		return "****"
	}
	return s[:2] + "****"
}

// Registration is the username/password pair the platform accepted.
type Registration struct {
	Username string
	Password string
}

// RegistrationRequest is the input to AccountClient.Register.
type RegistrationRequest struct {
	Username string
	Password string
	Email    string // Optional; empty registers without an email.
	Captcha  CaptchaAttempt
}
