package model

// Captcha is a server-issued challenge. It is fetched fresh for every
// protected action and never reused.
type Captcha struct {
	Iden     string // Challenge identifier echoed back with the answer.
	ImageURL string
}

// CaptchaAttempt pairs a challenge with the operator's reading of it.
// Correctness is only judged by the server.
type CaptchaAttempt struct {
	Captcha Captcha
	Answer  string
}
