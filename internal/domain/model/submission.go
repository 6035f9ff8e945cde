package model

// SubmissionRequest is the input to ContentClient.Submit.
type SubmissionRequest struct {
	Kind      SubmissionKind
	Subreddit string
	Title     string
	Text      string          // Body of a self post.
	URL       string          // Target of a link post.
	Captcha   *CaptchaAttempt // Required by the server for low-karma accounts.
}

// Submission is a post accepted by the server.
type Submission struct {
	ID       string // Base-36 ID without the "t3_" prefix.
	Fullname string
	URL      string
	ShortURL string
}
