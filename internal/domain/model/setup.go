package model

// SetupResult summarizes a completed setup run.
type SetupResult struct {
	Credentials     Credentials
	CredentialsPath string
	Multi           MultiReddit
	Submission      Submission
}
