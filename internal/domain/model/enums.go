package model

// AppType is the category of an API client registration.
type AppType string

// AppTypeScript is single-account automation via client ID/secret plus
// account credentials. It is the only kind the setup registers.
const AppTypeScript AppType = "script"

// Visibility controls who can see a multireddit.
type Visibility string

// VisibilityPrivate hides a multireddit from everyone but its owner.
const VisibilityPrivate Visibility = "private"

// SubmissionKind distinguishes text posts from link posts.
type SubmissionKind string

const (
	SubmissionKindSelf SubmissionKind = "self"
	SubmissionKindLink SubmissionKind = "link"
)
