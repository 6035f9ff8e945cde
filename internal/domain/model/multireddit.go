package model

// MultiReddit is a named, ordered collection of subreddits owned by a user.
type MultiReddit struct {
	Name        string
	Path        string // e.g. "/user/jrawTestUser1/m/jraw"; assigned by the server.
	Visibility  Visibility
	Subreddits  []string
	Description string
}
