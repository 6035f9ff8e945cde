package model

// AppRegistration describes an OAuth application record to create or update.
// ID is empty when creating a new app.
type AppRegistration struct {
	ID          string
	Name        string
	Type        AppType
	Description string
	AboutURL    string
	RedirectURI string
}
