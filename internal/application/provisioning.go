package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/testinguser/internal/domain/model"
	"github.com/ericfisherdev/testinguser/internal/domain/port/driven"
)

const (
	// TestingAppName is the name of the script app created for the testing user.
	TestingAppName = "JRAW-testing-app"

	testingAppDescription = "Created to test OAuth2 features in JRAW"
	testingAppURL         = "https://github.com/thatJavaNerd/JRAW"

	appPrefsURL   = "https://www.reddit.com/prefs/apps"
	oauthGuideURL = "https://github.com/reddit/reddit/wiki/OAuth2#getting-started"
)

// AppProvisioner creates the script app and walks the operator through
// copying its client ID and secret from the web UI. The platform does not
// expose the secret through the API, so this step cannot be automated.
type AppProvisioner struct {
	accounts driven.AccountClient
	console  driven.Console
}

// NewAppProvisioner creates an AppProvisioner.
func NewAppProvisioner(accounts driven.AccountClient, console driven.Console) *AppProvisioner {
	return &AppProvisioner{accounts: accounts, console: console}
}

// Provision returns the client ID and secret exactly as the operator typed them.
func (p *AppProvisioner) Provision(ctx context.Context) (clientID, clientSecret string, err error) {
	app := model.AppRegistration{
		Name:        TestingAppName,
		Type:        model.AppTypeScript,
		Description: testingAppDescription,
		AboutURL:    testingAppURL,
		RedirectURI: testingAppURL,
	}
	if err := p.accounts.CreateOrUpdateApp(ctx, app); err != nil {
		return "", "", fmt.Errorf("creating app %s: %w", app.Name, err)
	}

	p.console.Printf("Login with your new account and navigate to %q\n", appPrefsURL)
	p.console.Printf("Then find the client ID and secret of the '%s' app\n", app.Name)
	p.console.Printf("See %s for help.\n", oauthGuideURL)

	clientID, err = p.console.Prompt(fmt.Sprintf("Enter %s's client ID", app.Name), "", nil)
	if err != nil {
		return "", "", err
	}
	clientSecret, err = p.console.Prompt(fmt.Sprintf("Enter %s's client secret", app.Name), "", nil)
	if err != nil {
		return "", "", err
	}

	return clientID, clientSecret, nil
}
