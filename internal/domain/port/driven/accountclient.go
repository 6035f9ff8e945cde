// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"

	"github.com/ericfisherdev/testinguser/internal/domain/model"
)

// AccountClient defines the driven port for account-level platform calls made
// before any API credentials exist. Implementations keep the session that
// Register establishes so later calls act as the new user.
type AccountClient interface {
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
	NewCaptcha(ctx context.Context) (model.Captcha, error)
	// Register creates the account and logs in as it. Application-level
	// rejections are returned as *model.APIError.
	Register(ctx context.Context, req model.RegistrationRequest) error
	// CreateOrUpdateApp requires a prior successful Register.
	CreateOrUpdateApp(ctx context.Context, app model.AppRegistration) error
}
