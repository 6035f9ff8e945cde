package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/testinguser/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by encrypting CredentialStore
// implementations when TESTINGUSER_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set TESTINGUSER_SECRET_KEY")

// CredentialStore defines the driven port for persisting the testing user's
// credentials to a single file. Save overwrites whatever the file held.
type CredentialStore interface {
	Save(ctx context.Context, creds model.Credentials) error
	Load(ctx context.Context) (model.Credentials, error)
	// Location returns the absolute path of the backing file.
	Location() string
}
