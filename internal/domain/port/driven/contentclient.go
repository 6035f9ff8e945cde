package driven

import (
	"context"

	"github.com/ericfisherdev/testinguser/internal/domain/model"
)

// ContentClient defines the driven port for calls authenticated with the
// testing user's script-app credentials.
type ContentClient interface {
	// CreateOrUpdateMulti returns the multireddit as stored by the server,
	// including its path.
	CreateOrUpdateMulti(ctx context.Context, multi model.MultiReddit) (model.MultiReddit, error)
	UpdateMultiDescription(ctx context.Context, name, description string) error
	Submit(ctx context.Context, req model.SubmissionRequest) (model.Submission, error)
}

// ContentConnector authenticates with script credentials and returns a
// ContentClient bound to that account.
type ContentConnector interface {
	Connect(ctx context.Context, creds model.Credentials) (ContentClient, error)
}
