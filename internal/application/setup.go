package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/testinguser/internal/domain/model"
	"github.com/ericfisherdev/testinguser/internal/domain/port/driven"
)

const (
	subredditCreateURL = "https://www.reddit.com/subreddits/create"
	multiBaseURL       = "https://reddit.com"

	multiDescription = "This multireddit was created using JRAW because you had no other multireddits. " +
		"Feel free to delete this multireddit, but tests will fail if you don't have at " +
		"least one multireddit with at least one subreddit in it"

	firstPostTitle = "my [f]irst post, be gentle"
	firstPostText  = "New testing user"
)

// multiSubreddits seeds the multireddit; tests need at least one entry.
var multiSubreddits = []string{"programming", "java", "git", "lolphp"}

// SetupOptions are the tunable parts of a setup run.
type SetupOptions struct {
	MultiName       string // Must not be "jraw_testing"; tests create that one themselves.
	SubmitSubreddit string
}

// DefaultSetupOptions returns the names the test suite expects.
func DefaultSetupOptions() SetupOptions {
	return SetupOptions{
		MultiName:       "jraw",
		SubmitSubreddit: "jraw_testing2",
	}
}

// SetupService runs the one-time testing user setup: register, provision the
// script app, persist credentials, then create the content the test suite
// relies on. Steps run strictly in order; a failure after credentials are
// saved leaves the file in place and is not resumable.
type SetupService struct {
	accounts     driven.AccountClient
	connector    driven.ContentConnector
	store        driven.CredentialStore
	console      driven.Console
	registration *RegistrationService
	provisioner  *AppProvisioner
	captcha      *CaptchaSolver
	opts         SetupOptions
}

// NewSetupService creates a SetupService with all required dependencies.
func NewSetupService(
	accounts driven.AccountClient,
	connector driven.ContentConnector,
	store driven.CredentialStore,
	console driven.Console,
	random Randomness,
	echoPassword bool,
	opts SetupOptions,
) *SetupService {
	captcha := NewCaptchaSolver(accounts, console)
	return &SetupService{
		accounts:     accounts,
		connector:    connector,
		store:        store,
		console:      console,
		registration: NewRegistrationService(accounts, console, captcha, random, echoPassword),
		provisioner:  NewAppProvisioner(accounts, console),
		captcha:      captcha,
		opts:         opts,
	}
}

// Run executes all six steps and returns what was created.
func (s *SetupService) Run(ctx context.Context) (model.SetupResult, error) {
	// 1. Register.
	reg, err := s.registration.Register(ctx)
	if err != nil {
		return model.SetupResult{}, err
	}

	// 2. Provision the script app.
	clientID, clientSecret, err := s.provisioner.Provision(ctx)
	if err != nil {
		return model.SetupResult{}, err
	}
	creds := model.NewScriptCredentials(reg, clientID, clientSecret)

	// 3. Persist.
	if err := s.StoreCredentials(ctx, creds); err != nil {
		return model.SetupResult{}, err
	}
	result := model.SetupResult{Credentials: creds, CredentialsPath: s.store.Location()}

	// 4. Community creation is manual.
	s.console.Printf("Create a subreddit with your new account at %s\n", subredditCreateURL)

	content, err := s.connector.Connect(ctx, creds)
	if err != nil {
		return result, fmt.Errorf("authenticating as %s: %w", creds.Username, err)
	}

	// 5. Multireddit.
	result.Multi, err = s.CreateMulti(ctx, content)
	if err != nil {
		return result, err
	}

	// 6. First post.
	result.Submission, err = s.SubmitFirstPost(ctx, content)
	if err != nil {
		return result, err
	}

	slog.Info("testing user setup complete", "username", creds.Username, "credentials", result.CredentialsPath)
	return result, nil
}

// StoreCredentials writes creds to the configured store, replacing its contents.
func (s *SetupService) StoreCredentials(ctx context.Context, creds model.Credentials) error {
	if err := s.store.Save(ctx, creds); err != nil {
		return fmt.Errorf("storing credentials at %s: %w", s.store.Location(), err)
	}
	s.console.Printf("Your testing user's credentials can be found at %s\n", s.store.Location())
	return nil
}

// CreateMulti creates or updates the seed multireddit and sets its description.
func (s *SetupService) CreateMulti(ctx context.Context, content driven.ContentClient) (model.MultiReddit, error) {
	name := s.opts.MultiName
	s.console.Printf("Creating multireddit '%s'\n", name)

	multi, err := content.CreateOrUpdateMulti(ctx, model.MultiReddit{
		Name:       name,
		Visibility: model.VisibilityPrivate,
		Subreddits: multiSubreddits,
	})
	if err != nil {
		return model.MultiReddit{}, fmt.Errorf("creating multireddit %s: %w", name, err)
	}

	if err := content.UpdateMultiDescription(ctx, name, multiDescription); err != nil {
		return model.MultiReddit{}, fmt.Errorf("describing multireddit %s: %w", name, err)
	}
	multi.Description = multiDescription

	s.console.Println("Your new multireddit can be accessed at")
	s.console.Println(multiBaseURL + multi.Path)
	return multi, nil
}

// SubmitFirstPost submits the seed self post. New accounts have no karma, so
// the platform requires a captcha.
func (s *SetupService) SubmitFirstPost(ctx context.Context, content driven.ContentClient) (model.Submission, error) {
	subreddit := s.opts.SubmitSubreddit
	s.console.Printf("Submitting your first selfpost to /r/%s\n", subreddit)

	solved, err := s.captcha.Solve(ctx)
	if err != nil {
		return model.Submission{}, err
	}

	submission, err := content.Submit(ctx, model.SubmissionRequest{
		Kind:      model.SubmissionKindSelf,
		Subreddit: subreddit,
		Title:     firstPostTitle,
		Text:      firstPostText,
		Captcha:   &solved,
	})
	if err != nil {
		return model.Submission{}, fmt.Errorf("submitting to /r/%s: %w", subreddit, err)
	}

	s.console.Printf("Submitted your first post to /r/%s: %s\n", subreddit, submission.ShortURL)
	return submission, nil
}
