package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/testinguser/internal/domain/model"
	"github.com/ericfisherdev/testinguser/internal/domain/port/driven"
)

const (
	// UsernamePrefix starts every suggested username.
	UsernamePrefix = "jrawTestUser"

	// usernameSuffixLimit bounds the numeric suffix: jrawTestUser0 to jrawTestUser999999.
	usernameSuffixLimit = 1_000_000
)

// RegistrationService registers a new account, asking the operator for the
// details and starting over whenever the platform rejects the attempt.
type RegistrationService struct {
	accounts     driven.AccountClient
	console      driven.Console
	captcha      *CaptchaSolver
	random       Randomness
	echoPassword bool
}

// NewRegistrationService creates a RegistrationService. When echoPassword is
// false the confirmation message masks the password.
func NewRegistrationService(
	accounts driven.AccountClient,
	console driven.Console,
	captcha *CaptchaSolver,
	random Randomness,
	echoPassword bool,
) *RegistrationService {
	return &RegistrationService{
		accounts:     accounts,
		console:      console,
		captcha:      captcha,
		random:       random,
		echoPassword: echoPassword,
	}
}

// Register loops until the platform accepts a registration. Rejections
// (*model.APIError) are reported and restart the prompts from scratch; any
// other error ends the loop.
func (s *RegistrationService) Register(ctx context.Context) (model.Registration, error) {
	s.console.Println("Registering a new user")

	for attempt := 1; ; attempt++ {
		reg, err := s.attempt(ctx)
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			slog.Debug("registration rejected", "attempt", attempt, "code", apiErr.Code)
			s.console.Errorln("Failed to create a new user: " + apiErr.Message)
			continue
		}
		if err != nil {
			return model.Registration{}, err
		}

		password := reg.Password
		if !s.echoPassword {
			password = "<hidden>"
		}
		s.console.Printf("Successfully registered user '%s' with password '%s'\n", reg.Username, password)
		slog.Info("user registered", "username", reg.Username, "attempts", attempt)
		return reg, nil
	}
}

// attempt prompts for one registration and submits it.
func (s *RegistrationService) attempt(ctx context.Context) (model.Registration, error) {
	suggestion, err := s.UniqueUsername(ctx)
	if err != nil {
		return model.Registration{}, err
	}
	username, err := s.console.Prompt("Enter a username", suggestion, s.usernameAvailable(ctx))
	if err != nil {
		return model.Registration{}, err
	}

	defaultPassword, err := s.random.SecureToken()
	if err != nil {
		return model.Registration{}, err
	}
	password, err := s.console.Prompt("Enter a password", defaultPassword, NotEmpty("Password cannot be empty"))
	if err != nil {
		return model.Registration{}, err
	}

	email, err := s.console.Prompt("Enter an email (leave blank for none)", "", nil)
	if err != nil {
		return model.Registration{}, err
	}

	solved, err := s.captcha.Solve(ctx)
	if err != nil {
		return model.Registration{}, err
	}

	err = s.accounts.Register(ctx, model.RegistrationRequest{
		Username: username,
		Password: password,
		Email:    email,
		Captcha:  solved,
	})
	if err != nil {
		return model.Registration{}, fmt.Errorf("registering %s: %w", username, err)
	}

	return model.Registration{Username: username, Password: password}, nil
}

// UniqueUsername draws UsernamePrefix+n candidates until the platform reports
// one as available.
func (s *RegistrationService) UniqueUsername(ctx context.Context) (string, error) {
	for {
		candidate := fmt.Sprintf("%s%d", UsernamePrefix, s.random.IntN(usernameSuffixLimit))

		available, err := s.accounts.IsUsernameAvailable(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking availability of %s: %w", candidate, err)
		}
		if available {
			return candidate, nil
		}
		slog.Debug("suggested username taken", "username", candidate)
	}
}

func (s *RegistrationService) usernameAvailable(ctx context.Context) driven.Validator {
	return func(input string) (string, error) {
		available, err := s.accounts.IsUsernameAvailable(ctx, input)
		if err != nil {
			return "", fmt.Errorf("checking availability of %s: %w", input, err)
		}
		if !available {
			return "Username already taken", nil
		}
		return "", nil
	}
}
