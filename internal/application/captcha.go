package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/testinguser/internal/domain/model"
	"github.com/ericfisherdev/testinguser/internal/domain/port/driven"
)

// CaptchaSolver fetches a fresh captcha and asks the operator to read it.
type CaptchaSolver struct {
	accounts driven.AccountClient
	console  driven.Console
}

// NewCaptchaSolver creates a CaptchaSolver.
func NewCaptchaSolver(accounts driven.AccountClient, console driven.Console) *CaptchaSolver {
	return &CaptchaSolver{accounts: accounts, console: console}
}

// Solve returns the new challenge together with the operator's unvalidated answer.
func (s *CaptchaSolver) Solve(ctx context.Context) (model.CaptchaAttempt, error) {
	captcha, err := s.accounts.NewCaptcha(ctx)
	if err != nil {
		return model.CaptchaAttempt{}, fmt.Errorf("fetching captcha: %w", err)
	}

	answer, err := s.console.Prompt(fmt.Sprintf("Try captcha at %q", captcha.ImageURL), "", nil)
	if err != nil {
		return model.CaptchaAttempt{}, err
	}

	return model.CaptchaAttempt{Captcha: captcha, Answer: answer}, nil
}
