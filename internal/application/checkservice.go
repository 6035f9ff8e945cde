package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/testinguser/internal/domain/model"
	"github.com/ericfisherdev/testinguser/internal/domain/port/driven"
)

// CredentialReport is the printable view of a stored credentials file.
type CredentialReport struct {
	Location string
	Masked   model.Credentials
	Missing  []string // Field names stored empty, in document order.
}

// Complete reports whether every field is set.
func (r CredentialReport) Complete() bool {
	return len(r.Missing) == 0
}

// CheckService inspects a credentials file written by an earlier run.
type CheckService struct {
	store   driven.CredentialStore
	console driven.Console
}

// NewCheckService creates a new CheckService.
func NewCheckService(store driven.CredentialStore, console driven.Console) *CheckService {
	return &CheckService{store: store, console: console}
}

// Inspect loads the stored credentials and reports which fields are missing.
func (s *CheckService) Inspect(ctx context.Context) (CredentialReport, error) {
	creds, err := s.store.Load(ctx)
	if err != nil {
		return CredentialReport{}, fmt.Errorf("checking %s: %w", s.store.Location(), err)
	}

	return CredentialReport{
		Location: s.store.Location(),
		Masked:   creds.Masked(),
		Missing:  missingFields(creds),
	}, nil
}

// Check prints the report with secrets masked. An incomplete file is an error.
func (s *CheckService) Check(ctx context.Context) (CredentialReport, error) {
	report, err := s.Inspect(ctx)
	if err != nil {
		return report, err
	}

	s.console.Printf("Credentials at %s\n", report.Location)
	s.console.Printf("  username:      %s\n", report.Masked.Username)
	s.console.Printf("  password:      %s\n", report.Masked.Password)
	s.console.Printf("  client_id:     %s\n", report.Masked.ClientID)
	s.console.Printf("  client_secret: %s\n", report.Masked.ClientSecret)

	if !report.Complete() {
		return report, fmt.Errorf("%s is missing %v", report.Location, report.Missing)
	}
	return report, nil
}

func missingFields(c model.Credentials) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"username", c.Username},
		{"password", c.Password},
		{"client_id", c.ClientID},
		{"client_secret", c.ClientSecret},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
