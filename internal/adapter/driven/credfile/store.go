// Package credfile implements the CredentialStore port as a single JSON or
// YAML document on disk.
package credfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/testinguser/internal/domain/model"
	"github.com/ericfisherdev/testinguser/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*Store)(nil)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// fileMode keeps the secrets readable by the operator only.
const fileMode = 0o600

// FormatForPath picks YAML for .yaml/.yml files and JSON for anything else.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Store reads and writes one credentials document.
type Store struct {
	path   string
	format Format
}

// New creates a Store for path, resolved to an absolute path. The format is
// chosen by FormatForPath.
func New(path string) (*Store, error) {
	return NewWithFormat(path, FormatForPath(path))
}

// NewWithFormat creates a Store that always writes format.
func NewWithFormat(path string, format Format) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	switch format {
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported credentials format %q", format)
	}
	return &Store{path: abs, format: format}, nil
}

// Location returns the absolute path of the document.
func (s *Store) Location() string {
	return s.path
}

// Save replaces the document with creds.
func (s *Store) Save(_ context.Context, creds model.Credentials) error {
	data, err := s.encode(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials as %s: %w", s.format, err)
	}
	if err := os.WriteFile(s.path, data, fileMode); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// Load reads the document back.
func (s *Store) Load(_ context.Context) (model.Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.Credentials{}, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var creds model.Credentials
	switch s.format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &creds)
	default:
		err = json.Unmarshal(data, &creds)
	}
	if err != nil {
		return model.Credentials{}, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	return creds, nil
}

func (s *Store) encode(creds model.Credentials) ([]byte, error) {
	if s.format == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(creds); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
