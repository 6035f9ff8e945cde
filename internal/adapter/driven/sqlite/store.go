package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ericfisherdev/testinguser/internal/domain/model"
	"github.com/ericfisherdev/testinguser/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*Store)(nil)

// Field names under which each credential is stored.
const (
	fieldUsername     = "username"
	fieldPassword     = "password"
	fieldClientID     = "client_id"
	fieldClientSecret = "client_secret"
)

// IsDatabasePath reports whether path names a SQLite file by extension.
func IsDatabasePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	default:
		return false
	}
}

// Store keeps the credentials in an encrypted SQLite file. The database is
// opened per call so nothing is held open between workflow steps.
type Store struct {
	path string
	key  []byte
}

// NewStore creates a Store for path, resolved to an absolute path. A nil key
// is accepted here; Save and Load then fail with driven.ErrEncryptionKeyNotSet.
func NewStore(path string, key []byte) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	return &Store{path: abs, key: key}, nil
}

// Location returns the absolute path of the database file.
func (s *Store) Location() string {
	return s.path
}

// Save replaces the stored credentials with creds.
func (s *Store) Save(ctx context.Context, creds model.Credentials) error {
	return s.withRepo(func(repo *CredentialRepo) error {
		return repo.ReplaceAll(ctx, map[string]string{
			fieldUsername:     creds.Username,
			fieldPassword:     creds.Password,
			fieldClientID:     creds.ClientID,
			fieldClientSecret: creds.ClientSecret,
		})
	})
}

// Load reads the stored credentials. A file without a username is an error.
func (s *Store) Load(ctx context.Context) (model.Credentials, error) {
	var creds model.Credentials
	err := s.withRepo(func(repo *CredentialRepo) error {
		fields, err := repo.All(ctx)
		if err != nil {
			return err
		}
		if fields[fieldUsername] == "" {
			return errors.New("no credentials stored")
		}
		creds = model.Credentials{
			Username:     fields[fieldUsername],
			Password:     fields[fieldPassword],
			ClientID:     fields[fieldClientID],
			ClientSecret: fields[fieldClientSecret],
		}
		return nil
	})
	return creds, err
}

// withRepo opens the database, applies migrations and runs fn. The key is
// checked first so a missing key never creates a file.
func (s *Store) withRepo(fn func(*CredentialRepo) error) (err error) {
	if s.key == nil {
		return driven.ErrEncryptionKeyNotSet
	}

	db, err := NewDB(s.path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := RunMigrations(db.Writer); err != nil {
		return err
	}
	return fn(NewCredentialRepo(db, s.key))
}
