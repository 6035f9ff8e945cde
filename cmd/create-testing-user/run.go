package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alexflint/go-arg"
	"github.com/google/uuid"

	"github.com/ericfisherdev/testinguser/internal/adapter/driven/credfile"
	"github.com/ericfisherdev/testinguser/internal/adapter/driven/reddit"
	sqliteadapter "github.com/ericfisherdev/testinguser/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/testinguser/internal/adapter/driving/console"
	"github.com/ericfisherdev/testinguser/internal/application"
	"github.com/ericfisherdev/testinguser/internal/config"
	"github.com/ericfisherdev/testinguser/internal/domain/port/driven"
	"github.com/ericfisherdev/testinguser/internal/logging"
	"github.com/ericfisherdev/testinguser/internal/random"
)

const programName = "create-testing-user"

// cliArgs is the command line. Flags override the matching TESTINGUSER_* variables.
type cliArgs struct {
	Path         string `arg:"positional,required" placeholder:"PATH" help:"file to write the credentials to (.json, .yaml/.yml or .db/.sqlite)"`
	EchoPassword bool   `arg:"--echo-password" help:"show the password in the registration message"`
	Verbose      bool   `arg:"-v,--verbose" help:"log every API call"`
	Check        bool   `arg:"--check" help:"print the credentials stored at PATH with secrets masked, then exit"`
}

func (cliArgs) Description() string {
	return "Registers a testing user, provisions its script app and seeds it with content."
}

func (cliArgs) Version() string {
	return programName + " " + config.Version
}

// run is main without the process: arguments, streams and cancellation come
// from the caller so tests can drive a whole session.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	// 1. Parse the command line before touching anything else.
	var cli cliArgs
	parser, err := arg.NewParser(arg.Config{Program: programName}, &cli)
	if err != nil {
		return fmt.Errorf("building argument parser: %w", err)
	}
	if err := parser.Parse(args[1:]); err != nil {
		switch {
		case errors.Is(err, arg.ErrHelp):
			parser.WriteHelp(stdout)
			return nil
		case errors.Is(err, arg.ErrVersion):
			_, _ = fmt.Fprintln(stdout, cli.Version())
			return nil
		}
		parser.WriteUsage(stderr)
		return fmt.Errorf("parsing arguments: %w", err)
	}

	// 2. Configuration, then logging.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cli.EchoPassword {
		cfg.EchoPassword = true
	}

	logger := slog.New(logging.NewTerminalHandler(stderr, logging.Level(cli.Verbose))).
		With("run_id", uuid.NewString())
	slog.SetDefault(logger)

	// 3. Credential store, chosen by extension.
	store, err := openStore(cli.Path, cfg)
	if err != nil {
		return err
	}
	slog.Debug("credential store selected", "path", store.Location())

	term := console.New(stdin, stdout, stderr)
	if cli.Check {
		_, err := application.NewCheckService(store, term).Check(ctx)
		return err
	}

	// 4. Random sources.
	weak, err := random.NewWeak()
	if err != nil {
		return err
	}

	// 5. API clients.
	opts := reddit.Options{
		BaseURL:   cfg.BaseURL,
		OAuthURL:  cfg.OAuthURL,
		TokenURL:  cfg.TokenURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
	}
	accounts, err := reddit.NewSessionClient(opts)
	if err != nil {
		return err
	}
	connector := reddit.NewOAuthConnector(opts)

	slog.Info("starting testing user setup",
		"base_url", cfg.BaseURL,
		"oauth_url", cfg.OAuthURL,
		"credentials", store.Location(),
	)

	// 6. Run the workflow.
	setup := application.NewSetupService(
		accounts,
		connector,
		store,
		term,
		application.NewRandomness(weak),
		cfg.EchoPassword,
		application.SetupOptions{MultiName: cfg.MultiName, SubmitSubreddit: cfg.SubmitSubreddit},
	)
	_, err = setup.Run(ctx)
	return err
}

// openStore returns the SQLite store for database paths and the document store
// for everything else. A database without a key is refused before any
// account is created.
func openStore(path string, cfg *config.Config) (driven.CredentialStore, error) {
	if sqliteadapter.IsDatabasePath(path) {
		if !cfg.HasSecretKey() {
			return nil, fmt.Errorf("opening %s: %w", path, driven.ErrEncryptionKeyNotSet)
		}
		return sqliteadapter.NewStore(path, cfg.SecretKey)
	}
	return credfile.New(path)
}
