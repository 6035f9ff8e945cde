// Package config loads application configuration from environment variables.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable Load reads.
const EnvPrefix = "TESTINGUSER_"

// Version is stamped at build time with -ldflags "-X ...config.Version=...".
var Version = "dev"

// DefaultUserAgent identifies the tool to the API when TESTINGUSER_USER_AGENT
// is unset.
func DefaultUserAgent() string {
	return "Testing-User-Creator for JRAW v" + Version
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	UserAgent       string        `env:"USER_AGENT"`
	BaseURL         string        `env:"BASE_URL" envDefault:"https://www.reddit.com"`
	OAuthURL        string        `env:"OAUTH_URL" envDefault:"https://oauth.reddit.com"`
	TokenURL        string        `env:"TOKEN_URL" envDefault:"https://www.reddit.com/api/v1/access_token"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	EchoPassword    bool          `env:"ECHO_PASSWORD" envDefault:"false"`
	SubmitSubreddit string        `env:"SUBMIT_SUBREDDIT" envDefault:"jraw_testing2"`
	MultiName       string        `env:"MULTI_NAME" envDefault:"jraw"`

	// SecretKeyBase64 is the raw TESTINGUSER_SECRET_KEY value; SecretKey holds
	// the decoded 32 bytes, or nil when unset.
	SecretKeyBase64 string `env:"SECRET_KEY"`
	SecretKey       []byte
}

// HasSecretKey reports whether an encryption key was configured.
func (c *Config) HasSecretKey() bool {
	return c.SecretKey != nil
}

// Load reads configuration from TESTINGUSER_* environment variables and
// returns a validated Config. Every variable is optional.
func Load() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent()
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("%sREQUEST_TIMEOUT must be positive, got %s", EnvPrefix, cfg.RequestTimeout)
	}
	if cfg.SubmitSubreddit == "" || cfg.MultiName == "" {
		return nil, errors.New(EnvPrefix + "SUBMIT_SUBREDDIT and " + EnvPrefix + "MULTI_NAME cannot be empty")
	}

	if cfg.SecretKeyBase64 != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.SecretKeyBase64)
		if err != nil {
			return nil, fmt.Errorf("%sSECRET_KEY is not valid base64: %w", EnvPrefix, err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("%sSECRET_KEY must decode to 32 bytes, got %d", EnvPrefix, len(key))
		}
		cfg.SecretKey = key
	}

	return &cfg, nil
}
