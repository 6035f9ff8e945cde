package reddit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/ericfisherdev/testinguser/internal/domain/model"
	"github.com/ericfisherdev/testinguser/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AccountClient = (*SessionClient)(nil)

// ErrNotLoggedIn is returned by calls that need the session Register opens.
var ErrNotLoggedIn = errors.New("not logged in: register first")

// SessionClient implements driven.AccountClient with cookie-session auth on
// the main site. Register logs the client in as the new user; the session
// cookie lives in the client's jar and the modhash is kept for write calls.
type SessionClient struct {
	http    *http.Client
	baseURL *url.URL
	modhash string
}

// NewSessionClient creates a SessionClient on the production transport stack.
func NewSessionClient(opts Options) (*SessionClient, error) {
	return NewSessionClientWithHTTPClient(NewHTTPClient(opts.UserAgent, opts.Timeout), opts.BaseURL)
}

// NewSessionClientWithHTTPClient creates a SessionClient with a custom
// http.Client and base URL. A cookie jar is installed if the client has none.
func NewSessionClientWithHTTPClient(httpClient *http.Client, baseURL string) (*SessionClient, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	if httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	return &SessionClient{http: httpClient, baseURL: u}, nil
}

func (c *SessionClient) endpoint(path string) string {
	return c.baseURL.String() + path
}

// IsUsernameAvailable reports whether nobody has registered username yet.
func (c *SessionClient) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	query := url.Values{"user": {username}}
	var available bool
	if err := call(ctx, c.http, http.MethodGet, c.endpoint("/api/username_available.json?"+query.Encode()), nil, nil, &available); err != nil {
		return false, fmt.Errorf("checking username %s: %w", username, err)
	}
	return available, nil
}

// NewCaptcha requests a new challenge. The image is served from
// <base>/captcha/<iden>.png.
func (c *SessionClient) NewCaptcha(ctx context.Context) (model.Captcha, error) {
	var data struct {
		Iden string `json:"iden"`
	}
	if err := callJSONAPI(ctx, c.http, c.endpoint("/api/new_captcha"), url.Values{}, nil, &data); err != nil {
		return model.Captcha{}, fmt.Errorf("requesting captcha: %w", err)
	}
	if data.Iden == "" {
		return model.Captcha{}, errors.New("requesting captcha: response has no iden")
	}

	return model.Captcha{
		Iden:     data.Iden,
		ImageURL: c.endpoint("/captcha/" + url.PathEscape(data.Iden) + ".png"),
	}, nil
}

// Register creates the account and keeps its session for later calls.
func (c *SessionClient) Register(ctx context.Context, req model.RegistrationRequest) error {
	form := url.Values{
		"user":    {req.Username},
		"passwd":  {req.Password},
		"passwd2": {req.Password},
		"email":   {req.Email},
		"iden":    {req.Captcha.Captcha.Iden},
		"captcha": {req.Captcha.Answer},
		"rem":     {"false"},
	}

	var data struct {
		Modhash string `json:"modhash"`
		Cookie  string `json:"cookie"`
	}
	if err := callJSONAPI(ctx, c.http, c.endpoint("/api/register"), form, nil, &data); err != nil {
		return err
	}

	c.modhash = data.Modhash
	if data.Cookie != "" {
		c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{{Name: "reddit_session", Value: data.Cookie}})
	}
	return nil
}

// CreateOrUpdateApp creates app, or updates it when app.ID is set.
func (c *SessionClient) CreateOrUpdateApp(ctx context.Context, app model.AppRegistration) error {
	if c.modhash == "" {
		return ErrNotLoggedIn
	}

	form := url.Values{
		"name":         {app.Name},
		"app_type":     {string(app.Type)},
		"description":  {app.Description},
		"about_url":    {app.AboutURL},
		"redirect_uri": {app.RedirectURI},
		"uh":           {c.modhash},
	}
	if app.ID != "" {
		form.Set("client_id", app.ID)
	}

	header := http.Header{"X-Modhash": {c.modhash}}
	if err := callJSONAPI(ctx, c.http, c.endpoint("/api/updateapp"), form, header, nil); err != nil {
		return fmt.Errorf("updating app %s: %w", app.Name, err)
	}
	return nil
}
