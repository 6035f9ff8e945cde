package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/ericfisherdev/testinguser/internal/domain/model"
	"github.com/ericfisherdev/testinguser/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.ContentConnector = (*OAuthConnector)(nil)
	_ driven.ContentClient    = (*OAuthClient)(nil)
)

// shortURLBase prefixes a submission ID to form its short link.
const shortURLBase = "https://redd.it/"

// contentScopes are requested with the password grant.
var contentScopes = []string{"identity", "submit", "subscribe"}

// OAuthConnector exchanges script-app credentials for a bearer token using the
// OAuth2 password grant.
type OAuthConnector struct {
	http     *http.Client
	apiURL   string
	tokenURL string
}

// NewOAuthConnector creates an OAuthConnector on the production transport stack.
func NewOAuthConnector(opts Options) *OAuthConnector {
	return NewOAuthConnectorWithHTTPClient(NewHTTPClient(opts.UserAgent, opts.Timeout), opts.OAuthURL, opts.TokenURL)
}

// NewOAuthConnectorWithHTTPClient creates an OAuthConnector with a custom
// http.Client. The client carries both token and API requests.
func NewOAuthConnectorWithHTTPClient(httpClient *http.Client, apiURL, tokenURL string) *OAuthConnector {
	return &OAuthConnector{
		http:     httpClient,
		apiURL:   strings.TrimSuffix(apiURL, "/"),
		tokenURL: tokenURL,
	}
}

// Connect fetches a token for creds and returns a client that sends it.
func (c *OAuthConnector) Connect(ctx context.Context, creds model.Credentials) (driven.ContentClient, error) {
	cfg := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		Scopes: contentScopes,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := cfg.PasswordCredentialsToken(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, fmt.Errorf("password grant: %w", err)
	}
	slog.Debug("oauth token acquired", "username", creds.Username, "expiry", tok.Expiry)

	client := cfg.Client(ctx, tok)
	client.Timeout = c.http.Timeout

	return &OAuthClient{http: client, apiURL: c.apiURL, username: creds.Username}, nil
}

// OAuthClient implements driven.ContentClient for one authenticated user.
type OAuthClient struct {
	http     *http.Client
	apiURL   string
	username string
}

// labeledMulti is the "data" of a LabeledMulti thing.
type labeledMulti struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	Visibility    string `json:"visibility"`
	DescriptionMD string `json:"description_md"`
	Subreddits    []struct {
		Name string `json:"name"`
	} `json:"subreddits"`
}

type multiModel struct {
	Visibility string           `json:"visibility"`
	Subreddits []multiSubreddit `json:"subreddits"`
}

type multiSubreddit struct {
	Name string `json:"name"`
}

// multiPath is the multireddit's path relative to /api/multi.
func (c *OAuthClient) multiPath(name string) string {
	return fmt.Sprintf("/user/%s/m/%s", url.PathEscape(c.username), url.PathEscape(name))
}

// CreateOrUpdateMulti replaces the multireddit's visibility and subreddits,
// creating it if needed.
func (c *OAuthClient) CreateOrUpdateMulti(ctx context.Context, multi model.MultiReddit) (model.MultiReddit, error) {
	subs := make([]multiSubreddit, 0, len(multi.Subreddits))
	for _, name := range multi.Subreddits {
		subs = append(subs, multiSubreddit{Name: name})
	}
	body, err := json.Marshal(multiModel{Visibility: string(multi.Visibility), Subreddits: subs})
	if err != nil {
		return model.MultiReddit{}, fmt.Errorf("marshaling multireddit model: %w", err)
	}

	path := c.multiPath(multi.Name)
	form := url.Values{
		"model":     {string(body)},
		"multipath": {path},
	}

	var thing struct {
		Kind string       `json:"kind"`
		Data labeledMulti `json:"data"`
	}
	if err := call(ctx, c.http, http.MethodPut, c.apiURL+"/api/multi"+path, form, nil, &thing); err != nil {
		return model.MultiReddit{}, err
	}
	if thing.Data.Path == "" {
		return model.MultiReddit{}, errors.New("multireddit response has no path")
	}

	return mapMulti(thing.Data), nil
}

// UpdateMultiDescription sets the multireddit's markdown description.
func (c *OAuthClient) UpdateMultiDescription(ctx context.Context, name, description string) error {
	body, err := json.Marshal(map[string]string{"body_md": description})
	if err != nil {
		return fmt.Errorf("marshaling description: %w", err)
	}

	form := url.Values{"model": {string(body)}}
	return call(ctx, c.http, http.MethodPut, c.apiURL+"/api/multi"+c.multiPath(name)+"/description", form, nil, nil)
}

// Submit posts a new submission. Rejections come back as *model.APIError.
func (c *OAuthClient) Submit(ctx context.Context, req model.SubmissionRequest) (model.Submission, error) {
	form := url.Values{
		"kind":        {string(req.Kind)},
		"sr":          {req.Subreddit},
		"title":       {req.Title},
		"resubmit":    {"true"},
		"sendreplies": {"true"},
	}
	if req.Kind == model.SubmissionKindSelf {
		form.Set("text", req.Text)
	} else {
		form.Set("url", req.URL)
	}
	if req.Captcha != nil {
		form.Set("iden", req.Captcha.Captcha.Iden)
		form.Set("captcha", req.Captcha.Answer)
	}

	var data struct {
		URL  string `json:"url"`
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := callJSONAPI(ctx, c.http, c.apiURL+"/api/submit", form, nil, &data); err != nil {
		return model.Submission{}, err
	}

	return model.Submission{
		ID:       data.ID,
		Fullname: data.Name,
		URL:      data.URL,
		ShortURL: shortURLBase + data.ID,
	}, nil
}

// mapMulti converts the API representation to the domain model.
func mapMulti(m labeledMulti) model.MultiReddit {
	subs := make([]string, 0, len(m.Subreddits))
	for _, s := range m.Subreddits {
		subs = append(subs, s.Name)
	}
	return model.MultiReddit{
		Name:        m.Name,
		Path:        m.Path,
		Visibility:  model.Visibility(m.Visibility),
		Subreddits:  subs,
		Description: m.DescriptionMD,
	}
}
