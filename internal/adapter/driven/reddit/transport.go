// Package reddit implements the AccountClient and ContentClient ports against
// the Reddit HTTP API.
package reddit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit/github_primary_ratelimit"
	"github.com/gregjones/httpcache"
)

// Options configures the production clients.
type Options struct {
	BaseURL   string // Session API and captcha images, e.g. "https://www.reddit.com".
	OAuthURL  string // Bearer-authenticated API, e.g. "https://oauth.reddit.com".
	TokenURL  string // OAuth2 token endpoint.
	UserAgent string
	Timeout   time.Duration
}

// NewHTTPClient builds the transport stack shared by both clients:
//  1. go-github-ratelimit (blocks the client until the reset once the budget hits zero)
//  2. rate limit header normalization into the limiter's format
//  3. httpcache (honours Cache-Control on GETs)
//  4. User-Agent injection, required by the API on every request
//  5. http.DefaultTransport
//
// The limiter fails fast while blocked; call waits out the reset and retries.
func NewHTTPClient(userAgent string, timeout time.Duration) *http.Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = &userAgentTransport{agent: userAgent, next: http.DefaultTransport}

	client := github_ratelimit.NewClient(&rateLimitHeaderTransport{next: cacheTransport, now: time.Now})
	client.Timeout = timeout
	return client
}

// userAgentTransport sets the User-Agent header on outgoing requests.
type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.agent)
	return t.next.RoundTrip(r)
}

// rateLimitHeaderTransport rewrites Reddit's rate limit headers into the form
// the limiter parses: an integer remaining count and a reset given as epoch
// seconds rather than seconds from now.
type rateLimitHeaderTransport struct {
	next http.RoundTripper
	now  func() time.Time
}

func (t *rateLimitHeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	normalizeRateLimitHeaders(resp.Header, t.now())
	return resp, nil
}

const (
	headerRateRemaining = "X-Ratelimit-Remaining"
	headerRateReset     = "X-Ratelimit-Reset"
	headerRateResource  = "X-Ratelimit-Resource"
)

// normalizeRateLimitHeaders converts h in place. Headers that do not parse
// are left alone.
func normalizeRateLimitHeaders(h http.Header, now time.Time) {
	remaining, err := strconv.ParseFloat(h.Get(headerRateRemaining), 64)
	if err != nil {
		return
	}
	if remaining < 0 {
		remaining = 0
	}
	h.Set(headerRateRemaining, strconv.FormatInt(int64(remaining), 10))

	if secs, err := strconv.ParseFloat(h.Get(headerRateReset), 64); err == nil && secs >= 0 {
		reset := now.Add(time.Duration(secs * float64(time.Second)))
		epoch := reset.Unix()
		if reset.Nanosecond() > 0 {
			epoch++
		}
		h.Set(headerRateReset, strconv.FormatInt(epoch, 10))
	}

	// Responses without a resource land in no limiter category and are ignored.
	if h.Get(headerRateResource) == "" {
		h.Set(headerRateResource, string(github_primary_ratelimit.ResourceCategoryCore))
	}
}
