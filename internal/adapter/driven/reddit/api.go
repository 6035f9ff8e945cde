package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit/github_primary_ratelimit"

	"github.com/ericfisherdev/testinguser/internal/domain/model"
)

// maxErrorBody caps how much of a failed response is read for diagnostics.
const maxErrorBody = 4 << 10

const (
	// maxRateLimitWaits bounds how often one call waits for a reset.
	maxRateLimitWaits = 3
	// maxRateLimitWait is the longest single wait; later resets fail the call.
	maxRateLimitWait = 10 * time.Minute
	// rateLimitMargin is added to each wait so the limiter has cleared its state.
	rateLimitMargin = 250 * time.Millisecond
)

// envelope is the wrapper returned by endpoints called with api_type=json.
// Errors are [code, message, field] triples.
type envelope struct {
	JSON struct {
		Errors [][]string      `json:"errors"`
		Data   json.RawMessage `json:"data"`
	} `json:"json"`
}

// err returns the first reported error as a *model.APIError, or nil.
func (e *envelope) err() error {
	if len(e.JSON.Errors) == 0 {
		return nil
	}

	triple := e.JSON.Errors[0]
	apiErr := &model.APIError{}
	if len(triple) > 0 {
		apiErr.Code = triple[0]
	}
	if len(triple) > 1 {
		apiErr.Message = triple[1]
	}
	if len(triple) > 2 {
		apiErr.Field = triple[2]
	}
	return apiErr
}

// errorBody is the shape of 4xx bodies from the multi endpoints.
type errorBody struct {
	Reason      string `json:"reason"`
	Explanation string `json:"explanation"`
	Message     string `json:"message"`
}

// call sends a form-encoded request and decodes a 2xx JSON response into out.
// A nil form sends no body; a nil out discards the response.
func call(ctx context.Context, hc *http.Client, method, endpoint string, form url.Values, header http.Header, out any) error {
	resp, path, err := do(ctx, hc, method, endpoint, form, header)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	logRateLimit(resp, method+" "+path)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp, method, path)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// do sends the request. When the rate limiter reports an exhausted budget it
// waits until the reset and sends a fresh copy, at most maxRateLimitWaits times.
// The returned path names the endpoint in errors and logs.
func do(ctx context.Context, hc *http.Client, method, endpoint string, form url.Values, header http.Header) (*http.Response, string, error) {
	for waits := 0; ; waits++ {
		req, err := newRequest(ctx, method, endpoint, form, header)
		if err != nil {
			return nil, "", err
		}

		resp, err := hc.Do(req)
		if err == nil {
			return resp, req.URL.Path, nil
		}

		var limited *github_primary_ratelimit.RateLimitReachedError
		if !errors.As(err, &limited) || limited.ResetTime == nil || waits >= maxRateLimitWaits {
			return nil, "", fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
		}
		if limited.Response != nil && limited.Response.Body != nil {
			_ = limited.Response.Body.Close()
		}

		wait := time.Until(*limited.ResetTime) + rateLimitMargin
		if wait > maxRateLimitWait {
			return nil, "", fmt.Errorf("%s %s: reset in %s: %w", method, req.URL.Path, wait.Round(time.Second), err)
		}

		slog.Warn("reddit rate limit reached, waiting",
			"endpoint", method+" "+req.URL.Path,
			"wait", wait.Round(time.Millisecond),
		)
		if err := sleepContext(ctx, wait); err != nil {
			return nil, "", fmt.Errorf("%s %s: waiting for rate limit reset: %w", method, req.URL.Path, err)
		}
	}
}

func newRequest(ctx context.Context, method, endpoint string, form url.Values, header http.Header) (*http.Request, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", method, err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	return req, nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// callJSONAPI posts form with api_type=json, surfaces envelope errors as
// *model.APIError and decodes the envelope's data into data when non-nil.
func callJSONAPI(ctx context.Context, hc *http.Client, endpoint string, form url.Values, header http.Header, data any) error {
	form.Set("api_type", "json")

	var env envelope
	if err := call(ctx, hc, http.MethodPost, endpoint, form, header, &env); err != nil {
		return err
	}
	if err := env.err(); err != nil {
		return err
	}

	if data == nil || len(env.JSON.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.JSON.Data, data); err != nil {
		return fmt.Errorf("decoding data of %s: %w", endpoint, err)
	}
	return nil
}

// statusError turns a non-2xx response into an error. Bodies naming a reason
// become *model.APIError so callers can treat them as rejections.
func statusError(resp *http.Response, method, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorBody
	if json.Unmarshal(raw, &body) == nil && body.Reason != "" {
		msg := body.Explanation
		if msg == "" {
			msg = body.Message
		}
		return &model.APIError{Code: body.Reason, Message: msg}
	}

	return &HTTPError{Method: method, Path: path, StatusCode: resp.StatusCode}
}

// HTTPError reports a non-2xx response without an application-level reason.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
}

// logRateLimit logs the API rate limit budget after each call. Headers are
// already normalized by rateLimitHeaderTransport.
func logRateLimit(resp *http.Response, endpoint string) {
	remaining, err := strconv.ParseInt(resp.Header.Get(headerRateRemaining), 10, 64)
	if err != nil {
		slog.Debug("reddit api call", "endpoint", endpoint, "status", resp.StatusCode)
		return
	}

	attrs := []any{"endpoint", endpoint, "status", resp.StatusCode, "rate_remaining", remaining}
	var reset time.Time
	if epoch, err := strconv.ParseInt(resp.Header.Get(headerRateReset), 10, 64); err == nil {
		reset = time.Unix(epoch, 0)
		attrs = append(attrs, "rate_reset", reset)
	}
	slog.Debug("reddit api call", attrs...)

	if remaining < 10 {
		slog.Warn("reddit rate limit low", "remaining", remaining, "reset", reset)
	}
}
