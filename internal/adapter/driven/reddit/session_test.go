package reddit_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/testinguser/internal/adapter/driven/reddit"
	"github.com/ericfisherdev/testinguser/internal/domain/model"
)

// newTestSessionClient creates a SessionClient backed by the given handler.
func newTestSessionClient(t *testing.T, handler http.Handler) (*reddit.SessionClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := reddit.NewSessionClientWithHTTPClient(server.Client(), server.URL+"/")
	require.NoError(t, err)

	return client, server
}

// writeEnvelope writes an api_type=json response.
func writeEnvelope(w http.ResponseWriter, errs [][]string, data any) {
	if errs == nil {
		errs = [][]string{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"json": map[string]any{"errors": errs, "data": data},
	})
}

func testAttempt() model.CaptchaAttempt {
	return model.CaptchaAttempt{Captcha: model.Captcha{Iden: "iden42"}, Answer: "ANSWER"}
}

func TestIsUsernameAvailable(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/username_available.json", r.URL.Path)
		_ = json.NewEncoder(w).Encode(r.URL.Query().Get("user") == "free")
	})
	client, _ := newTestSessionClient(t, handler)

	free, err := client.IsUsernameAvailable(context.Background(), "free")
	require.NoError(t, err)
	assert.True(t, free)

	taken, err := client.IsUsernameAvailable(context.Background(), "taken")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestIsUsernameAvailable_HTTPError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	client, _ := newTestSessionClient(t, handler)

	_, err := client.IsUsernameAvailable(context.Background(), "anyone")

	require.Error(t, err)
	var httpErr *reddit.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Contains(t, err.Error(), "anyone")
}

func TestNewCaptcha(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/new_captcha", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "json", r.PostForm.Get("api_type"))
		writeEnvelope(w, nil, map[string]string{"iden": "abc123"})
	})
	client, server := newTestSessionClient(t, handler)

	captcha, err := client.NewCaptcha(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "abc123", captcha.Iden)
	assert.Equal(t, server.URL+"/captcha/abc123.png", captcha.ImageURL)
}

func TestNewCaptcha_MissingIden(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, nil, map[string]string{})
	})
	client, _ := newTestSessionClient(t, handler)

	_, err := client.NewCaptcha(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no iden")
}

func TestRegister_SendsFormAndKeepsSession(t *testing.T) {
	var appForm map[string]string
	var appModhash string
	var appCookie string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "myuser", r.PostForm.Get("user"))
		assert.Equal(t, "mypass", r.PostForm.Get("passwd"))
		assert.Equal(t, "mypass", r.PostForm.Get("passwd2"))
		assert.Equal(t, "me@example.com", r.PostForm.Get("email"))
		assert.Equal(t, "iden42", r.PostForm.Get("iden"))
		assert.Equal(t, "ANSWER", r.PostForm.Get("captcha"))
		assert.Equal(t, "json", r.PostForm.Get("api_type"))
		writeEnvelope(w, nil, map[string]string{"modhash": "mh-1", "cookie": "session-cookie"})
	})
	mux.HandleFunc("/api/updateapp", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		appForm = map[string]string{}
		for k := range r.PostForm {
			appForm[k] = r.PostForm.Get(k)
		}
		appModhash = r.Header.Get("X-Modhash")
		if c, err := r.Cookie("reddit_session"); err == nil {
			appCookie = c.Value
		}
		writeEnvelope(w, nil, nil)
	})
	client, _ := newTestSessionClient(t, mux)

	err := client.Register(context.Background(), model.RegistrationRequest{
		Username: "myuser",
		Password: "mypass",
		Email:    "me@example.com",
		Captcha:  testAttempt(),
	})
	require.NoError(t, err)

	err = client.CreateOrUpdateApp(context.Background(), model.AppRegistration{
		Name:        "JRAW-testing-app",
		Type:        model.AppTypeScript,
		Description: "Created to test OAuth2 features in JRAW",
		AboutURL:    "https://github.com/thatJavaNerd/JRAW",
		RedirectURI: "https://github.com/thatJavaNerd/JRAW",
	})
	require.NoError(t, err)

	assert.Equal(t, "mh-1", appModhash)
	assert.Equal(t, "session-cookie", appCookie)
	assert.Equal(t, "JRAW-testing-app", appForm["name"])
	assert.Equal(t, "script", appForm["app_type"])
	assert.Equal(t, "mh-1", appForm["uh"])
	assert.Equal(t, "https://github.com/thatJavaNerd/JRAW", appForm["redirect_uri"])
	assert.NotContains(t, appForm, "client_id", "new apps carry no ID")
}

func TestRegister_RejectionIsAPIError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, [][]string{{"USERNAME_TAKEN", "that username is already taken", "user"}}, nil)
	})
	client, _ := newTestSessionClient(t, handler)

	err := client.Register(context.Background(), model.RegistrationRequest{Username: "taken", Password: "pw", Captcha: testAttempt()})

	require.Error(t, err)
	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "USERNAME_TAKEN", apiErr.Code)
	assert.Equal(t, "that username is already taken", apiErr.Message)
	assert.Equal(t, "user", apiErr.Field)
}

func TestRegister_ReasonBodyIsAPIError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"reason":"BAD_CAPTCHA","explanation":"care to try these again?"}`))
	})
	client, _ := newTestSessionClient(t, handler)

	err := client.Register(context.Background(), model.RegistrationRequest{Username: "u", Password: "pw", Captcha: testAttempt()})

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "BAD_CAPTCHA", apiErr.Code)
	assert.Equal(t, "care to try these again?", apiErr.Message)
}

func TestCreateOrUpdateApp_RequiresSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	client, _ := newTestSessionClient(t, handler)

	err := client.CreateOrUpdateApp(context.Background(), model.AppRegistration{Name: "app"})

	assert.True(t, errors.Is(err, reddit.ErrNotLoggedIn))
}

func TestNewSessionClient_SetsUserAgent(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		_ = json.NewEncoder(w).Encode(true)
	}))
	t.Cleanup(server.Close)

	client, err := reddit.NewSessionClient(reddit.Options{
		BaseURL:   server.URL,
		UserAgent: "Testing-User-Creator for JRAW vtest",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)

	ok, err := client.IsUsernameAvailable(context.Background(), "x")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Testing-User-Creator for JRAW vtest", agent)
}
