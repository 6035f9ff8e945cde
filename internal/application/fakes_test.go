package application_test

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/ericfisherdev/testinguser/internal/adapter/driving/console"
	"github.com/ericfisherdev/testinguser/internal/application"
	"github.com/ericfisherdev/testinguser/internal/domain/model"
	"github.com/ericfisherdev/testinguser/internal/domain/port/driven"
)

// maxToken is what SecureToken yields when the secure reader returns only 0xff.
const maxToken = "vvvvvvvvvvvvvvvvvvvvvvvvvv"

// testRandomness returns deterministic generators. Every secure token is maxToken.
func testRandomness() application.Randomness {
	return application.Randomness{
		Weak:   rand.New(rand.NewPCG(1, 2)),
		Secure: strings.NewReader(strings.Repeat("\xff", 17*64)),
	}
}

// scriptedConsole feeds the given lines to a real Console and captures output.
func scriptedConsole(lines ...string) (*console.Console, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	input := strings.Join(lines, "\n") + "\n"
	return console.New(strings.NewReader(input), &out, &errOut), &out, &errOut
}

type fakeAccounts struct {
	taken          map[string]bool
	checks         []string
	captchaCount   int
	captchaErr     error
	registerErrs   []error // Returned in order; nil once exhausted.
	registrations  []model.RegistrationRequest
	apps           []model.AppRegistration
	appErr         error
	availabilityFn func(string) (bool, error)
}

var _ driven.AccountClient = (*fakeAccounts)(nil)

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{taken: map[string]bool{}}
}

func (f *fakeAccounts) IsUsernameAvailable(_ context.Context, username string) (bool, error) {
	f.checks = append(f.checks, username)
	if f.availabilityFn != nil {
		return f.availabilityFn(username)
	}
	return !f.taken[username], nil
}

func (f *fakeAccounts) NewCaptcha(_ context.Context) (model.Captcha, error) {
	if f.captchaErr != nil {
		return model.Captcha{}, f.captchaErr
	}
	f.captchaCount++
	iden := fmt.Sprintf("iden%d", f.captchaCount)
	return model.Captcha{Iden: iden, ImageURL: "https://example.test/captcha/" + iden + ".png"}, nil
}

func (f *fakeAccounts) Register(_ context.Context, req model.RegistrationRequest) error {
	f.registrations = append(f.registrations, req)
	if len(f.registerErrs) == 0 {
		return nil
	}
	err := f.registerErrs[0]
	f.registerErrs = f.registerErrs[1:]
	return err
}

func (f *fakeAccounts) CreateOrUpdateApp(_ context.Context, app model.AppRegistration) error {
	f.apps = append(f.apps, app)
	return f.appErr
}

type fakeContent struct {
	multis       []model.MultiReddit
	descriptions map[string]string
	submissions  []model.SubmissionRequest
	multiErr     error
	submitErr    error
}

var _ driven.ContentClient = (*fakeContent)(nil)

func (f *fakeContent) CreateOrUpdateMulti(_ context.Context, multi model.MultiReddit) (model.MultiReddit, error) {
	if f.multiErr != nil {
		return model.MultiReddit{}, f.multiErr
	}
	f.multis = append(f.multis, multi)
	multi.Path = "/user/myuser/m/" + multi.Name
	return multi, nil
}

func (f *fakeContent) UpdateMultiDescription(_ context.Context, name, description string) error {
	if f.descriptions == nil {
		f.descriptions = map[string]string{}
	}
	f.descriptions[name] = description
	return nil
}

func (f *fakeContent) Submit(_ context.Context, req model.SubmissionRequest) (model.Submission, error) {
	if f.submitErr != nil {
		return model.Submission{}, f.submitErr
	}
	f.submissions = append(f.submissions, req)
	return model.Submission{ID: "abc12", Fullname: "t3_abc12", ShortURL: "https://redd.it/abc12"}, nil
}

type fakeConnector struct {
	content *fakeContent
	err     error
	creds   []model.Credentials
}

func (f *fakeConnector) Connect(_ context.Context, creds model.Credentials) (driven.ContentClient, error) {
	f.creds = append(f.creds, creds)
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}

type memStore struct {
	saved   []model.Credentials
	saveErr error
}

var _ driven.CredentialStore = (*memStore)(nil)

func (m *memStore) Save(_ context.Context, creds model.Credentials) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, creds)
	return nil
}

func (m *memStore) Load(_ context.Context) (model.Credentials, error) {
	if len(m.saved) == 0 {
		return model.Credentials{}, os.ErrNotExist
	}
	return m.saved[len(m.saved)-1], nil
}

func (m *memStore) Location() string { return "/tmp/creds.json" }
