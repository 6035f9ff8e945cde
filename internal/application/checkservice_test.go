package application_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/testinguser/internal/application"
	"github.com/ericfisherdev/testinguser/internal/domain/model"
)

func TestCheck_PrintsMaskedCredentials(t *testing.T) {
	store := &memStore{saved: []model.Credentials{{
		Username:     "myuser",
		Password:     "mypass",
		ClientID:     "ID",
		ClientSecret: "SECRET",
	}}}
	con, out, _ := scriptedConsole()
	svc := application.NewCheckService(store, con)

	report, err := svc.Check(context.Background())

	require.NoError(t, err)
	assert.True(t, report.Complete())
	assert.Equal(t, "/tmp/creds.json", report.Location)
	assert.Equal(t, "Credentials at /tmp/creds.json\n"+
		"  username:      myuser\n"+
		"  password:      my****\n"+
		"  client_id:     ID\n"+
		"  client_secret: SE****\n", out.String())
}

func TestCheck_IncompleteFile(t *testing.T) {
	store := &memStore{saved: []model.Credentials{{Username: "myuser", Password: "mypass"}}}
	con, out, _ := scriptedConsole()
	svc := application.NewCheckService(store, con)

	report, err := svc.Check(context.Background())

	require.Error(t, err)
	assert.Equal(t, []string{"client_id", "client_secret"}, report.Missing)
	assert.Contains(t, out.String(), "username:      myuser", "the report is printed before failing")
}

func TestInspect_LoadError(t *testing.T) {
	con, _, _ := scriptedConsole()
	svc := application.NewCheckService(&memStore{}, con)

	_, err := svc.Inspect(context.Background())

	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "/tmp/creds.json")
}
