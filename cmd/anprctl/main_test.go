package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/anpr-client/apiclient/fakeapi"
	"github.com/jrsteele09/anpr-client/auth"
	"github.com/jrsteele09/anpr-client/internal/config"
	"github.com/jrsteele09/anpr-client/sessions"
	"github.com/jrsteele09/anpr-client/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRun_Demo(t *testing.T) {
	t.Setenv("ANPR_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ENV", "PROD")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	err := run([]string{"--quiet", "--metrics", "demo"}, strings.NewReader(""), &out)
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, "Signed in as demo@anpr.local.")
	require.Contains(t, text, "ABC123")
	require.Contains(t, text, "North (North Ave 200)")
	require.Contains(t, text, "[danger]")
	require.Contains(t, text, "Signed out.")
	require.Contains(t, text, `anpr_client_requests_total{endpoint="/Auth/login",outcome="ok"} 1`)
}

func TestRun_LoginPersistsSession(t *testing.T) {
	api := fakeapi.New(fakeapi.WithCodeGenerator(func() string { return "123456" }))
	_, err := api.AddAccount("driver", "pw", users.Person{FirstName: "Ana", LastName: "Gómez"},
		sessions.RoleByParking{ParkingID: 3, Role: "owner"})
	require.NoError(t, err)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	t.Setenv("ANPR_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ANPR_API_URL", srv.URL)
	t.Setenv("ANPR_DB_PATH", filepath.Join(t.TempDir(), "data", "session.db"))
	t.Setenv("ENV", "PROD")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	err = run([]string{"--quiet", "login"}, strings.NewReader("driver\npw\n12345\n654321\n123456\n"), &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "Please enter the 6 digit code.")
	require.Contains(t, out.String(), "Invalid or expired code")
	require.Contains(t, out.String(), "Signed in as driver.")

	out.Reset()
	require.NoError(t, run([]string{"--quiet", "whoami"}, strings.NewReader(""), &out))
	require.Contains(t, out.String(), "Role:     owner at parking 3")
	require.Contains(t, out.String(), "Parking:  3")
	require.Contains(t, out.String(), "Ana Gómez")

	out.Reset()
	require.NoError(t, run([]string{"--quiet", "logout"}, strings.NewReader(""), &out))
	out.Reset()
	require.NoError(t, run([]string{"--quiet", "whoami"}, strings.NewReader(""), &out))
	require.Contains(t, out.String(), "Not signed in.")
}

func TestSignIn_ResendNoticeComesFromPromptLoop(t *testing.T) {
	api := fakeapi.New(fakeapi.WithCodeGenerator(func() string { return "123456" }))
	_, err := api.AddAccount("driver", "pw", users.Person{FirstName: "Ana"})
	require.NoError(t, err)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	t.Setenv("ANPR_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ANPR_API_URL", srv.URL)
	t.Setenv("ANPR_DB_PATH", ":memory:")
	t.Setenv("ANPR_OTP_RESEND_COOLDOWN", "1s")
	t.Setenv("LOG_LEVEL", "error")
	cfg, err := config.Load()
	require.NoError(t, err)

	ctx := context.Background()
	var out bytes.Buffer
	a, err := newApp(ctx, cfg, prometheus.NewRegistry(), strings.NewReader(""), &out, false)
	require.NoError(t, err)
	defer a.Close()

	inputs := []string{"not a code", "resend", "123456"}
	calls := 0
	next := func(auth.Cooldown) (string, error) {
		if calls == 0 {
			time.Sleep(1500 * time.Millisecond)
		}
		input := inputs[calls]
		calls++
		return input, nil
	}

	require.NoError(t, a.signIn(ctx, auth.Credentials{Username: "driver", Password: "pw"}, next))

	text := out.String()
	invalid := strings.Index(text, "Please enter the 6 digit code.")
	notice := strings.Index(text, "You can request a new code now")
	resent := strings.Index(text, "A new code is on its way.")
	require.True(t, invalid >= 0 && notice > invalid && resent > notice, text)
	require.Equal(t, 1, strings.Count(text, "You can request a new code now"))
	require.Contains(t, text, "Signed in as driver.")
	require.Equal(t, 2, api.Calls(fakeapi.RouteAuthLogin))
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Setenv("ANPR_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ANPR_DB_PATH", ":memory:")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	require.Error(t, run([]string{"--quiet", "fly"}, strings.NewReader(""), &out))
	require.Error(t, run([]string{"--quiet"}, strings.NewReader(""), &out))
}
