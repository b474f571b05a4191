package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/anpr-client/apiclient"
	"github.com/jrsteele09/anpr-client/auth"
	"github.com/stretchr/testify/require"
)

func TestLoginFlow_Submit(t *testing.T) {
	ctx := context.Background()
	creds := auth.Credentials{Username: "driver@example.com", Password: "pw"}

	t.Run("success returns the pending user", func(t *testing.T) {
		gw := &fakeGateway{loginFn: func(req auth.LoginRequest) (apiclient.Envelope[auth.LoginData], error) {
			require.Equal(t, "driver@example.com", req.Username)
			require.Equal(t, "pw", req.Password)
			return apiclient.Envelope[auth.LoginData]{Success: true, Message: "OTP sent", Data: auth.LoginData{UserID: 42}}, nil
		}}
		flow, err := auth.NewLoginFlow(gw)
		require.NoError(t, err)

		res, err := flow.Submit(ctx, creds)
		require.NoError(t, err)
		require.Equal(t, int64(42), res.UserID)
		require.Equal(t, "OTP sent", res.Message)

		pending := res.Pending(creds)
		require.Equal(t, auth.PendingVerification{UserID: 42, Username: creds.Username, Password: creds.Password}, pending)
	})

	t.Run("empty fields never reach the network", func(t *testing.T) {
		gw := &fakeGateway{}
		flow, err := auth.NewLoginFlow(gw)
		require.NoError(t, err)

		for _, c := range []auth.Credentials{{}, {Username: "driver"}, {Password: "pw"}} {
			_, err := flow.Submit(ctx, c)
			var validationErr *auth.ValidationError
			require.ErrorAs(t, err, &validationErr)
		}
		require.Zero(t, gw.loginCount())
	})

	t.Run("refusal carries the server message", func(t *testing.T) {
		gw := &fakeGateway{loginFn: func(auth.LoginRequest) (apiclient.Envelope[auth.LoginData], error) {
			return apiclient.Envelope[auth.LoginData]{Success: false, Message: "Credenciales inválidas"}, nil
		}}
		flow, _ := auth.NewLoginFlow(gw)

		_, err := flow.Submit(ctx, creds)
		var authErr *auth.AuthError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, "Credenciales inválidas", authErr.Message)
	})

	t.Run("refusal without message uses the generic text", func(t *testing.T) {
		gw := &fakeGateway{loginFn: func(auth.LoginRequest) (apiclient.Envelope[auth.LoginData], error) {
			return apiclient.Envelope[auth.LoginData]{Success: false}, nil
		}}
		flow, _ := auth.NewLoginFlow(gw)

		_, err := flow.Submit(ctx, creds)
		require.Equal(t, "authentication failed", auth.UserMessage(err))
	})

	t.Run("transport failure keeps the extracted message", func(t *testing.T) {
		gw := &fakeGateway{loginFn: func(auth.LoginRequest) (apiclient.Envelope[auth.LoginData], error) {
			return apiclient.Envelope[auth.LoginData]{}, &apiclient.TransportError{StatusCode: 401, Message: "Usuario bloqueado"}
		}}
		flow, _ := auth.NewLoginFlow(gw)

		_, err := flow.Submit(ctx, creds)
		var authErr *auth.AuthError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, "Usuario bloqueado", authErr.Message)
		var transportErr *apiclient.TransportError
		require.ErrorAs(t, err, &transportErr)
	})

	t.Run("unknown failure uses the fallback", func(t *testing.T) {
		gw := &fakeGateway{loginFn: func(auth.LoginRequest) (apiclient.Envelope[auth.LoginData], error) {
			return apiclient.Envelope[auth.LoginData]{}, errors.New("boom")
		}}
		flow, _ := auth.NewLoginFlow(gw)

		_, err := flow.Submit(ctx, creds)
		require.Equal(t, "incorrect credentials or server unavailable", auth.UserMessage(err))
	})

	t.Run("success without a user id is refused", func(t *testing.T) {
		gw := &fakeGateway{loginFn: func(auth.LoginRequest) (apiclient.Envelope[auth.LoginData], error) {
			return apiclient.Envelope[auth.LoginData]{Success: true}, nil
		}}
		flow, _ := auth.NewLoginFlow(gw)

		_, err := flow.Submit(ctx, creds)
		var authErr *auth.AuthError
		require.ErrorAs(t, err, &authErr)
	})
}

func TestNewLoginFlow_RequiresGateway(t *testing.T) {
	_, err := auth.NewLoginFlow(nil)
	require.Error(t, err)
}
