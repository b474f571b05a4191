package apiclient_test

import (
	"testing"

	"github.com/jrsteele09/anpr-client/apiclient"
	"github.com/stretchr/testify/require"
)

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		transport string
		want      string
	}{
		{name: "string body", body: `"Usuario bloqueado"`, transport: "401 Unauthorized", want: "Usuario bloqueado"},
		{name: "plain text body", body: `Service Unavailable`, transport: "503", want: "Service Unavailable"},
		{name: "message wins over title", body: `{"message":"m","title":"t"}`, want: "m"},
		{name: "title", body: `{"title":"One or more validation errors occurred."}`, want: "One or more validation errors occurred."},
		{name: "empty message falls to title", body: `{"message":"","title":"t"}`, want: "t"},
		{name: "first errors entry in document order", body: `{"errors":{"Zeta":["z first"],"Alpha":["a second"]}}`, want: "z first"},
		{name: "errors entry as string", body: `{"errors":{"Code":"bad"}}`, want: "bad"},
		{name: "empty errors falls to transport", body: `{"errors":{}}`, transport: "400 Bad Request", want: "400 Bad Request"},
		{name: "blank string body falls to transport", body: `"   "`, transport: "404 Not Found", want: "404 Not Found"},
		{name: "no body", transport: "connection refused", want: "connection refused"},
		{name: "nothing at all", want: apiclient.FallbackMessage},
		{name: "json without known keys", body: `{"other":1}`, want: apiclient.FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, apiclient.ExtractErrorMessage([]byte(tt.body), tt.transport))
		})
	}
}

func TestTransportError(t *testing.T) {
	err := &apiclient.TransportError{StatusCode: 401, Message: "nope"}
	require.Equal(t, "transport error (status 401): nope", err.Error())

	err = &apiclient.TransportError{Message: "dial tcp: refused"}
	require.Equal(t, "transport error: dial tcp: refused", err.Error())
}
