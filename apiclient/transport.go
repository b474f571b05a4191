package apiclient

import (
	"net/http"

	apperrors "github.com/jrsteele09/anpr-client/internal/errors"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// bearerTransport adds "Authorization: Bearer <token>" when a session token exists
// and sends the request untouched when nobody is logged in. Like any RoundTripper
// it closes the request body when it fails before sending.
type bearerTransport struct {
	source oauth2.TokenSource
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := t.source.Token()
	if err != nil {
		if errors.Is(err, apperrors.ErrNoSession) {
			return t.base.RoundTrip(req)
		}
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, errors.Wrap(err, "[bearerTransport] token source")
	}
	authorised := req.Clone(req.Context())
	tok.SetAuthHeader(authorised)
	return t.base.RoundTrip(authorised)
}
