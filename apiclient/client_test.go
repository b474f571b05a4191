package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jrsteele09/anpr-client/apiclient"
	"github.com/jrsteele09/anpr-client/sessions"
	"github.com/jrsteele09/anpr-client/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Authorization string
	RequestID     string
	Path          string
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (rec *recorder) last() recordedRequest {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.requests[len(rec.requests)-1]
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *recorder) {
	t.Helper()

	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.requests = append(rec.requests, recordedRequest{
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get(apiclient.RequestIDHeader),
			Path:          r.URL.Path,
		})
		rec.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"success":true,"message":"","data":{"userId":9}}`))
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := apiclient.New("  ")
	require.Error(t, err)

	c, err := apiclient.New("http://localhost:5100/api/")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5100/api", c.BaseURL())
}

func TestClient_BearerOnlyWithSession(t *testing.T) {
	srv, rec := newTestServer(t, okHandler)
	store := sessions.NewMemoryStore()

	c, err := apiclient.New(srv.URL, apiclient.WithTokenSource(token.NewSessionSource(store)))
	require.NoError(t, err)

	env, err := apiclient.GetEnvelope[loginData](context.Background(), c, "/User/9")
	require.NoError(t, err)
	require.Equal(t, int64(9), env.Data.UserID)
	require.Empty(t, rec.last().Authorization)
	require.NotEmpty(t, rec.last().RequestID)

	require.NoError(t, store.Save(sessions.AuthSession{Token: "opaque-token", Username: "u", UserID: 9}))
	_, err = apiclient.GetEnvelope[loginData](context.Background(), c, "/User/9")
	require.NoError(t, err)
	require.Equal(t, "Bearer opaque-token", rec.last().Authorization)

	require.NoError(t, store.Clear())
	_, err = apiclient.GetEnvelope[loginData](context.Background(), c, "/User/9")
	require.NoError(t, err)
	require.Empty(t, rec.last().Authorization)
}

func TestClient_RequestIDsAreUnique(t *testing.T) {
	srv, rec := newTestServer(t, okHandler)
	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/a")
	require.NoError(t, err)
	first := rec.last().RequestID
	_, err = c.Get(context.Background(), "/a")
	require.NoError(t, err)
	require.NotEqual(t, first, rec.last().RequestID)
}

func TestClient_HTTPErrorCarriesPayloadMessage(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"title":"One or more validation errors occurred.","errors":{"Code":["The Code field is required."]}}`))
	})
	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)

	_, err = apiclient.PostEnvelope[loginData](context.Background(), c, "/Auth/login", map[string]string{})
	var transportErr *apiclient.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, http.StatusBadRequest, transportErr.StatusCode)
	require.Equal(t, "One or more validation errors occurred.", transportErr.Message)
}

func TestClient_HTTPErrorWithoutPayload(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/x")
	var transportErr *apiclient.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, "500 Internal Server Error", transportErr.Message)
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(okHandler))
	url := srv.URL
	srv.Close()

	c, err := apiclient.New(url)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/x")
	var transportErr *apiclient.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Zero(t, transportErr.StatusCode)
	require.NotEmpty(t, transportErr.Message)
}

func TestClient_InvalidEnvelope(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"userId":1}}`))
	})
	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)

	_, err = apiclient.GetEnvelope[loginData](context.Background(), c, "/x")
	require.ErrorIs(t, err, apiclient.ErrInvalidResponse)
}

func TestClient_PutSendsJSONBody(t *testing.T) {
	var contentType, method string
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		method = r.Method
		okHandler(w, r)
	})
	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)

	_, err = apiclient.PutEnvelope[loginData](context.Background(), c, "/User", map[string]int{"id": 9})
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, method)
	require.Equal(t, "application/json", contentType)
}

func TestClient_Metrics(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		okHandler(w, r)
	})
	reg := prometheus.NewRegistry()

	c, err := apiclient.New(srv.URL, apiclient.WithMetrics(reg))
	require.NoError(t, err)
	// A second client on the same registry shares the collectors.
	other, err := apiclient.New(srv.URL, apiclient.WithMetrics(reg))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.Get(ctx, "/Vehicle/by-client/status/42")
	require.NoError(t, err)
	_, err = other.Get(ctx, "/Vehicle/by-client/status/43")
	require.NoError(t, err)
	_, err = c.Get(ctx, "/Dashboard/occupancy/global?parkingId=7")
	require.NoError(t, err)
	_, err = c.Get(ctx, "/missing")
	require.Error(t, err)

	counts := map[string]float64{}
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "anpr_client_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			counts[labels["endpoint"]+" "+labels["outcome"]] = m.GetCounter().GetValue()
		}
	}

	require.Equal(t, map[string]float64{
		"/Vehicle/by-client/status/{id} ok": 2,
		"/Dashboard/occupancy/global ok":    1,
		"/missing http_error":               1,
	}, counts)
}
