package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxBodyBytes    = 10 << 20
	defaultTimeout  = 15 * time.Second
)

// Client talks to the parking REST API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	tokenSource oauth2.TokenSource
	registerer  prometheus.Registerer
	metrics     *metrics
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client (its Transport is wrapped for bearer auth).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithTokenSource sends the source's token as a bearer token on every request.
func WithTokenSource(source oauth2.TokenSource) ClientOption {
	return func(c *Client) {
		c.tokenSource = source
	}
}

// WithMetrics records request counts and latencies on reg.
func WithMetrics(reg prometheus.Registerer) ClientOption {
	return func(c *Client) {
		c.registerer = reg
	}
}

func New(baseURL string, options ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[apiclient.New] baseURL is required")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
	}
	for _, opt := range options {
		opt(c)
	}

	hc := &http.Client{Timeout: c.timeout}
	if c.httpClient != nil {
		copied := *c.httpClient
		hc = &copied
	}
	if c.tokenSource != nil {
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc.Transport = &bearerTransport{source: c.tokenSource, base: base}
	}
	c.httpClient = hc

	if c.registerer != nil {
		m, err := newMetrics(c.registerer)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a JSON request and returns the body of a 2xx response.
// Any other outcome is a *TransportError.
func (c *Client) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "[Client.Do] encoding body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Do] NewRequest")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(path, "transport_error", time.Since(start))
		log.Err(err).Str("request_id", requestID).Str("method", method).Str("path", path).Msg("API request failed")
		return nil, &TransportError{Message: ExtractErrorMessage(nil, err.Error()), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.observe(path, "transport_error", time.Since(start))
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: ExtractErrorMessage(nil, err.Error()), Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.metrics.observe(path, "http_error", time.Since(start))
		status := fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		msg := ExtractErrorMessage(data, status)
		log.Warn().Str("request_id", requestID).Str("method", method).Str("path", path).
			Int("status", resp.StatusCode).Str("message", msg).Msg("API request rejected")
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Message:    msg,
			Err:        fmt.Errorf("%s %s: %s", method, path, status),
		}
	}

	c.metrics.observe(path, "ok", time.Since(start))
	log.Debug().Str("request_id", requestID).Str("method", method).Str("path", path).
		Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("API request")
	return data, nil
}

// Get returns the raw body of a GET, used for binary payloads such as ticket PDFs.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func GetEnvelope[T any](ctx context.Context, c *Client, path string) (Envelope[T], error) {
	return doEnvelope[T](ctx, c, http.MethodGet, path, nil)
}

func PostEnvelope[T any](ctx context.Context, c *Client, path string, body any) (Envelope[T], error) {
	return doEnvelope[T](ctx, c, http.MethodPost, path, body)
}

func PutEnvelope[T any](ctx context.Context, c *Client, path string, body any) (Envelope[T], error) {
	return doEnvelope[T](ctx, c, http.MethodPut, path, body)
}

// PostMaybeEnveloped posts and decodes a body that may or may not be enveloped.
func PostMaybeEnveloped[T any](ctx context.Context, c *Client, path string, body any) (MaybeEnveloped[T], error) {
	data, err := c.Do(ctx, http.MethodPost, path, body)
	if err != nil {
		return MaybeEnveloped[T]{}, err
	}
	res, err := DecodeMaybeEnveloped[T](data)
	if err != nil {
		log.Err(err).Str("path", path).Msg("Invalid API response")
		return MaybeEnveloped[T]{}, err
	}
	return res, nil
}

func doEnvelope[T any](ctx context.Context, c *Client, method, path string, body any) (Envelope[T], error) {
	data, err := c.Do(ctx, method, path, body)
	if err != nil {
		return Envelope[T]{}, err
	}
	env, err := DecodeEnvelope[T](data)
	if err != nil {
		log.Err(err).Str("method", method).Str("path", path).Msg("Invalid API response")
		return Envelope[T]{}, err
	}
	return env, nil
}
