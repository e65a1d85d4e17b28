// Package client implements the storefront REST API consumer. Every call
// speaks the backend's uniform envelope ({status, message, status_code,
// data}), attaches the stored bearer token, and makes exactly one attempt:
// there is no retry policy anywhere, failures surface directly to the
// caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Ejaz0000/bike-gear-client/internal/session"
	"github.com/Ejaz0000/bike-gear-client/pkg/httpclient"
)

// DefaultTimeout matches the storefront's fixed 50s request timeout. There
// is no per-operation cancellation beyond the request context.
const DefaultTimeout = 50 * time.Second

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, including the /api base path.
	BaseURL string
	// Timeout is the whole-client request timeout. Defaults to
	// DefaultTimeout when zero.
	Timeout time.Duration
	// Tokens stores the bearer token between requests. Defaults to an
	// in-memory store.
	Tokens session.TokenStore
	// UserAgent is stamped on every request when non-empty.
	UserAgent string
	// Transport overrides the base transport, mainly for tests.
	Transport http.RoundTripper
}

// Client is the storefront API client.
type Client struct {
	base   *url.URL
	http   *http.Client
	tokens session.TokenStore
}

// New creates a Client. The transport chain is middleware-wrapped (request
// IDs, optional user agent, request logging) and instrumented with otelhttp.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = &session.MemoryTokenStore{}
	}

	mws := []httpclient.Middleware{httpclient.RequestID()}
	if cfg.UserAgent != "" {
		mws = append(mws, httpclient.UserAgent(cfg.UserAgent))
	}
	mws = append(mws, httpclient.LogRequests())

	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(httpclient.Wrap(cfg.Transport, mws...)),
		},
		tokens: tokens,
	}, nil
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Status     bool            `json:"status"`
	Message    string          `json:"message"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
}

// do performs one request and returns the envelope's data payload.
//
// A 401 purges the stored token before the error is returned; the caller
// stays where it is (no automatic redirect). A 2xx with status=false is
// still treated as a failure, mirroring the original client.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, header http.Header) (json.RawMessage, error) {
	u := *c.base
	p, query, _ := strings.Cut(path, "?")
	u.Path = strings.TrimSuffix(u.Path, "/") + p
	u.RawQuery = query

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Token is stale or revoked. Purge it so the next navigation sees
		// an anonymous session.
		_ = c.tokens.Clear()
	}

	if len(raw) == 0 && resp.StatusCode < http.StatusBadRequest {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, errors.Wrap(err, "decode envelope")
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Status {
		return nil, newAPIError(resp.StatusCode, &env)
	}
	return env.Data, nil
}

// getJSON performs a GET and unmarshals the data payload into out when
// out is non-nil.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil, "", nil)
	if err != nil {
		return err
	}
	return decodeInto(data, out)
}

// sendJSON performs a JSON-bodied request and unmarshals data into out.
func (c *Client) sendJSON(ctx context.Context, method, path string, body any, out any, header http.Header) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal body")
		}
		reader = bytes.NewReader(payload)
	}
	data, err := c.do(ctx, method, path, reader, "application/json", header)
	if err != nil {
		return err
	}
	return decodeInto(data, out)
}

// sendForm performs a multipart/form-data request, the way the storefront
// submits auth and address forms, and unmarshals data into out.
func (c *Client) sendForm(ctx context.Context, method, path string, fields map[string]string, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return errors.Wrapf(err, "write field %s", k)
		}
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "close form")
	}

	data, err := c.do(ctx, method, path, &buf, w.FormDataContentType(), nil)
	if err != nil {
		return err
	}
	return decodeInto(data, out)
}

// delete performs a DELETE and discards the data payload.
func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, "", nil)
	return err
}

// jsonBody marshals a request body that is known to be encodable. It is
// only used with maps and structs of plain fields.
func jsonBody(v any) io.Reader {
	payload, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bytes.NewReader(payload)
}

func decodeInto(data json.RawMessage, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode data")
	}
	return nil
}
