// Package apiclient is the authenticated HTTP wrapper shared by every
// remote repository.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/scanova-console/internal/models"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

// TokenSource yields the stored credential pair for each request.
type TokenSource interface {
	Get(ctx context.Context) (models.TokenPair, error)
}

// Observer receives one observation per completed request.
type Observer interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     *zap.Logger
	Metrics    Observer
}

// RequestOptions describes a single call. Route is the path template used as
// the metrics label; it defaults to the concrete path.
type RequestOptions struct {
	Method string
	Body   interface{}
	Query  Params
	Route  string
}

// Client performs requests against the Scanova API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
	metrics Observer
}

// New validates the base address and builds a Client.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", opts.BaseURL)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{
		baseURL: base,
		http:    opts.HTTPClient,
		tokens:  opts.Tokens,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}, nil
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// hasBody is false for nil and for typed nils that would encode as null.
func hasBody(v interface{}) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// Request performs the call and returns the classified payload on 2xx. Any
// other outcome is an *errors.Error; there is no other failure channel.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (*Payload, error) {
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}

	target, err := c.buildURL(path, opts.Query)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRequestFailed.Code, 0, "invalid request path")
	}

	var body io.Reader
	if hasBody(opts.Body) {
		raw, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, 0, "failed to encode request body")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRequestFailed.Code, 0, "invalid request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.accessToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	route := opts.Route
	if route == "" {
		route = path
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, route, 0, time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, appErrors.Wrap(ctxErr, appErrors.ErrCancelled.Code, 0, appErrors.ErrCancelled.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	payload := readPayload(resp)
	c.observe(method, route, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ParseErrorBody(payload).Message(resp.StatusCode)
		c.logger.Debug("api request rejected",
			zap.String("method", method),
			zap.String("route", route),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return nil, appErrors.FromStatus(resp.StatusCode, msg, payload.Value)
	}
	return payload, nil
}

// Do performs the call and decodes a successful JSON payload into out, which
// may be nil.
func (c *Client) Do(ctx context.Context, method, path string, opts RequestOptions, out interface{}) error {
	opts.Method = method
	payload, err := c.Request(ctx, path, opts)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := payload.Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, payload.Status, "Unexpected response from server.")
	}
	return nil
}

func (c *Client) buildURL(path string, query Params) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		values := u.Query()
		query.apply(values)
		u.RawQuery = values.Encode()
	}
	return u.String(), nil
}

func (c *Client) accessToken(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	pair, err := c.tokens.Get(ctx)
	if err != nil {
		c.logger.Warn("token store unavailable, sending request without credentials", zap.Error(err))
		return ""
	}
	return pair.AccessToken
}

func (c *Client) observe(method, route string, status int, d time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveHTTPRequest(method, route, status, d)
	}
}

// IsStatus reports whether err is an API failure with the given status.
func IsStatus(err error, status int) bool {
	var e *appErrors.Error
	return errors.As(err, &e) && e.Status == status
}
