package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/ekrishihub/storefront/pkg/errors"
	"go.uber.org/zap"
)

const maxErrorBody = 64 << 10

// Client is the HTTP client every feature module talks to the backend through
type Client struct {
	http       *http.Client
	classifier *Classifier
	logger     *zap.Logger
}

// NewClient creates a client sending through transport with a fixed timeout
func NewClient(classifier *Classifier, transport http.RoundTripper, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		classifier: classifier,
		logger:     logger,
	}
}

type requestOptions struct {
	query   url.Values
	form    url.Values
	headers http.Header
}

// RequestOption customizes a single request
type RequestOption func(*requestOptions)

// WithQuery adds query parameters
func WithQuery(q url.Values) RequestOption {
	return func(o *requestOptions) {
		o.query = q
	}
}

// WithForm sends form as an urlencoded body instead of JSON
func WithForm(form url.Values) RequestOption {
	return func(o *requestOptions) {
		o.form = form
	}
}

// WithHeader sets a request header
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(http.Header)
		}
		o.headers.Set(key, value)
	}
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, ref string, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, ref, nil, out, opts...)
}

// Post issues a POST request with a JSON body
func (c *Client) Post(ctx context.Context, ref string, body, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, ref, body, out, opts...)
}

// Put issues a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, ref string, body, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, ref, body, out, opts...)
}

// Patch issues a PATCH request with a JSON body
func (c *Client) Patch(ctx context.Context, ref string, body, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPatch, ref, body, out, opts...)
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, ref string, out interface{}, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, ref, nil, out, opts...)
}

// Do sends a request and decodes a JSON response into out.
// Non-2xx responses are returned as *apperrors.AppError.
func (c *Client) Do(ctx context.Context, method, ref string, body, out interface{}, opts ...RequestOption) error {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	req, err := c.newRequest(ctx, method, ref, body, &o)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return c.statusError(req, resp.StatusCode, raw)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeRequestFailed, "Unexpected response from server", http.StatusBadGateway, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, ref string, body interface{}, o *requestOptions) (*http.Request, error) {
	target := c.classifier.Resolve(ref)
	if len(o.query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + o.query.Encode()
	}

	var (
		reader      io.Reader
		contentType string
	)
	switch {
	case o.form != nil:
		reader = strings.NewReader(o.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case body != nil:
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range o.headers {
		req.Header[k] = v
	}
	return req, nil
}

func (c *Client) statusError(req *http.Request, status int, raw []byte) error {
	class := c.classifier.ClassifyURL(req.URL)
	msg := backendMessage(raw)
	if msg == "" {
		msg = http.StatusText(status)
	}

	code := apperrors.ErrCodeRequestFailed
	switch {
	case (status == http.StatusUnauthorized || status == http.StatusForbidden) && class == Protected:
		code = apperrors.ErrCodeSessionExpired
	case status == http.StatusUnauthorized:
		code = apperrors.ErrCodeUnauthorized
	case status == http.StatusForbidden:
		code = apperrors.ErrCodeForbidden
	case status == http.StatusNotFound:
		code = apperrors.ErrCodeNotFound
	case status == http.StatusBadRequest:
		code = apperrors.ErrCodeBadRequest
	case status >= 500:
		code = apperrors.ErrCodeServerError
	}

	c.logger.Debug("Backend rejected request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", status),
		zap.String("message", msg),
	)
	return apperrors.NewAppError(code, msg, status)
}

// backendMessage pulls a readable message out of an error body
func backendMessage(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		s := string(raw)
		if len(s) > 200 || strings.HasPrefix(s, "<") {
			return ""
		}
		return strings.Trim(s, `"`)
	}

	if m, ok := body["message"].(string); ok && m != "" {
		return m
	}
	if m, ok := body["error"].(string); ok && m != "" {
		return m
	}
	if list, ok := body["errors"].([]interface{}); ok {
		var parts []string
		for _, item := range list {
			switch v := item.(type) {
			case string:
				parts = append(parts, v)
			case map[string]interface{}:
				if m, ok := v["message"].(string); ok {
					parts = append(parts, m)
				} else if m, ok := v["defaultMessage"].(string); ok {
					parts = append(parts, m)
				}
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.Wrap(apperrors.ErrCodeTimeout, "Request timed out", http.StatusGatewayTimeout, err)
	}
	return apperrors.Wrap(apperrors.ErrCodeNetwork, "Could not reach the server", http.StatusBadGateway, err)
}
