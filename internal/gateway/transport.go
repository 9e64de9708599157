package gateway

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ekrishihub/storefront/internal/credential"
	"github.com/ekrishihub/storefront/internal/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// User-facing messages
const (
	MessageSessionExpired = "Session expired. Please log in again."
	MessageServerError    = "Server error. Please try again."
)

// RequestIDHeader carries a per-request correlation id to the backend
const RequestIDHeader = "X-Request-ID"

// ExpiryTargets are the login views a torn-down session is sent to
type ExpiryTargets struct {
	FarmerLogin   string
	CustomerLogin string
}

// TransportConfig wires a Transport
type TransportConfig struct {
	Base       http.RoundTripper
	Classifier *Classifier
	Store      *credential.Store
	Notifier   Notifier
	Navigator  Navigator
	Targets    ExpiryTargets
	// RoleAware picks the login view of the last known role instead of always the farmer one
	RoleAware bool
	Logger    *zap.Logger
}

// Transport is an http.RoundTripper enforcing the credential policy
type Transport struct {
	base       http.RoundTripper
	classifier *Classifier
	store      *credential.Store
	notifier   Notifier
	navigator  Navigator
	targets    ExpiryTargets
	roleAware  bool
	logger     *zap.Logger
}

// NewTransport creates a Transport
func NewTransport(cfg TransportConfig) *Transport {
	base := cfg.Base
	if base == nil {
		base = http.DefaultTransport
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{
		base:       base,
		classifier: cfg.Classifier,
		store:      cfg.Store,
		notifier:   cfg.Notifier,
		navigator:  cfg.Navigator,
		targets:    cfg.Targets,
		roleAware:  cfg.RoleAware,
		logger:     logger,
	}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	// computed once; both the send and the response side use this value
	class := t.classifier.ClassifyURL(req.URL)

	out := t.beforeSend(ctx, req, class)

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		gatewayRequestsTotal.WithLabelValues(class.String(), "error").Inc()
		return nil, err
	}

	gatewayRequestsTotal.WithLabelValues(class.String(), strconv.Itoa(resp.StatusCode)).Inc()
	t.onResponse(ctx, out, class, resp.StatusCode)
	return resp, nil
}

func (t *Transport) beforeSend(ctx context.Context, req *http.Request, class Class) *http.Request {
	out := req.Clone(ctx)
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.NewString())
	}

	out.Header.Del("Authorization")
	if class == Public {
		return out
	}

	tok, err := t.store.OAuth2Token(ctx)
	switch {
	case err == nil:
		tok.SetAuthHeader(out)
	case errors.Is(err, credential.ErrNoCredential):
		// sent unauthenticated, the backend decides
	default:
		t.logger.Warn("Failed to read credential, sending unauthenticated",
			zap.String("path", out.URL.Path),
			zap.Error(err),
		)
	}
	return out
}

func (t *Transport) onResponse(ctx context.Context, req *http.Request, class Class, status int) {
	if class != Protected {
		return
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		t.expire(ctx, req, status)
	case http.StatusInternalServerError:
		gatewayServerErrorsTotal.Inc()
		t.logger.Warn("Backend server error",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("request_id", req.Header.Get(RequestIDHeader)),
		)
		t.notify(notify.LevelError, MessageServerError)
	}
}

// expire tears the session down. Safe to run concurrently and repeatedly.
func (t *Transport) expire(ctx context.Context, req *http.Request, status int) {
	gatewaySessionExpiriesTotal.WithLabelValues(strconv.Itoa(status)).Inc()

	target := t.targets.FarmerLogin
	if t.roleAware && t.store.Role(ctx) == credential.RoleCustomer {
		target = t.targets.CustomerLogin
	}

	if err := t.store.Clear(ctx); err != nil {
		t.logger.Error("Failed to clear credential after rejection", zap.Error(err))
	}

	t.logger.Info("Session expired",
		zap.Int("status", status),
		zap.String("path", req.URL.Path),
		zap.String("request_id", req.Header.Get(RequestIDHeader)),
		zap.String("redirect", target),
	)

	t.notify(notify.LevelError, MessageSessionExpired)
	if t.navigator != nil {
		t.navigator.Navigate(ctx, target)
	}
}

func (t *Transport) notify(level notify.Level, msg string) {
	if t.notifier != nil {
		t.notifier.Notify(level, msg)
	}
}
