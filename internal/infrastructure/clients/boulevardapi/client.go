package boulevardapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/boulevard/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

const maxResponseBytes = 8 << 20

// TokenSource supplies the bearer token for outgoing requests
type TokenSource interface {
	Token(ctx context.Context) string
}

// HTTPClient performs one request per call against the Boulevard REST API.
// It never retries; failures are logged once and returned as *errors.APIError.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	metrics    *observability.Metrics
}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// WithMetrics records request metrics
func WithMetrics(m *observability.Metrics) Option {
	return func(c *HTTPClient) {
		c.metrics = m
	}
}

// NewClient creates a client for the API rooted at baseURL. tokens may be nil.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Establishments returns the establishment endpoints
func (c *HTTPClient) Establishments() *EstablishmentAPI {
	return &EstablishmentAPI{c: c}
}

// Comments returns the comment endpoints
func (c *HTTPClient) Comments() *CommentAPI {
	return &CommentAPI{c: c}
}

// Notifications returns the notification endpoints
func (c *HTTPClient) Notifications() *NotificationAPI {
	return &NotificationAPI{c: c}
}

// Chat returns the assistant endpoint
func (c *HTTPClient) Chat() *ChatAPI {
	return &ChatAPI{c: c}
}

// request describes one call. route is the path template used for logs and metrics.
type request struct {
	method string
	path   string
	route  string
	body   interface{}
}

func (c *HTTPClient) doJSON(ctx context.Context, req request, out interface{}) error {
	raw, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := decodeBody(raw, out); err != nil {
		apiErr := apperrors.NewInternalError("unexpected response from server", err)
		observability.LoggerFromContext(ctx).Error().
			Err(err).
			Str("route", req.route).
			Msg("failed to decode response body")
		return apiErr
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, req request) ([]byte, error) {
	ctx, span := observability.StartSpan(ctx, "boulevardapi "+req.method+" "+req.route,
		attribute.String("http.method", req.method),
		attribute.String("http.route", req.route),
	)
	defer span.End()

	body, contentType, err := encodeBody(req.body)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build request", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger := observability.LoggerFromContext(ctx).With().
		Str("method", req.method).
		Str("route", req.route).
		Str("request_id", requestID).
		Logger()

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Debug().Err(ctxErr).Msg("request cancelled")
			return nil, ctxErr
		}
		observability.RecordError(span, err)
		logger.Warn().Err(err).Msg("request failed")
		return nil, apperrors.NewNetworkError("request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	observability.RecordRequestMetric(ctx, c.metrics, req.method, req.route, resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err != nil {
		observability.RecordError(span, err)
		logger.Warn().Err(err).Msg("failed to read response body")
		return nil, apperrors.NewNetworkError("failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := normalizeError(resp.StatusCode, raw)
		observability.RecordError(span, apiErr)
		logger.Warn().
			Int("status", resp.StatusCode).
			Str("error_type", string(apiErr.Type)).
			Str("message", apiErr.Message).
			Msg("backend returned an error")
		return nil, apiErr
	}

	return raw, nil
}

func encodeBody(body interface{}) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *multipartBody:
		return b.reader, b.contentType, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// decodeBody decodes raw into out, unwrapping a {"data": ...} envelope when present
func decodeBody(raw []byte, out interface{}) error {
	if inner, ok := unwrapData(raw); ok {
		raw = inner
	}
	return json.Unmarshal(raw, out)
}

func unwrapData(raw []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, false
	}
	data, ok := envelope["data"]
	if !ok || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, false
	}
	return data, true
}

func escape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewValidationError(fmt.Sprintf("%s id is required", kind))
	}
	return nil
}
