package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"marketplace-client/internal/models"
	"marketplace-client/internal/telemetry"
)

const (
	// LoginPath is where the navigator is sent after a 401.
	LoginPath = "/login"

	maxBodyBytes = 10 << 20
)

// Credentials is the session as seen by the gateway
type Credentials interface {
	Token() string
	// Clear tears the session down after the backend rejected the token.
	Clear()
}

// Redirector moves the application to another route
type Redirector interface {
	Redirect(path string)
}

// Doer is implemented by Gateway; services depend on it so they can be tested in isolation
type Doer interface {
	Do(ctx context.Context, req Request, out any) error
}

// Request describes one outbound call
type Request struct {
	Method string
	// Path is relative to the base URL and starts with "/".
	Path  string
	Query url.Values
	Body  any
	// Anonymous requests carry no bearer token and a 401 does not tear the session down.
	Anonymous bool
}

// Options configures a Gateway
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials Credentials
	Redirector  Redirector
	Telemetry   *telemetry.HTTPTelemetry
}

// Gateway is the single outbound request pipeline to the backend
type Gateway struct {
	baseURL     string
	httpClient  *http.Client
	credentials Credentials
	redirector  Redirector
	telemetry   *telemetry.HTTPTelemetry
	validate    *validator.Validate
}

// New creates a gateway. A nil HTTPClient uses a client with no timeout policy of its own.
func New(opts Options) *Gateway {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Gateway{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  client,
		credentials: opts.Credentials,
		redirector:  opts.Redirector,
		telemetry:   opts.Telemetry,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Do sends req and decodes a 2xx body into out (nil discards it). The call is
// made exactly once; there are no retries.
func (g *Gateway) Do(ctx context.Context, req Request, out any) error {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		if err := g.validateValue(req.Body); err != nil {
			return fmt.Errorf("%w: %s %s: %w", ErrInvalidRequest, req.Method, req.Path, err)
		}
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	target := g.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if !req.Anonymous && g.credentials != nil {
		if token := g.credentials.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	metrics := telemetry.RequestMetrics{
		Method:   req.Method,
		Endpoint: telemetry.EndpointTemplate(req.Path),
		Duration: time.Since(start),
	}
	if err != nil {
		metrics.ErrorClass = "transport"
		g.telemetry.Record(ctx, metrics)
		slog.Error("Request failed without a response", "method", req.Method, "path", req.Path, "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	metrics.StatusCode = resp.StatusCode
	metrics.Duration = time.Since(start)
	metrics.ErrorClass = telemetry.ErrorClass(resp.StatusCode)
	if err != nil {
		metrics.ErrorClass = "transport"
		g.telemetry.Record(ctx, metrics)
		return fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := newAPIError(resp.StatusCode, errorMessage(resp.StatusCode, raw), req.Method, req.Path)
		if resp.StatusCode == http.StatusUnauthorized && !req.Anonymous {
			g.handleUnauthorized(req)
		}
		g.telemetry.Record(ctx, metrics)
		slog.Warn("Request rejected",
			"method", req.Method,
			"path", req.Path,
			"status", resp.StatusCode,
			"message", apiErr.Message,
		)
		return apiErr
	}

	if out == nil {
		g.telemetry.Record(ctx, metrics)
		return nil
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		metrics.ErrorClass = "contract"
		g.telemetry.Record(ctx, metrics)
		return fmt.Errorf("%w: %s %s: empty response body", ErrContract, req.Method, req.Path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		metrics.ErrorClass = "contract"
		g.telemetry.Record(ctx, metrics)
		return fmt.Errorf("%w: %s %s: %w", ErrContract, req.Method, req.Path, err)
	}
	if err := g.validateValue(out); err != nil {
		metrics.ErrorClass = "contract"
		g.telemetry.Record(ctx, metrics)
		return fmt.Errorf("%w: %s %s: %w", ErrContract, req.Method, req.Path, err)
	}

	g.telemetry.Record(ctx, metrics)
	slog.Debug("Request completed", "method", req.Method, "path", req.Path, "status", resp.StatusCode)
	return nil
}

// handleUnauthorized clears the session and forces the login route. The
// caller still receives the original error.
func (g *Gateway) handleUnauthorized(req Request) {
	slog.Warn("Backend rejected credentials, clearing session", "method", req.Method, "path", req.Path)
	if g.credentials != nil {
		g.credentials.Clear()
	}
	if g.redirector != nil {
		g.redirector.Redirect(LoginPath)
	}
}

// validateValue runs struct validation on structs and on slices of structs.
func (g *Gateway) validateValue(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		return g.validate.Struct(rv.Interface())
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Struct {
			return g.validate.Var(rv.Interface(), "dive")
		}
	}
	return nil
}

func errorMessage(status int, raw []byte) string {
	var body models.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		if text := body.Text(); text != "" {
			return text
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 512 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(status)
}

// Call is a typed wrapper over Doer.Do
func Call[T any](ctx context.Context, d Doer, req Request) (T, error) {
	var out T
	if err := d.Do(ctx, req, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Exec sends req and discards the response body
func Exec(ctx context.Context, d Doer, req Request) error {
	return d.Do(ctx, req, nil)
}
