package leadapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bridgei2p/leadportal/internal/leads"
	"github.com/bridgei2p/leadportal/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultTimeout = 15 * time.Second

var tracer = otel.Tracer("bridgei2p.internal.leadapi")

// ErrNoBackend is returned by New when no backend URL is configured.
var ErrNoBackend = errors.New("leadapi: backend url required")

// Observer receives one call per backend request. status is the HTTP status
// code, or "transport_error" when no response arrived.
type Observer interface {
	ObserveBackendCall(operation, status string, seconds float64)
}

// Client calls the lead/OTP backend under {backend}/api.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
	observer   Observer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithObserver reports request outcomes, typically to metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithTimeout sets the per-request timeout. A client passed through
// WithHTTPClient is copied first and never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// New builds a client for backendURL. The /api suffix is added here.
func New(backendURL string, logger *logging.Logger, opts ...Option) (*Client, error) {
	backendURL = strings.TrimRight(strings.TrimSpace(backendURL), "/")
	if backendURL == "" {
		return nil, ErrNoBackend
	}
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    backendURL + "/api",
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListLeads fetches every lead.
func (c *Client) ListLeads(ctx context.Context) ([]leads.Lead, error) {
	var out []leads.Lead
	if err := c.doJSON(ctx, "list_leads", http.MethodGet, "/leads", nil, &out); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return out, nil
}

// CreateLead submits a verified lead.
func (c *Client) CreateLead(ctx context.Context, req leads.CreateLeadRequest) (*leads.Lead, error) {
	var out leads.Lead
	if err := c.doJSON(ctx, "create_lead", http.MethodPost, "/leads", req, &out); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return &out, nil
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// SendOTP asks the backend to issue a code to email.
func (c *Client) SendOTP(ctx context.Context, email string) (bool, error) {
	var out successResponse
	if err := c.doJSON(ctx, "send_otp", http.MethodPost, "/send-otp", sendOTPRequest{Email: email}, &out); err != nil {
		return false, fmt.Errorf("send otp: %w", err)
	}
	return out.Success, nil
}

// VerifyOTP checks code against the one issued to email.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (bool, error) {
	var out successResponse
	if err := c.doJSON(ctx, "verify_otp", http.MethodPost, "/verify-otp", verifyOTPRequest{Email: email, OTP: code}, &out); err != nil {
		return false, fmt.Errorf("verify otp: %w", err)
	}
	return out.Success, nil
}

// RevealOTP reads back the code issued to email. The endpoint is a demo
// shortcut and must only be called in development deployments.
func (c *Client) RevealOTP(ctx context.Context, email string) (string, error) {
	var out struct {
		OTP json.RawMessage `json:"otp"`
	}
	path := "/get-otp/" + url.PathEscape(email)
	if err := c.doJSON(ctx, "reveal_otp", http.MethodGet, path, nil, &out); err != nil {
		return "", fmt.Errorf("reveal otp: %w", err)
	}
	code := strings.Trim(string(out.OTP), `"`)
	if code == "" || code == "null" {
		return "", fmt.Errorf("reveal otp: empty code")
	}
	return code, nil
}

func (c *Client) doJSON(ctx context.Context, operation, method, path string, body any, out any) (err error) {
	ctx, span := tracer.Start(ctx, "leadapi."+operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("leadapi.operation", operation),
	)

	start := time.Now()
	status := "transport_error"
	defer func() {
		if c.observer != nil {
			c.observer.ObserveBackendCall(operation, status, time.Since(start).Seconds())
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("lead backend unreachable", "operation", operation, "error", err)
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: parseDetail(respBody)}
		c.logger.Warn("lead backend non-2xx response", "operation", operation, "status", resp.StatusCode, "detail", apiErr.Detail)
		return apiErr
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
