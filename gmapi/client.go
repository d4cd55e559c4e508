package gmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"vehiclegw/metrics"
	"vehiclegw/telemetry"
)

type Client struct {
	baseURL      string
	responseType string
	httpClient   *http.Client
	log          logr.Logger
}

type Option func(*Client)

// WithLogger sets the logger used for upstream failures.
func WithLogger(l logr.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithResponseType overrides the responseType marker sent on every request.
func WithResponseType(rt string) Option {
	return func(c *Client) {
		if rt != "" {
			c.responseType = rt
		}
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		responseType: DefaultResponseType,
		httpClient:   &http.Client{Timeout: timeout},
		log:          logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) request(id, command string) *Request {
	return &Request{ID: id, Command: command, ResponseType: c.responseType}
}

func (c *Client) post(ctx context.Context, path string, body *Request, result enveloped) (err error) {
	ctx, span := telemetry.StartUpstreamSpan(ctx, path, body.ID)
	start := time.Now()
	defer func() {
		status := result.header().Status
		metrics.RecordUpstream(path, upstreamOutcome(status, err), time.Since(start))
		telemetry.EndUpstreamSpan(span, status, err)
		if err != nil {
			c.log.Error(err, "upstream request failed", "path", path, "id", body.ID)
		}
	}()

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("gmapi marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("gmapi POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gmapi POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	return c.decode(resp, result)
}

// decode reads the envelope whatever the HTTP status; the envelope status
// decides success. A body that is not JSON is a transport failure.
func (c *Client) decode(resp *http.Response, result any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gmapi read body: %w", err)
	}
	if err := json.Unmarshal(data, result); err != nil {
		if resp.StatusCode >= 400 {
			return fmt.Errorf("gmapi HTTP %d: %s", resp.StatusCode, string(data))
		}
		return fmt.Errorf("gmapi decode: %w", err)
	}
	return nil
}

func upstreamOutcome(status string, err error) string {
	switch {
	case err != nil:
		return metrics.OutcomeTransport
	case status == StatusOK:
		return metrics.OutcomeSuccess
	default:
		return metrics.OutcomeFailed
	}
}

// StatusError is returned when the upstream envelope reports a non-200 status.
type StatusError struct {
	Service string
	Status  string
	Reason  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gmapi status %s: %s", e.Status, e.Reason)
}

// IsStatusError reports whether err carries an upstream business failure.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// checkResponse validates the envelope status.
func checkResponse(e *Envelope) error {
	if e.Status != StatusOK {
		return &StatusError{Service: e.Service, Status: e.Status, Reason: e.Reason}
	}
	return nil
}
