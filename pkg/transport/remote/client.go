// Package remote posts records to a /generate_pdf endpoint and implements
// export.Backend with the response.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-curriculo/pkg/export"
	"github.com/goliatone/go-curriculo/pkg/model"
)

const generatePath = "/generate_pdf"

const maxErrorBody = 64 << 10

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: unexpected status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithLogger sets the logger. Defaults to zap.NewNop.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client sends one POST per Produce call.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

var _ export.Backend = (*Client)(nil)

// New targets baseURL, for example "http://localhost:5000".
func New(baseURL string, options ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote: base url %q must be http or https", baseURL)
	}
	c := &Client{
		endpoint: strings.TrimRight(u.String(), "/") + generatePath,
		http:     &http.Client{Timeout: 60 * time.Second},
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Produce posts rec as JSON and returns the PDF body. A 422 response is
// decoded into a *model.ValidationError; other non-2xx statuses return a
// *StatusError carrying the body.
func (c *Client) Produce(ctx context.Context, rec model.Record) ([]byte, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("remote: encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: post: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		c.logger.Warn("generate_pdf rejected",
			zap.Int("status", res.StatusCode),
			zap.String("request_id", res.Header.Get("X-Request-ID")),
		)
		if res.StatusCode == http.StatusUnprocessableEntity {
			if verr := decodeValidation(body); verr != nil {
				return nil, verr
			}
		}
		return nil, &StatusError{StatusCode: res.StatusCode, Body: string(body)}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("remote: read body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("remote: empty response body")
	}
	return data, nil
}

func decodeValidation(body []byte) *model.ValidationError {
	var payload struct {
		Error  string              `json:"error"`
		Fields map[string][]string `json:"fields"`
		Form   []string            `json:"form"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	form := payload.Form
	if len(form) == 0 && payload.Error != "" {
		form = []string{payload.Error}
	}
	if len(form) == 0 && len(payload.Fields) == 0 {
		return nil
	}
	return &model.ValidationError{Fields: payload.Fields, Form: form}
}
