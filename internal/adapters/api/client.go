// Package api wraps the store backend REST API with typed calls.
// Authenticated calls obtain a currently valid token from a TokenSource and
// fail fast with domain.ErrUnauthenticated when there is none.
package api

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

	"tienda-console/internal/core/domain"

	"github.com/google/go-querystring/query"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// TokenSource yields an access token valid now, or false when the session has none
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Options configures a Client
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
	HTTPClient    *http.Client
	Logger        logrus.FieldLogger
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL       string
	http          *http.Client
	timeout       time.Duration
	uploadTimeout time.Duration
	breaker       *gobreaker.CircuitBreaker
	tokens        TokenSource
	log           logrus.FieldLogger
}

// New creates a Client without a token source; see WithTokenSource
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = 60 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	log := opts.Logger.WithField("component", "api")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "backend",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 4xx answers are the caller's problem, not the backend's health
		IsSuccessful: func(err error) bool {
			var apiErr *domain.APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status < 500
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Warn("⚠️ backend circuit changed state")
		},
	})

	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		http:          opts.HTTPClient,
		timeout:       opts.Timeout,
		uploadTimeout: opts.UploadTimeout,
		breaker:       breaker,
		log:           log,
	}
}

// WithTokenSource returns a copy of the client that authenticates through ts.
// The copy shares the transport and circuit breaker.
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        any
	raw         io.Reader
	contentType string
	auth        bool
	timeout     time.Duration
}

// errorBody covers the error shapes the backend answers with
type errorBody struct {
	Message string `json:"message"`
	Mensaje string `json:"mensaje"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var token string
	if r.auth {
		if c.tokens == nil {
			return domain.ErrUnauthenticated
		}
		t, ok := c.tokens.Token(ctx)
		if !ok {
			return domain.ErrUnauthenticated
		}
		token = t
	}

	timeout := r.timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	contentType := r.contentType
	switch {
	case r.raw != nil:
		body = r.raw
	case r.body != nil:
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &domain.APIError{Status: resp.StatusCode, Message: parseErrorMessage(resp.StatusCode, data)}
		}
		return data, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%s %s: %w", r.method, r.path, domain.ErrCircuitOpen)
		}
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			c.log.WithFields(logrus.Fields{"method": r.method, "path": r.path, "status": apiErr.Status}).Debug("backend rejected request")
			return apiErr
		}
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}

	data := res.([]byte)
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

// parseErrorMessage reads a server provided message, falling back to a generic one
func parseErrorMessage(status int, data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		for _, m := range []string{eb.Message, eb.Mensaje, eb.Error} {
			if m = strings.TrimSpace(m); m != "" {
				return m
			}
		}
	}
	text := strings.TrimSpace(string(data))
	if text != "" && len(text) <= 200 && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") {
		return text
	}
	return fmt.Sprintf("La operación falló (HTTP %d)", status)
}

// values encodes a filter struct with `url` tags
func values(filter any) url.Values {
	v, err := query.Values(filter)
	if err != nil {
		return nil
	}
	return v
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
