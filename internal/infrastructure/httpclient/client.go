// Package httpclient wraps outbound provider calls with retry, exponential
// backoff, a per-destination circuit breaker, and classification of every
// failure into the shared payment error taxonomy.
package httpclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopsphere/payment-gateway/internal/gateway"
)

// AuthProvider supplies the Authorization header value for each request.
// Credentials are injected per-request and never logged.
type AuthProvider interface {
	AuthHeader() string
}

// BasicAuth authenticates with a client id/secret pair, the convention for
// provider REST APIs.
type BasicAuth struct {
	Username string
	Password string
}

func (a BasicAuth) AuthHeader() string {
	creds := base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + a.Password))
	return "Basic " + creds
}

// BearerAuth authenticates with a static token, the convention for internal
// service APIs.
type BearerAuth struct {
	Token string
}

func (a BearerAuth) AuthHeader() string {
	return "Bearer " + a.Token
}

type Options struct {
	MaxRetries       int
	RetryDelay       time.Duration
	FailureThreshold int
	ResetWindow      time.Duration
	Timeout          time.Duration
}

// Client issues JSON requests against a single base URL. Each Client owns
// its circuit breaker, so breaker state is scoped to the destination.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       AuthProvider
	maxRetries int
	retryDelay time.Duration
	breaker    *CircuitBreaker
	logger     *slog.Logger
}

type Response struct {
	StatusCode int
	Body       []byte
}

func New(baseURL string, auth AuthProvider, opts Options, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		auth:       auth,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		breaker:    NewCircuitBreaker(opts.FailureThreshold, opts.ResetWindow),
		logger:     logger,
	}
}

// Do executes method against path, retrying transient failures with
// exponential backoff (retryDelay * 2^attempt). Non-retriable errors
// propagate immediately as *gateway.PaymentError. Backoff waits abort when
// ctx is cancelled.
func (c *Client) Do(ctx context.Context, method, path string, reqBody any) (*Response, error) {
	var payload []byte
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling request body: %w", err)
		}
		payload = data
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !c.breaker.Allow() {
			return nil, &gateway.PaymentError{
				Kind:    gateway.KindCircuitOpen,
				Message: fmt.Sprintf("circuit breaker open for %s", c.baseURL),
			}
		}

		resp, err := c.attempt(ctx, method, path, payload, attempt)
		if err == nil {
			c.breaker.RecordSuccess()
			return resp, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			// Every outcome must settle the breaker, or an abandoned
			// half-open probe would hold the probe slot forever. A
			// response, even 4xx, proves the dependency reachable; an
			// error without a response (cancellation, request build)
			// judges nothing.
			if pe, ok := gateway.AsPaymentError(err); ok && pe.StatusCode != 0 {
				c.breaker.RecordSuccess()
			} else {
				c.breaker.CancelProbe()
			}
			return nil, err
		}

		c.breaker.RecordFailure()

		if attempt < c.maxRetries {
			delay := c.backoff(attempt)
			c.logger.Warn("retrying upstream request",
				"method", method,
				"path", path,
				"attempt", attempt+1,
				"max_retries", c.maxRetries,
				"delay", delay.String(),
				"error_kind", gateway.KindOf(lastErr),
			)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, attempt int) (*Response, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil {
		req.Header.Set("Authorization", c.auth.AuthHeader())
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	latency := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && ctxErr == context.Canceled {
			return nil, ctxErr
		}
		perr := ClassifyTransport(err)
		c.logger.Error("upstream request failed",
			"method", method,
			"path", path,
			"attempt", attempt+1,
			"latency_ms", latency.Milliseconds(),
			"error_kind", perr.Kind,
			"error", err.Error(),
		)
		return nil, perr
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		perr := ClassifyTransport(err)
		c.logger.Error("error reading upstream response",
			"method", method,
			"path", path,
			"attempt", attempt+1,
			"error", err.Error(),
		)
		return nil, perr
	}

	if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		c.logger.Info("upstream request completed",
			"method", method,
			"path", path,
			"attempt", attempt+1,
			"status", httpResp.StatusCode,
			"latency_ms", latency.Milliseconds(),
		)
		return &Response{StatusCode: httpResp.StatusCode, Body: respBody}, nil
	}

	perr := ClassifyStatus(httpResp.StatusCode, respBody)
	c.logger.Error("upstream request returned error status",
		"method", method,
		"path", path,
		"attempt", attempt+1,
		"status", httpResp.StatusCode,
		"latency_ms", latency.Milliseconds(),
		"error_kind", perr.Kind,
		"body_preview", perr.Details,
	)
	return nil, perr
}

func (c *Client) backoff(attempt int) time.Duration {
	return c.retryDelay * time.Duration(1<<attempt)
}
