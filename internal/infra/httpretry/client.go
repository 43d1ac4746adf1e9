package httpretry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/yanqian/solarcook/pkg/metrics"
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status=%d body=%s", e.StatusCode, e.Body)
}

// Options configures a Client.
type Options struct {
	// Provider labels metrics and logs.
	Provider    string
	Timeout     time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
}

// Client issues idempotent GET requests with exponential backoff on
// transport errors, 429 and 5xx responses.
type Client struct {
	http    *http.Client
	opts    Options
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New builds a retrying client.
func New(opts Options, m *metrics.Metrics, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 200 * time.Millisecond
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		metrics: m,
		logger:  logger.With("component", "provider."+opts.Provider),
	}
}

// GetJSON fetches endpoint and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, endpoint string, out any) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.opts.BaseBackoff
	policy.MaxElapsedTime = 0

	attempt := 0
	body, err := backoff.RetryNotifyWithData(func() ([]byte, error) {
		attempt++
		return c.fetch(ctx, endpoint)
	}, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.opts.MaxAttempts-1)), ctx),
		func(err error, wait time.Duration) {
			c.logger.Warn("provider call failed, retrying", "attempt", attempt, "wait", wait, "error", err)
		})
	c.metrics.ProviderCall(c.opts.Provider, err)
	if err != nil {
		return fmt.Errorf("%s request: %w", c.opts.Provider, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.opts.Provider, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(payload)}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
