// Package fills lee el historial de trades cerrados desde una API HTTP de fills.
package fills

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Rate limit conservador para no saturar la API de historial.
	requestsPerSec = 10
	burst          = 5

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client es el HTTP client de la API de fills con rate limiting y retries.
type Client struct {
	http      *http.Client
	base      string
	token     string
	limiter   *rate.Limiter
	retryWait time.Duration
}

// Option configura un Client.
type Option func(*Client)

// WithToken añade un bearer token a cada request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient reemplaza el http.Client por defecto.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetryWait cambia la espera base del backoff (tests).
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) { c.retryWait = d }
}

// NewClient crea un Client contra el base URL dado.
func NewClient(base string, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: 10 * time.Second},
		base:      base,
		limiter:   rate.NewLimiter(requestsPerSec, burst),
		retryWait: baseRetryWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get hace un GET con rate limiting y retries.
func (c *Client) get(ctx context.Context, url string, out any) error {
	return c.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		return c.http.Do(req)
	}, out)
}

// doWithRetry ejecuta fn con backoff exponencial y jitter.
// Reintenta errores de red, 429 y 5xx; los demás 4xx fallan de inmediato.
func (c *Client) doWithRetry(ctx context.Context, fn func() (*http.Response, error), out any) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		switch {
		case err != nil:
			lastErr = fmt.Errorf("request failed: %w", err)
		case retryable(resp.StatusCode):
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests {
				slog.Warn("rate limited by fills API", "attempt", attempt+1)
				lastErr = fmt.Errorf("rate limited (429)")
			} else {
				lastErr = fmt.Errorf("server error %d", resp.StatusCode)
			}
		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		default:
			defer resp.Body.Close()
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		}

		if attempt == maxRetries {
			return fmt.Errorf("%w after %d retries", lastErr, maxRetries)
		}
		if err := c.sleep(ctx, c.backoff(attempt)); err != nil {
			return err
		}
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// backoff devuelve retryWait × 2^attempt más un jitter de hasta un 25%,
// para que varios clientes no reintenten a la vez.
func (c *Client) backoff(attempt int) time.Duration {
	wait := c.retryWait << attempt
	return wait + time.Duration(rand.Int64N(int64(wait/4)+1))
}

// sleep espera d o hasta que el contexto se cancele.
func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
