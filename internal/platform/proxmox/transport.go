package proxmox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// transportRetries is how often 5xx and network failures are retried
// before giving up. 4xx responses are returned immediately.
const transportRetries = 3

// apiEnvelope is the {"data": ...} wrapper around every API response.
// Error responses carry a message and a per-parameter errors map instead.
type apiEnvelope struct {
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, out)
}

func (c *Client) post(ctx context.Context, path string, params Params, out any) error {
	return c.do(ctx, http.MethodPost, path, params.Values(), out)
}

func (c *Client) put(ctx context.Context, path string, params Params, out any) error {
	return c.do(ctx, http.MethodPut, path, params.Values(), out)
}

func (c *Client) del(ctx context.Context, path string, params Params, out any) error {
	return c.do(ctx, http.MethodDelete, path, params.Values(), out)
}

// do performs one API call. GET and DELETE parameters travel in the
// query string, POST and PUT as a form-encoded body. Transient failures (network
// errors, 5xx) are retried with exponential backoff and jitter; the
// request is rebuilt per attempt so the body reader is always fresh.
func (c *Client) do(ctx context.Context, method, path string, values url.Values, out any) error {
	var lastErr error

	for attempt := 0; attempt <= transportRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffDelay(attempt)):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := c.newRequest(ctx, method, path, values)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.log.Debug().Err(err).Str("method", method).Str("path", path).
				Int("attempt", attempt+1).Msg("request failed")
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = newAPIError(resp, body)
			c.log.Debug().Str("method", method).Str("path", path).
				Int("status", resp.StatusCode).Int("attempt", attempt+1).
				Msg("server error")
			continue
		}
		if resp.StatusCode >= 400 {
			return newAPIError(resp, body)
		}

		return decodeData(body, out)
	}

	return fmt.Errorf("request %s %s failed after %d attempts: %w",
		method, path, transportRetries+1, lastErr)
}

func (c *Client) newRequest(ctx context.Context, method, path string, values url.Values) (*http.Request, error) {
	u := c.baseURL + path
	var body io.Reader
	if method == http.MethodGet || method == http.MethodDelete {
		if len(values) > 0 {
			u += "?" + values.Encode()
		}
	} else if len(values) > 0 {
		body = strings.NewReader(values.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)
	return req, nil
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode))),
	}
	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Message = strings.TrimSpace(envelope.Message)
		apiErr.Errors = envelope.Errors
	}
	return apiErr
}

func decodeData(body []byte, out any) error {
	if out == nil {
		return nil
	}
	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode response envelope: %w", err)
	}
	// Mutations often answer {"data": null}.
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// backoffDelay returns the wait before the given retry attempt:
// exponential growth with full jitter, capped at five seconds.
func backoffDelay(attempt int) time.Duration {
	base := float64(250*time.Millisecond) * math.Pow(2, float64(attempt-1))
	if limit := float64(5 * time.Second); base > limit {
		base = limit
	}
	return time.Duration(rand.Float64() * base)
}
