package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// httpClient wraps http.Client with logging and retry of transient failures
type httpClient struct {
	client   *http.Client
	baseURL  string
	name     string // provider name for logging
	maxTries uint64
}

func newHTTPClient(providerName, baseURL string, timeout time.Duration) *httpClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		client:   &http.Client{Timeout: timeout},
		baseURL:  baseURL,
		name:     providerName,
		maxTries: 3,
	}
}

type httpResponse struct {
	StatusCode int
	Body       []byte
}

func (r *httpResponse) isSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *httpResponse) decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// get issues a GET and retries on network errors and 5xx responses.
func (c *httpClient) get(ctx context.Context, endpoint string, query url.Values) (*httpResponse, error) {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var out *httpResponse
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "DevCamper/"+c.name)

		log.Debug().
			Str("provider", c.name).
			Str("method", http.MethodGet).
			Str("url", c.baseURL+endpoint).
			Msg("making HTTP request")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		log.Debug().
			Str("provider", c.name).
			Int("status_code", resp.StatusCode).
			Int("body_length", len(body)).
			Msg("received HTTP response")

		if resp.StatusCode >= 500 {
			return fmt.Errorf("%s returned %d", c.name, resp.StatusCode)
		}
		out = &httpResponse{StatusCode: resp.StatusCode, Body: body}
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 100 * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, c.maxTries-1), ctx)
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("provider", c.name).Dur("retry_in", wait).Msg("geocoder request failed, retrying")
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		log.Error().Str("provider", c.name).Err(err).Msg("HTTP request failed")
		return nil, err
	}
	return out, nil
}
