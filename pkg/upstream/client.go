package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/staffdir/pkg/models"
)

// maxErrorBody bounds how much of an error response body is kept.
const maxErrorBody = 4096

// Client talks to the upstream employee directory over HTTP. Every call is
// a single logical request; transient failures are retried only when
// Config.MaxRetries is positive.
type Client struct {
	config *Config
	client *http.Client
	logger hclog.Logger
}

// NewClient creates a new upstream client.
func NewClient(cfg *Config, logger hclog.Logger) (*Client, error) {
	defaults := DefaultConfig()
	if cfg.TLSVerify == nil {
		cfg.TLSVerify = defaults.TLSVerify
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid upstream config: %w", err)
	}

	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Client{
		config: cfg,
		client: cfg.httpClient(),
		logger: logger,
	}, nil
}

// Get issues a GET request for path and decodes the response envelope.
func (c *Client) Get(ctx context.Context, path string) (*models.Envelope, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(body)
}

// Post issues a POST request for path with body encoded as JSON and decodes
// the response envelope.
func (c *Client) Post(ctx context.Context, path string, body any) (*models.Envelope, error) {
	respBody, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(respBody)
}

// Delete issues a DELETE request for path. The response body is discarded.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

// do executes a request, retrying transport failures and 5xx responses
// according to the configured policy, and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	endpoint := c.config.BaseURL + "/" + strings.TrimPrefix(path, "/")

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var respBody []byte
	attempt := 0
	op := func() error {
		attempt++

		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.client.Do(req)
		if err != nil {
			return &TransportError{Method: method, URL: endpoint, Err: err}
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return &TransportError{
				Method: method,
				URL:    endpoint,
				Err:    fmt.Errorf("failed to read response: %w", err),
			}
		}

		c.logger.Debug("upstream request",
			"method", method,
			"url", endpoint,
			"status", resp.StatusCode,
			"attempt", attempt,
			"duration", time.Since(start),
		)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if len(b) > maxErrorBody {
				b = b[:maxErrorBody]
			}
			statusErr := &StatusError{
				Method:     method,
				URL:        endpoint,
				StatusCode: resp.StatusCode,
				Body:       string(b),
			}
			if statusErr.IsServerError() {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		respBody = b
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.config.RetryDelay
	policy.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("retrying upstream request",
			"method", method,
			"url", endpoint,
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
	}

	err := backoff.RetryNotify(op,
		backoff.WithContext(
			backoff.WithMaxRetries(policy, uint64(c.config.MaxRetries)), ctx),
		notify)
	if err != nil {
		return nil, err
	}

	return respBody, nil
}

// decodeEnvelope parses a response body into an envelope. Numbers are kept in
// their textual form so that numeric-looking fields are not reformatted.
func decodeEnvelope(body []byte) (*models.Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrEmptyResponse
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var env models.Envelope
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &env, nil
}
