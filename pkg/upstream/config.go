package upstream

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-multierror"
)

// DefaultBaseURL is the public employee directory this service fronts.
const DefaultBaseURL = "https://dummy.restapiexample.com/api/v1"

const (
	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = 500 * time.Millisecond

	// The client only ever talks to one directory host.
	idleConnsPerHost = 4
)

// Config is how the employee directory is reached. It is usually built from
// the upstream block of the server configuration:
//
//	upstream {
//	  base_url    = "https://dummy.restapiexample.com/api/v1"
//	  timeout     = "10s"
//	  max_retries = 0
//	  tls_verify  = true
//	}
type Config struct {
	// BaseURL is the directory API root, version prefix included. Paths such
	// as "/employees" and "/employee/{id}" are appended to it.
	BaseURL string

	// TLSVerify turns off certificate checks when false. Nil means true.
	TLSVerify *bool

	// Timeout bounds each attempt, not the whole retried call.
	Timeout time.Duration

	// MaxRetries is how many more times a request is sent after a transport
	// failure or a 5xx reply. Zero sends each request once.
	MaxRetries int

	// RetryDelay is the first backoff interval.
	RetryDelay time.Duration
}

// DefaultConfig points at the public directory with certificate checks on, a
// ten second attempt timeout and no retries. The public directory rate limits
// aggressively, so retries are opt-in.
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		BaseURL:    DefaultBaseURL,
		TLSVerify:  &tlsVerify,
		Timeout:    defaultTimeout,
		RetryDelay: defaultRetryDelay,
	}
}

// Validate returns every problem with the directory settings.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.BaseURL == "" {
		result = multierror.Append(result, fmt.Errorf("base_url is required"))
	} else if u, err := url.Parse(c.BaseURL); err != nil {
		result = multierror.Append(result, fmt.Errorf("base_url: %w", err))
	} else {
		if u.Scheme != "http" && u.Scheme != "https" {
			result = multierror.Append(result,
				fmt.Errorf("base_url: scheme %q is not http or https", u.Scheme))
		}
		if u.Host == "" {
			result = multierror.Append(result,
				fmt.Errorf("base_url: %q has no host", c.BaseURL))
		}
	}

	if c.Timeout <= 0 {
		result = multierror.Append(result,
			fmt.Errorf("timeout: %v is not a positive duration", c.Timeout))
	}
	if c.MaxRetries < 0 {
		result = multierror.Append(result,
			fmt.Errorf("max_retries: %d is negative", c.MaxRetries))
	}
	if c.RetryDelay < 0 {
		result = multierror.Append(result,
			fmt.Errorf("retry_delay: %v is negative", c.RetryDelay))
	}

	return result.ErrorOrNil()
}

// httpClient builds the HTTP client for the directory host. Retries are
// driven by Client, so the client itself makes a single attempt.
func (c *Config) httpClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = idleConnsPerHost

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
