package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/hashicorp-forge/staffdir/pkg/upstream"
)

const (
	DefaultLogLevel        = "info"
	DefaultServerAddress   = "127.0.0.1:8000"
	DefaultUpstreamTimeout = "10s"
	DefaultRetryDelay      = "500ms"
	DefaultDatadogService  = "staffdir"
)

// Config contains the staffdir configuration.
type Config struct {
	// LogLevel is the log level (trace, debug, info, warn, error).
	LogLevel string `hcl:"log_level,optional"`

	// Server configures the HTTP listener.
	Server *Server `hcl:"server,block"`

	// Upstream configures the upstream employee directory API.
	Upstream *Upstream `hcl:"upstream,block"`

	// Fallback configures the local fallback store.
	Fallback *Fallback `hcl:"fallback,block"`

	// Datadog configures Datadog APM tracing.
	Datadog *Datadog `hcl:"datadog,block"`
}

// Server configures the HTTP listener.
type Server struct {
	// Address is the address to bind to, e.g. "127.0.0.1:8000".
	Address string `hcl:"address,optional"`
}

// Upstream configures the upstream employee directory API.
type Upstream struct {
	// BaseURL is the API root, e.g. "https://dummy.restapiexample.com/api/v1".
	BaseURL string `hcl:"base_url,optional"`

	// Timeout is the per-request timeout as a duration string.
	Timeout string `hcl:"timeout,optional"`

	// MaxRetries is the number of retries for 5xx responses and transport
	// failures. Zero disables retries.
	MaxRetries int `hcl:"max_retries,optional"`

	// RetryDelay is the initial retry backoff as a duration string.
	RetryDelay string `hcl:"retry_delay,optional"`

	// TLSVerify enables TLS certificate verification. Defaults to true.
	TLSVerify *bool `hcl:"tls_verify,optional"`
}

// Fallback configures the local fallback store.
type Fallback struct {
	// SeedFile is a JSON or YAML snapshot to seed the store with. The snapshot
	// embedded in the binary is used when empty.
	SeedFile string `hcl:"seed_file,optional"`

	// OnTransportError also falls back when the upstream cannot be reached at
	// all (connection refused, timeout).
	OnTransportError bool `hcl:"on_transport_error,optional"`
}

// Datadog configures Datadog APM tracing.
type Datadog struct {
	Enabled bool   `hcl:"enabled,optional"`
	Service string `hcl:"service,optional"`
	Env     string `hcl:"env,optional"`
}

// NewConfig parses an HCL configuration file and applies defaults. An empty
// filename returns the default configuration.
func NewConfig(filename string) (*Config, error) {
	if filename == "" {
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	c := &Config{}
	if err := hclsimple.DecodeFile(filename, nil, c); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	c.applyDefaults()

	return c, nil
}

// Parse parses HCL configuration from src and applies defaults. The filename
// is used for diagnostics and must end in ".hcl".
func Parse(filename string, src []byte) (*Config, error) {
	c := &Config{}
	if err := hclsimple.Decode(filename, src, nil, c); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	c.applyDefaults()

	return c, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Server.Address == "" {
		c.Server.Address = DefaultServerAddress
	}

	if c.Upstream == nil {
		c.Upstream = &Upstream{}
	}
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = upstream.DefaultBaseURL
	}
	if c.Upstream.Timeout == "" {
		c.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if c.Upstream.RetryDelay == "" {
		c.Upstream.RetryDelay = DefaultRetryDelay
	}
	if c.Upstream.TLSVerify == nil {
		verify := true
		c.Upstream.TLSVerify = &verify
	}

	if c.Fallback == nil {
		c.Fallback = &Fallback{}
	}

	if c.Datadog == nil {
		c.Datadog = &Datadog{}
	}
	if c.Datadog.Service == "" {
		c.Datadog.Service = DefaultDatadogService
	}
}

// Validate returns every problem with the configuration.
func (c *Config) Validate() error {
	var result *multierror.Error

	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result,
			fmt.Errorf("log_level: invalid level %q", c.LogLevel))
	}

	if c.Server == nil || c.Server.Address == "" {
		result = multierror.Append(result, fmt.Errorf("server.address is required"))
	}

	if c.Upstream == nil {
		result = multierror.Append(result, fmt.Errorf("upstream block is required"))
	} else if _, err := c.UpstreamConfig(); err != nil {
		result = multierror.Append(result, err)
	}

	if c.Datadog != nil && c.Datadog.Enabled && c.Datadog.Service == "" {
		result = multierror.Append(result,
			fmt.Errorf("datadog.service is required when datadog is enabled"))
	}

	return result.ErrorOrNil()
}

// UpstreamConfig converts the upstream block into an upstream client
// configuration.
func (c *Config) UpstreamConfig() (*upstream.Config, error) {
	u := c.Upstream
	if u == nil {
		u = &Upstream{}
	}

	var result *multierror.Error

	cfg := &upstream.Config{
		BaseURL:    u.BaseURL,
		MaxRetries: u.MaxRetries,
		TLSVerify:  u.TLSVerify,
	}

	if u.Timeout != "" {
		d, err := time.ParseDuration(u.Timeout)
		if err != nil {
			result = multierror.Append(result,
				fmt.Errorf("upstream.timeout: %w", err))
		}
		cfg.Timeout = d
	}

	if u.RetryDelay != "" {
		d, err := time.ParseDuration(u.RetryDelay)
		if err != nil {
			result = multierror.Append(result,
				fmt.Errorf("upstream.retry_delay: %w", err))
		}
		cfg.RetryDelay = d
	}

	if result.ErrorOrNil() == nil {
		if err := cfg.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("upstream: %w", err))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}
