package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/staffdir/pkg/upstream"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())

	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "127.0.0.1:8000", c.Server.Address)
	assert.Equal(t, upstream.DefaultBaseURL, c.Upstream.BaseURL)
	assert.Equal(t, 0, c.Upstream.MaxRetries)
	require.NotNil(t, c.Upstream.TLSVerify)
	assert.True(t, *c.Upstream.TLSVerify)
	assert.Empty(t, c.Fallback.SeedFile)
	assert.False(t, c.Fallback.OnTransportError)
	assert.False(t, c.Datadog.Enabled)
	assert.Equal(t, "staffdir", c.Datadog.Service)

	uc, err := c.UpstreamConfig()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, uc.Timeout)
	assert.Equal(t, 500*time.Millisecond, uc.RetryDelay)
}

func TestParse(t *testing.T) {
	src := `
log_level = "debug"

server {
  address = "0.0.0.0:9000"
}

upstream {
  base_url    = "http://localhost:8080/api/v1"
  timeout     = "2s"
  max_retries = 2
  tls_verify  = false
}

fallback {
  seed_file          = "employees.yaml"
  on_transport_error = true
}

datadog {
  enabled = true
  env     = "staging"
}
`
	c, err := Parse("config.hcl", []byte(src))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "0.0.0.0:9000", c.Server.Address)
	assert.Equal(t, "employees.yaml", c.Fallback.SeedFile)
	assert.True(t, c.Fallback.OnTransportError)
	assert.True(t, c.Datadog.Enabled)
	assert.Equal(t, "staffdir", c.Datadog.Service)
	assert.Equal(t, "staging", c.Datadog.Env)

	uc, err := c.UpstreamConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/v1", uc.BaseURL)
	assert.Equal(t, 2*time.Second, uc.Timeout)
	assert.Equal(t, 2, uc.MaxRetries)
	require.NotNil(t, uc.TLSVerify)
	assert.False(t, *uc.TLSVerify)
}

func TestParse_PartialBlocks(t *testing.T) {
	c, err := Parse("config.hcl", []byte(`upstream { max_retries = 1 }`))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, upstream.DefaultBaseURL, c.Upstream.BaseURL)
	assert.Equal(t, 1, c.Upstream.MaxRetries)
	assert.Equal(t, DefaultServerAddress, c.Server.Address)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("config.hcl", []byte(`server { port = 1 }`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(c *Config)
		errorMsg []string
	}{
		{
			name:     "bad log level",
			modify:   func(c *Config) { c.LogLevel = "loud" },
			errorMsg: []string{"log_level"},
		},
		{
			name:     "missing address",
			modify:   func(c *Config) { c.Server.Address = "" },
			errorMsg: []string{"server.address"},
		},
		{
			name:     "bad timeout",
			modify:   func(c *Config) { c.Upstream.Timeout = "soon" },
			errorMsg: []string{"upstream.timeout"},
		},
		{
			name:     "bad base url scheme",
			modify:   func(c *Config) { c.Upstream.BaseURL = "ftp://example.com" },
			errorMsg: []string{"scheme"},
		},
		{
			name: "every problem is reported",
			modify: func(c *Config) {
				c.LogLevel = "loud"
				c.Upstream.RetryDelay = "later"
				c.Datadog.Enabled = true
				c.Datadog.Service = ""
			},
			errorMsg: []string{"log_level", "upstream.retry_delay", "datadog.service"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(c)

			err := c.Validate()
			require.Error(t, err)
			for _, msg := range tt.errorMsg {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestNewConfig(t *testing.T) {
	t.Run("empty filename returns defaults", func(t *testing.T) {
		c, err := NewConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), c)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewConfig(filepath.Join(t.TempDir(), "nope.hcl"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.hcl")
		require.NoError(t, os.WriteFile(path, []byte(`log_level = "warn"`), 0o600))

		c, err := NewConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "warn", c.LogLevel)
		assert.Equal(t, DefaultServerAddress, c.Server.Address)
	})
}
