package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
environment: staging
app_support_dir: /var/lib/phishguard
hash_prefix:
  refresh_interval: 1h
  refresh_timeout: 10s
filter_set:
  refresh_interval: 24h
  refresh_timeout: 30s
http:
  max_response_size: 10MB
  user_agent_suffix: " PhishGuard/1.0"
`

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validConfigYAML), 0o644))

	c, err := readConfig(path)
	require.NoError(t, err)

	assert.Equal(t, environmentStaging, c.Environment)
	assert.Equal(t, "/var/lib/phishguard", c.AppSupportDir)
	require.NotNil(t, c.HashPrefix)
	require.NotNil(t, c.FilterSet)
	require.NotNil(t, c.HTTP)

	assert.NoError(t, c.validate())
}

func TestReadConfig_missingFile(t *testing.T) {
	_, err := readConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfiguration_validate(t *testing.T) {
	valid := func() (c *configuration) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(validConfigYAML), 0o644))

		c, err := readConfig(path)
		require.NoError(t, err)

		return c
	}

	testCases := []struct {
		name    string
		mutate  func(c *configuration)
		wantErr bool
	}{{
		name:    "valid",
		mutate:  func(c *configuration) {},
		wantErr: false,
	}, {
		name: "bad_environment",
		mutate: func(c *configuration) {
			c.Environment = "dev"
		},
		wantErr: true,
	}, {
		name: "empty_app_support_dir",
		mutate: func(c *configuration) {
			c.AppSupportDir = ""
		},
		wantErr: true,
	}, {
		name: "nil_hash_prefix",
		mutate: func(c *configuration) {
			c.HashPrefix = nil
		},
		wantErr: true,
	}, {
		name: "nil_filter_set",
		mutate: func(c *configuration) {
			c.FilterSet = nil
		},
		wantErr: true,
	}, {
		name: "nil_http",
		mutate: func(c *configuration) {
			c.HTTP = nil
		},
		wantErr: true,
	}, {
		name: "zero_refresh_interval",
		mutate: func(c *configuration) {
			c.HashPrefix.RefreshIvl.Duration = 0
		},
		wantErr: true,
	}, {
		name: "zero_max_response_size",
		mutate: func(c *configuration) {
			c.HTTP.MaxResponseSize = 0
		},
		wantErr: true,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)

			err := c.validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfiguration_validate_nilConfig(t *testing.T) {
	var c *configuration

	assert.ErrorIs(t, c.validate(), errNilConfig)
}
