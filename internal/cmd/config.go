package cmd

import (
	"fmt"
	"os"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/c2h5oh/datasize"
	"gopkg.in/yaml.v2"
)

// On-Disk Configuration File Entities
//
// These entities should only be used to parse and validate the on-disk
// configuration.  The order of the fields should generally not be altered.

// configuration represents the on-disk configuration of PhishGuard.
type configuration struct {
	// Environment selects which dataset API endpoint to use: "production"
	// or "staging".
	Environment string `yaml:"environment"`

	// AppSupportDir is the directory the dataset store persists its
	// files to.
	AppSupportDir string `yaml:"app_support_dir"`

	// HashPrefix is the refresh configuration for the hash-prefix stream.
	HashPrefix *streamConfig `yaml:"hash_prefix"`

	// FilterSet is the refresh configuration for the filter-set stream.
	FilterSet *streamConfig `yaml:"filter_set"`

	// HTTP is the configuration for the HTTP client used to talk to the
	// dataset API.
	HTTP *httpConfig `yaml:"http"`
}

// streamConfig is the refresh configuration shared by both dataset
// streams.
type streamConfig struct {
	// RefreshIvl is how often this stream is refreshed.
	RefreshIvl timeutil.Duration `yaml:"refresh_interval"`

	// RefreshTimeout is the timeout for a single refresh operation.  The
	// dataset API client uses one timeout for all of its requests: the
	// larger of the two streams' values.
	RefreshTimeout timeutil.Duration `yaml:"refresh_timeout"`
}

// validate returns an error if the stream configuration is invalid.
func (c *streamConfig) validate() (err error) {
	switch {
	case c == nil:
		return errNilConfig
	case c.RefreshIvl.Duration <= 0:
		return newMustBePositiveError("refresh_interval", c.RefreshIvl)
	case c.RefreshTimeout.Duration <= 0:
		return newMustBePositiveError("refresh_timeout", c.RefreshTimeout)
	default:
		return nil
	}
}

// httpConfig is the configuration for the dataset API's HTTP client.
type httpConfig struct {
	// MaxResponseSize is the maximum size of a single dataset API
	// response.  It is validated to be positive; the API client does not
	// apply it, and reads responses of any size.
	MaxResponseSize datasize.ByteSize `yaml:"max_response_size"`

	// UserAgentSuffix is a suffix for the client's user agent string.  It is
	// read from the file but not passed to the HTTP client, which always
	// sends [httpclient.UserAgent].
	UserAgentSuffix string `yaml:"user_agent_suffix"`
}

// validate returns an error if the HTTP configuration is invalid.
func (c *httpConfig) validate() (err error) {
	switch {
	case c == nil:
		return errNilConfig
	case c.MaxResponseSize <= 0:
		return newMustBePositiveError("max_response_size", c.MaxResponseSize.Bytes())
	default:
		return nil
	}
}

// errNilConfig signals that config is empty.
const errNilConfig errors.Error = "nil config"

// environmentProduction and environmentStaging are the valid values for
// [configuration.Environment].
const (
	environmentProduction = "production"
	environmentStaging    = "staging"
)

// validate returns an error if the configuration is invalid.
func (c *configuration) validate() (err error) {
	if c == nil {
		return errNilConfig
	}

	switch c.Environment {
	case environmentProduction, environmentStaging:
		// Valid, go on.
	default:
		return fmt.Errorf("environment: unknown value %q", c.Environment)
	}

	if c.AppSupportDir == "" {
		return errors.Error("app_support_dir: empty")
	}

	validators := []struct {
		validate func() (err error)
		name     string
	}{{
		validate: c.HashPrefix.validate,
		name:     "hash_prefix",
	}, {
		validate: c.FilterSet.validate,
		name:     "filter_set",
	}, {
		validate: c.HTTP.validate,
		name:     "http",
	}}

	for _, v := range validators {
		err = v.validate()
		if err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
	}

	return nil
}

// readConfig reads the configuration.
func readConfig(confPath string) (c *configuration, err error) {
	// #nosec G304 -- Trust the path to the configuration file that is given
	// from the environment.
	yamlFile, err := os.ReadFile(confPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	c = &configuration{}
	err = yaml.Unmarshal(yamlFile, c)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return c, nil
}
