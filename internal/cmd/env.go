package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/AdguardTeam/golibs/log"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/netutil/urlutil"
	"github.com/caarlos0/env/v7"
	"github.com/cobaltwing/phishguard/internal/errcoll"
	"github.com/cobaltwing/phishguard/internal/telemetry"
	"github.com/cobaltwing/phishguard/internal/version"
	"github.com/getsentry/sentry-go"
)

// environments represents the per-deployment, secret-bearing configuration
// kept in the process environment, as opposed to the on-disk configuration
// file, which is shared and checked in.
type environments struct {
	// APIBaseURL is the base URL of the dataset API.
	APIBaseURL *urlutil.URL `env:"API_BASE_URL,notEmpty"`

	// ConfPath is the path to the on-disk configuration file.
	ConfPath string `env:"CONFIG_PATH" envDefault:"./config.yaml"`

	// SentryDSN is the Sentry DSN to report errors and telemetry events
	// to.  The special value "stderr" disables Sentry and writes errors
	// to stderr instead.
	SentryDSN string `env:"SENTRY_DSN" envDefault:"stderr"`

	LogTimestamp strictBool `env:"LOG_TIMESTAMP" envDefault:"1"`
	LogVerbose   strictBool `env:"VERBOSE" envDefault:"0"`
}

// readEnvs reads the environment configuration.
func readEnvs() (envs *environments, err error) {
	envs = &environments{}
	err = env.Parse(envs)
	if err != nil {
		return nil, fmt.Errorf("parsing environments: %w", err)
	}

	return envs, nil
}

// configureLogs sets the configuration for the plain text logs and
// returns a [slog.Logger] for code that uses it.
func (envs *environments) configureLogs() (slogLogger *slog.Logger) {
	var flags int
	if envs.LogTimestamp {
		flags = log.LstdFlags | log.Lmicroseconds
	}

	log.SetFlags(flags)

	if envs.LogVerbose {
		log.SetLevel(log.DEBUG)
	}

	return slogutil.New(&slogutil.Config{
		Output:       os.Stdout,
		Format:       slogutil.FormatAdGuardLegacy,
		AddTimestamp: bool(envs.LogTimestamp),
		Verbose:      bool(envs.LogVerbose),
	})
}

// buildErrColl builds and returns an error collector from the environment.
func (envs *environments) buildErrColl() (errColl errcoll.ErrorFlushCollector, err error) {
	if envs.SentryDSN == "stderr" {
		return noopFlushCollector{errcoll.NewWriterErrorCollector(os.Stderr)}, nil
	}

	cli, err := envs.sentryClient()
	if err != nil {
		return nil, fmt.Errorf("building sentry client: %w", err)
	}

	return errcoll.NewSentryErrorCollector(cli, version.Version()), nil
}

// buildTelemetrySink builds and returns a telemetry sink from the
// environment, mirroring [environments.buildErrColl]'s stderr/Sentry
// split.
func (envs *environments) buildTelemetrySink(
	logger *slog.Logger,
) (sink telemetry.Sink, err error) {
	if envs.SentryDSN == "stderr" {
		return telemetry.NewWriterSink(logger.With(slogutil.KeyPrefix, "telemetry")), nil
	}

	cli, err := envs.sentryClient()
	if err != nil {
		return nil, fmt.Errorf("building sentry client: %w", err)
	}

	return telemetry.NewSentryEventSink(cli, version.Version()), nil
}

// sentryClient builds the Sentry client shared by the error collector and
// the telemetry sink.
func (envs *environments) sentryClient() (cli *sentry.Client, err error) {
	return sentry.NewClient(sentry.ClientOptions{
		Dsn:              envs.SentryDSN,
		AttachStacktrace: true,
		Release:          version.Version(),
	})
}

// noopFlushCollector adapts an [errcoll.Interface] that has no flush
// behavior to [errcoll.ErrorFlushCollector].
type noopFlushCollector struct {
	errcoll.Interface
}

// type check
var _ errcoll.ErrorFlushCollector = noopFlushCollector{}

// Flush implements the [errcoll.ErrorFlushCollector] interface for
// noopFlushCollector.
func (noopFlushCollector) Flush() {}

// strictBool is a type for booleans that are parsed from the environment
// more strictly than the usual bool.  It only accepts "0" and "1" as valid
// values.
type strictBool bool

// UnmarshalText implements the encoding.TextUnmarshaler interface for
// *strictBool.
func (sb *strictBool) UnmarshalText(b []byte) (err error) {
	if len(b) == 1 {
		switch b[0] {
		case '0':
			*sb = false

			return nil
		case '1':
			*sb = true

			return nil
		default:
			// Go on and return an error.
		}
	}

	return fmt.Errorf("invalid value %q, supported: %q, %q", b, "0", "1")
}
