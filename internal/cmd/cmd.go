// Package cmd is the PhishGuard entry point.  It contains the on-disk
// configuration file utilities, environment parsing, signal processing
// logic, and the wiring of the dataset and classifier components.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/cobaltwing/phishguard/guard"
	"github.com/cobaltwing/phishguard/internal/apiclient"
	"github.com/cobaltwing/phishguard/internal/classifier"
	"github.com/cobaltwing/phishguard/internal/dataset"
	"github.com/cobaltwing/phishguard/internal/dataset/embedded"
	"github.com/cobaltwing/phishguard/internal/httpclient"
	"github.com/cobaltwing/phishguard/internal/metrics"
	"github.com/cobaltwing/phishguard/internal/regexcache"
	"github.com/cobaltwing/phishguard/internal/scheduler"
	"github.com/cobaltwing/phishguard/internal/update"
	"github.com/cobaltwing/phishguard/internal/version"
	"github.com/prometheus/client_golang/prometheus"
)

// regexCacheSize is the number of compiled regular expressions the
// classifier keeps around.
//
// TODO(cobaltwing): consider making configurable once a real deployment
// tells us what the filter set's regex cardinality looks like.
const regexCacheSize = 1024

// Main is the entry point of the application.
func Main() {
	ctx := context.Background()

	envs, err := readEnvs()
	check(err)

	logger := envs.configureLogs()
	logger.InfoContext(ctx, "starting phishguard", "version", version.Version())

	errColl, err := envs.buildErrColl()
	check(err)

	defer reportPanics(ctx, errColl, logger)

	c, err := readConfig(envs.ConfPath)
	check(err)

	err = c.validate()
	check(err)

	reg := prometheus.DefaultRegisterer
	datasetMtrc := metrics.NewDataset(reg)
	classifierMtrc := metrics.NewClassifier(reg)
	apiMtrc := metrics.NewAPI(reg)

	store := dataset.New(&dataset.Config{
		Logger:   logger.With(slogutil.KeyPrefix, "dataset_store"),
		Embedded: &embedded.Provider{},
		Dir:      c.AppSupportDir,
	})

	refreshTimeout := c.HashPrefix.RefreshTimeout.Duration
	if t := c.FilterSet.RefreshTimeout.Duration; t > refreshTimeout {
		refreshTimeout = t
	}

	api := apiclient.New(&apiclient.Config{
		Logger:  logger.With(slogutil.KeyPrefix, "api_client"),
		HTTP:    httpclient.NewClient(&httpclient.ClientConfig{Timeout: refreshTimeout}),
		BaseURL: &envs.APIBaseURL.URL,
		Metrics: apiMtrc,
	})

	updMgr := update.New(&update.Config{
		Logger:  logger.With(slogutil.KeyPrefix, "update_manager"),
		API:     api,
		Store:   store,
		Metrics: datasetMtrc,
	})

	sched := scheduler.NewPair(
		scheduler.New(&scheduler.Config{
			Logger:   logger.With(slogutil.KeyPrefix, "hash_prefix_scheduler"),
			Interval: c.HashPrefix.RefreshIvl.Duration,
		}),
		updMgr.UpdateHashPrefixes,
		scheduler.New(&scheduler.Config{
			Logger:   logger.With(slogutil.KeyPrefix, "filter_set_scheduler"),
			Interval: c.FilterSet.RefreshIvl.Duration,
		}),
		updMgr.UpdateFilterSet,
	)

	telemetrySink, err := envs.buildTelemetrySink(logger)
	check(err)

	det := classifier.New(&classifier.Config{
		Logger:    logger.With(slogutil.KeyPrefix, "classifier"),
		Store:     store,
		API:       api,
		Regex:     regexcache.New(&regexcache.Config{Size: regexCacheSize}),
		Telemetry: telemetrySink,
		Metrics:   classifierMtrc,
	})

	g := guard.New(&guard.Config{
		Logger:    logger.With(slogutil.KeyPrefix, "guard"),
		Store:     store,
		Scheduler: sched,
		Detector:  det,
	})

	g.LoadDataAsync(ctx)
	g.Start()

	sigHdlr := newSignalHandler(logger, guardShutdowner{g})

	os.Exit(sigHdlr.handle())
}

// guardShutdowner adapts a [*guard.Guard] to the [shutdowner] interface.
type guardShutdowner struct {
	guard *guard.Guard
}

// Shutdown implements the [shutdowner] interface for guardShutdowner.
func (s guardShutdowner) Shutdown(_ context.Context) (err error) {
	s.guard.Stop()

	return nil
}

// check panics if err is non-nil.  It is used for the fatal configuration
// and startup errors.  Panics raised after [Main] defers [reportPanics] are
// collected and logged by it; the ones raised while reading the
// environment and building the error collector are not.
func check(err error) {
	if err != nil {
		panic(fmt.Errorf("phishguard: %w", err))
	}
}
