// Package metrics contains the Prometheus metric definitions used
// throughout phishguard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace and subsystem names used across the metrics in this package.
const (
	Namespace = "phishguard"

	subsystemDataset    = "dataset"
	subsystemClassifier = "classifier"
	subsystemAPI        = "api"
)

// Stream label values for the dataset metrics.
const (
	StreamHashPrefix = "hash_prefix"
	StreamFilterSet  = "filter_set"
)

// Classifier result label values.
const (
	ResultSafeNoPrefix        = "safe_no_prefix"
	ResultSafeNoFilterMatch   = "safe_no_filter_match"
	ResultMaliciousClientSide = "malicious_client_side"
	ResultMaliciousServerSide = "malicious_server_side"
	ResultSafeRemoteMiss      = "safe_remote_miss"
)

// Dataset holds the gauges and histograms that describe the state of the
// synced dataset.
type Dataset struct {
	revision        *prometheus.GaugeVec
	size            *prometheus.GaugeVec
	refreshDuration *prometheus.HistogramVec
	refreshStatus   *prometheus.GaugeVec
}

// NewDataset registers the dataset metrics on reg and returns a properly
// initialized *Dataset.
func NewDataset(reg prometheus.Registerer) (d *Dataset) {
	d = &Dataset{
		revision: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: subsystemDataset,
			Name:      "revision",
			Help:      "Current revision of the dataset stream.",
		}, []string{"stream"}),
		size: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: subsystemDataset,
			Name:      "size",
			Help:      "Number of elements currently held by the dataset stream.",
		}, []string{"stream"}),
		refreshDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: subsystemDataset,
			Name:      "refresh_duration_seconds",
			Help:      "Time it took to refresh a dataset stream.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stream"}),
		refreshStatus: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: subsystemDataset,
			Name:      "refresh_status",
			Help:      "1 if the last refresh of the stream succeeded, 0 otherwise.",
		}, []string{"stream"}),
	}

	return d
}

// SetRevision records the current revision for stream.
func (d *Dataset) SetRevision(stream string, revision int) {
	d.revision.WithLabelValues(stream).Set(float64(revision))
}

// SetSize records the current element count for stream.
func (d *Dataset) SetSize(stream string, size int) {
	d.size.WithLabelValues(stream).Set(float64(size))
}

// ObserveRefresh records the duration and outcome of a refresh of stream.
func (d *Dataset) ObserveRefresh(stream string, seconds float64, err error) {
	d.refreshDuration.WithLabelValues(stream).Observe(seconds)

	status := 1.0
	if err != nil {
		status = 0
	}

	d.refreshStatus.WithLabelValues(stream).Set(status)
}

// Classifier holds the counters and gauges produced by the detector.
type Classifier struct {
	lookups        *prometheus.CounterVec
	regexCacheSize prometheus.Gauge
}

// NewClassifier registers the classifier metrics on reg and returns a
// properly initialized *Classifier.
func NewClassifier(reg prometheus.Registerer) (c *Classifier) {
	c = &Classifier{
		lookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystemClassifier,
			Name:      "lookups_total",
			Help:      "Total number of classification lookups, labeled by result.",
		}, []string{"result"}),
		regexCacheSize: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: subsystemClassifier,
			Name:      "regex_cache_size",
			Help:      "Number of compiled regular expressions currently cached.",
		}),
	}

	return c
}

// IncrementLookups increments the lookup counter for the given result label.
func (c *Classifier) IncrementLookups(result string) {
	c.lookups.WithLabelValues(result).Inc()
}

// SetRegexCacheSize records the current size of the regex cache.
func (c *Classifier) SetRegexCacheSize(size int) {
	c.regexCacheSize.Set(float64(size))
}

// API holds the counters produced by the dataset API client.
type API struct {
	requests *prometheus.CounterVec
}

// NewAPI registers the API client metrics on reg and returns a properly
// initialized *API.
func NewAPI(reg prometheus.Registerer) (a *API) {
	a = &API{
		requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystemAPI,
			Name:      "requests_total",
			Help:      "Total number of dataset API requests, labeled by operation and status.",
		}, []string{"op", "status"}),
	}

	return a
}

// IncrementRequests increments the request counter for op, labeling it
// "ok" or "error" depending on err.
func (a *API) IncrementRequests(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}

	a.requests.WithLabelValues(op, status).Inc()
}
