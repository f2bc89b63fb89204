// Package classifier implements the client-side phishing URL detector: the
// hot path that decides whether a URL is malicious using the local dataset,
// falling back to a narrow remote lookup when the local data can't answer
// on its own.
package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/url"
	"strings"

	"github.com/cobaltwing/phishguard/internal/dataset"
	"github.com/cobaltwing/phishguard/internal/metrics"
	"github.com/cobaltwing/phishguard/internal/regexcache"
	"github.com/cobaltwing/phishguard/internal/telemetry"
	"golang.org/x/net/idna"
)

// Store is the subset of [dataset.Store] the detector needs.
type Store interface {
	Snapshot() (snap *dataset.Snapshot)
}

// APIClient is the subset of the dataset API client the detector needs.
type APIClient interface {
	GetMatches(ctx context.Context, hashPrefix string) (matches []dataset.MatchRecord)
}

// Length, in hex characters, of the prefix kept in the local store versus
// the (deliberately coarser) prefix sent to the remote matches endpoint.
const (
	hashPrefixStoreLen = dataset.HashPrefixLen
	hashPrefixQueryLen = 4
)

// Detector decides whether a URL is malicious.
type Detector struct {
	logger    *slog.Logger
	store     Store
	api       APIClient
	regex     *regexcache.Cache
	telemetry telemetry.Sink
	metrics   *metrics.Classifier
}

// Config is the configuration structure for a *Detector.
type Config struct {
	// Logger is used to log regex compile failures and lookup outcomes.
	Logger *slog.Logger

	// Store supplies the current dataset snapshot.
	Store Store

	// API is used for the remote match lookup.  It must collapse all
	// failures to an empty result; see [APIClient].
	API APIClient

	// Regex caches compiled patterns across lookups.
	Regex *regexcache.Cache

	// Telemetry receives an event each time a URL is found malicious.
	Telemetry telemetry.Sink

	// Metrics records per-result lookup counts and cache size.  It may be
	// nil, in which case no metrics are recorded.
	Metrics *metrics.Classifier
}

// New returns a new *Detector.
func New(conf *Config) (d *Detector) {
	return &Detector{
		logger:    conf.Logger,
		store:     conf.Store,
		api:       conf.API,
		regex:     conf.Regex,
		telemetry: conf.Telemetry,
		metrics:   conf.Metrics,
	}
}

// IsMalicious reports whether rawURL is a known phishing URL.  It never
// returns an error: a URL it can't parse, or a remote lookup that fails,
// both resolve to a safe (false) answer, since the detector is meant to be
// conservative under partial failure.
func (d *Detector) IsMalicious(ctx context.Context, rawURL string) (malicious bool) {
	if d.metrics != nil {
		defer func() { d.metrics.SetRegexCacheSize(d.regex.Len()) }()
	}

	canonicalHost, canonicalURL, ok := canonicalize(rawURL)
	if !ok {
		d.recordResult(metrics.ResultSafeNoPrefix)

		return false
	}

	hostHash := hashHost(canonicalHost)
	storePrefix := hostHash[:hashPrefixStoreLen]

	snap := d.store.Snapshot()
	if _, ok = snap.HashPrefixes[storePrefix]; !ok {
		d.recordResult(metrics.ResultSafeNoPrefix)

		return false
	}

	localHit, hadLocalCandidate := d.matchLocal(ctx, snap, hostHash, canonicalURL)
	if localHit {
		return true
	}

	if d.matchRemote(ctx, hostHash, canonicalURL) {
		return true
	}

	// A prefix hit with no local filter sharing the full hash is an 8-hex
	// prefix collision: the local data never had a candidate to rule out,
	// as opposed to having one whose regex didn't match.
	if hadLocalCandidate {
		d.recordResult(metrics.ResultSafeRemoteMiss)
	} else {
		d.recordResult(metrics.ResultSafeNoFilterMatch)
	}

	return false
}

// matchLocal scans the local filter set for a filter whose hash matches
// hostHash and whose regex matches canonicalURL, emitting telemetry and
// returning true on the first hit.  hadCandidate reports whether any local
// filter shared hostHash at all, regardless of regex outcome.
func (d *Detector) matchLocal(
	ctx context.Context,
	snap *dataset.Snapshot,
	hostHash string,
	canonicalURL string,
) (hit bool, hadCandidate bool) {
	for f := range snap.FilterSet {
		if f.Hash != hostHash {
			continue
		}

		hadCandidate = true

		re, ok := d.regex.Compile(f.Regex)
		if !ok {
			d.logger.DebugContext(ctx, "skipping rule with bad regex", "regex", f.Regex)

			continue
		}

		if re.MatchString(canonicalURL) {
			d.recordResult(metrics.ResultMaliciousClientSide)
			telemetry.Collect(ctx, d.telemetry, d.logger, telemetry.ErrorPageShownEvent{
				Host:          hostHash,
				ClientSideHit: true,
			})

			return true, true
		}
	}

	return false, hadCandidate
}

// matchRemote queries the remote matches endpoint with a deliberately
// coarser query prefix than the one stored locally, preserving
// k-anonymity at query time.
func (d *Detector) matchRemote(ctx context.Context, hostHash string, canonicalURL string) (hit bool) {
	queryPrefix := hostHash[:hashPrefixQueryLen]
	matches := d.api.GetMatches(ctx, queryPrefix)

	for _, m := range matches {
		if m.Hash != hostHash {
			continue
		}

		re, ok := d.regex.Compile(m.Regex)
		if !ok {
			d.logger.DebugContext(ctx, "skipping match with bad regex", "regex", m.Regex)

			continue
		}

		if re.MatchString(canonicalURL) {
			d.recordResult(metrics.ResultMaliciousServerSide)
			telemetry.Collect(ctx, d.telemetry, d.logger, telemetry.ErrorPageShownEvent{
				Host:          hostHash,
				ClientSideHit: false,
			})

			return true
		}
	}

	return false
}

// recordResult increments the lookup counter for result, if metrics are
// configured.
func (d *Detector) recordResult(result string) {
	if d.metrics != nil {
		d.metrics.IncrementLookups(result)
	}
}

// hashHost returns the lowercase hex SHA-256 of host.
func hashHost(host string) (hexDigest string) {
	sum := sha256.Sum256([]byte(host))

	return hex.EncodeToString(sum[:])
}

// canonicalize parses rawURL and returns its canonical host and full URL
// string.  ok is false if rawURL has no host or otherwise can't be
// canonicalized, in which case the caller must treat the URL as safe.
func canonicalize(rawURL string) (host string, canonicalURL string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", "", false
	}

	host, err = idna.Lookup.ToASCII(u.Hostname())
	if err != nil {
		return "", "", false
	}

	host = strings.ToLower(host)

	canon := *u
	canon.Scheme = strings.ToLower(canon.Scheme)
	canon.Host = host
	if port := u.Port(); port != "" {
		canon.Host = host + ":" + port
	}

	return host, canon.String(), true
}
