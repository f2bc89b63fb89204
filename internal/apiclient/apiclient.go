// Package apiclient talks to the dataset API: the three endpoints the
// update manager and the classifier use to keep the local dataset current.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cobaltwing/phishguard/internal/dataset"
	"github.com/cobaltwing/phishguard/internal/httpclient"
)

// requestMetrics is the subset of [*metrics.API] the client needs.  It is
// an interface so that the client has no import-time dependency on the
// metrics package's registration side effects.
type requestMetrics interface {
	// IncrementRequests records the outcome of a request for the given
	// operation.
	IncrementRequests(op string, err error)
}

// Client is the dataset API client.  All methods collapse transport,
// non-2xx, and decode failures to a safe empty result: a failed fetch must
// degrade to "no update this tick" and must never propagate as an error,
// since it sits on both the classifier's hot path and the updaters'
// background path.
type Client struct {
	logger  *slog.Logger
	http    *httpclient.Client
	baseURL *url.URL
	metrics requestMetrics
}

// Config is the configuration structure for a *Client.
type Config struct {
	// Logger is used to log failed requests at debug level.
	Logger *slog.Logger

	// HTTP is the underlying HTTP client.
	HTTP *httpclient.Client

	// BaseURL is the dataset API's base URL, e.g. the production or
	// staging endpoint.
	BaseURL *url.URL

	// Metrics records request outcomes.  If nil, no metrics are recorded.
	Metrics requestMetrics
}

// New returns a new *Client.
func New(conf *Config) (c *Client) {
	return &Client{
		logger:  conf.Logger,
		http:    conf.HTTP,
		baseURL: conf.BaseURL,
		metrics: conf.Metrics,
	}
}

// recordRequest reports the outcome of op to the metrics, if configured.
func (c *Client) recordRequest(op string, err error) {
	if c.metrics != nil {
		c.metrics.IncrementRequests(op, err)
	}
}

// Endpoint paths on the dataset API.
const (
	pathFilterSet  = "/filterSet"
	pathHashPrefix = "/hashPrefix"
	pathMatches    = "/matches"
)

// emptyDelta returns the safe empty delta returned on any failure, tagged
// with the revision that was requested so that callers don't mistakenly
// bump their revision forward.
func emptyDelta[T comparable](revision int) (d dataset.Delta[T]) {
	return dataset.Delta[T]{
		Insert:   []T{},
		Delete:   []T{},
		Revision: revision,
		Replace:  false,
	}
}

// GetFilterSet fetches the filter-set delta since revision.  revision must
// be non-negative.  On any failure it returns the safe empty delta tagged
// with revision.
func (c *Client) GetFilterSet(
	ctx context.Context,
	revision int,
) (d dataset.Delta[dataset.Filter]) {
	u := c.endpoint(pathFilterSet, revision, "")

	var body struct {
		Insert   []dataset.Filter `json:"insert"`
		Delete   []dataset.Filter `json:"delete"`
		Revision int              `json:"revision"`
		Replace  bool             `json:"replace"`
	}

	err := c.getJSON(ctx, u, &body)
	c.recordRequest("get_filter_set", err)
	if err != nil {
		c.logger.DebugContext(ctx, "getting filter set", "err", err)

		return emptyDelta[dataset.Filter](revision)
	}

	return dataset.Delta[dataset.Filter]{
		Insert:   body.Insert,
		Delete:   body.Delete,
		Revision: body.Revision,
		Replace:  body.Replace,
	}
}

// GetHashPrefixes fetches the hash-prefix delta since revision.  revision
// must be non-negative.  On any failure it returns the safe empty delta
// tagged with revision.
func (c *Client) GetHashPrefixes(
	ctx context.Context,
	revision int,
) (d dataset.Delta[dataset.HashPrefix]) {
	u := c.endpoint(pathHashPrefix, revision, "")

	var body struct {
		Insert   []dataset.HashPrefix `json:"insert"`
		Delete   []dataset.HashPrefix `json:"delete"`
		Revision int                  `json:"revision"`
		Replace  bool                 `json:"replace"`
	}

	err := c.getJSON(ctx, u, &body)
	c.recordRequest("get_hash_prefixes", err)
	if err != nil {
		c.logger.DebugContext(ctx, "getting hash prefixes", "err", err)

		return emptyDelta[dataset.HashPrefix](revision)
	}

	return dataset.Delta[dataset.HashPrefix]{
		Insert:   body.Insert,
		Delete:   body.Delete,
		Revision: body.Revision,
		Replace:  body.Replace,
	}
}

// GetMatches fetches the match records for the given 4-hex-char query
// prefix.  On any failure it returns an empty slice.
func (c *Client) GetMatches(
	ctx context.Context,
	hashPrefix string,
) (matches []dataset.MatchRecord) {
	u := c.endpoint(pathMatches, 0, hashPrefix)

	var body struct {
		Matches []dataset.MatchRecord `json:"matches"`
	}

	err := c.getJSON(ctx, u, &body)
	c.recordRequest("get_matches", err)
	if err != nil {
		c.logger.DebugContext(ctx, "getting matches", "hash_prefix", hashPrefix, "err", err)

		return []dataset.MatchRecord{}
	}

	return body.Matches
}

// endpoint builds the URL for path, adding a revision query parameter when
// revision is greater than zero, or a hashPrefix query parameter when
// hashPrefix is non-empty.
func (c *Client) endpoint(path string, revision int, hashPrefix string) (u *url.URL) {
	u = c.baseURL.JoinPath(path)

	q := u.Query()
	if revision > 0 {
		q.Set("revision", strconv.Itoa(revision))
	}

	if hashPrefix != "" {
		q.Set("hashPrefix", hashPrefix)
	}

	u.RawQuery = q.Encode()

	return u
}

// getJSON performs a GET request against u and decodes a 2xx JSON response
// body into v.  Any transport error, non-2xx status, or decode error is
// returned as err; callers are expected to collapse it to a safe default.
func (c *Client) getJSON(ctx context.Context, u *url.URL, v any) (err error) {
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf(
			"requesting %s: %w",
			u,
			&httpclient.StatusError{Expected: http.StatusOK, Got: resp.StatusCode},
		)
	}

	err = json.NewDecoder(resp.Body).Decode(v)
	if err != nil {
		return fmt.Errorf("decoding response from %s: %w", u, err)
	}

	return nil
}
