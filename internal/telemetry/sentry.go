package telemetry

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// SentryEventSink is a [Sink] that reports events to Sentry as messages
// with structured tags, mirroring how [errcoll.SentryErrorCollector]
// reports errors.
type SentryEventSink struct {
	sentry  *sentry.Client
	release string
}

// NewSentryEventSink returns a new SentryEventSink.  cli must be non-nil.
func NewSentryEventSink(cli *sentry.Client, release string) (s *SentryEventSink) {
	return &SentryEventSink{
		sentry:  cli,
		release: release,
	}
}

// type check
var _ Sink = (*SentryEventSink)(nil)

// ErrorPageShown implements the [Sink] interface for *SentryEventSink.
func (s *SentryEventSink) ErrorPageShown(ctx context.Context, evt ErrorPageShownEvent) {
	scope := sentry.NewScope()
	scope.SetTag("release", s.release)
	scope.SetTag("client_side_hit", boolString(evt.ClientSideHit))
	scope.SetTag("host", evt.Host)

	s.sentry.CaptureEvent(&sentry.Event{
		Message: "error page shown",
		Level:   sentry.LevelInfo,
	}, &sentry.EventHint{
		Context: ctx,
	}, scope)
}

// boolString returns "1" if cond is true and "0" otherwise, matching the
// convention used by the metrics package.
func boolString(cond bool) (s string) {
	if cond {
		return "1"
	}

	return "0"
}
