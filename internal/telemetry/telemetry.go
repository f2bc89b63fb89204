// Package telemetry reports classifier events, such as a blocked page being
// shown to a user, to a collector.
package telemetry

import (
	"context"
	"log/slog"
)

// ErrorPageShownEvent describes an occurrence of the classifier blocking a
// URL and the host showing its warning page for it.
type ErrorPageShownEvent struct {
	// Host identifies the host the warning was shown for.  The classifier
	// sets it to the lowercase hex SHA-256 of the canonical host, not to the
	// host name itself.
	Host string

	// ClientSideHit is true if the block decision was made entirely from
	// locally cached data, without a remote lookup.
	ClientSideHit bool
}

// Sink is the interface for telemetry collectors that process information
// about classifier events, possibly sending them to a remote location.
type Sink interface {
	ErrorPageShown(ctx context.Context, evt ErrorPageShownEvent)
}

// Collect is a helper that logs evt through l and forwards it to sink.
func Collect(ctx context.Context, sink Sink, l *slog.Logger, evt ErrorPageShownEvent) {
	l.InfoContext(
		ctx,
		"error page shown",
		"host", evt.Host,
		"client_side_hit", evt.ClientSideHit,
	)
	sink.ErrorPageShown(ctx, evt)
}

// WriterSink is a [Sink] that logs events through a [*slog.Logger],
// typically configured to write to stderr, for local or development use.
type WriterSink struct {
	logger *slog.Logger
}

// NewWriterSink returns a new *WriterSink that logs through logger.
func NewWriterSink(logger *slog.Logger) (s *WriterSink) {
	return &WriterSink{
		logger: logger,
	}
}

// type check
var _ Sink = (*WriterSink)(nil)

// ErrorPageShown implements the [Sink] interface for *WriterSink.
func (s *WriterSink) ErrorPageShown(ctx context.Context, evt ErrorPageShownEvent) {
	s.logger.InfoContext(
		ctx,
		"telemetry: error page shown",
		"host", evt.Host,
		"client_side_hit", evt.ClientSideHit,
	)
}
