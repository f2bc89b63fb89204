// Package errcoll contains the error-collector interface, which
// phishguard's entry point reports recovered panics to, along with its
// Sentry and stderr-writer implementations.
package errcoll

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
)

// Interface is the interface for error collectors that process information
// about errors, possibly sending them to a remote location.
type Interface interface {
	Collect(ctx context.Context, err error)
}

// Collectf formats an error from format and args, logs it through l, and
// reports it to errColl.  It is meant for call sites that don't already
// have an [error] value in hand, such as a sanity check that failed.
func Collectf(ctx context.Context, errColl Interface, l *slog.Logger, format string, args ...any) {
	err := fmt.Errorf(format, args...)
	l.ErrorContext(ctx, "non-critical error", slogutil.KeyError, err)
	errColl.Collect(ctx, err)
}

// Collect logs err through l with msg as the message and reports it to
// errColl, wrapped with msg for context.
func Collect(ctx context.Context, errColl Interface, l *slog.Logger, msg string, err error) {
	l.ErrorContext(ctx, msg, slogutil.KeyError, err)
	errColl.Collect(ctx, fmt.Errorf("%s: %w", msg, err))
}
