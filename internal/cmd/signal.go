package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"golang.org/x/sys/unix"
)

// shutdowner is a service that can be gracefully shut down.
type shutdowner interface {
	// Shutdown gracefully stops the service, respecting ctx's deadline.
	Shutdown(ctx context.Context) (err error)
}

// signalHandler processes incoming signals and shuts services down.
type signalHandler struct {
	logger *slog.Logger

	signal chan os.Signal

	// services are the services that are shut down before application
	// exiting.
	services []shutdowner
}

// Exit status constants.
const (
	statusSuccess = 0
	statusError   = 1
)

// shutdownTimeout is the time budget given to all services to shut down.
const shutdownTimeout = 10 * time.Second

// newSignalHandler returns a new *signalHandler that shuts down svcs.
func newSignalHandler(logger *slog.Logger, svcs ...shutdowner) (h *signalHandler) {
	h = &signalHandler{
		logger:   logger,
		signal:   make(chan os.Signal, 1),
		services: svcs,
	}

	signal.Notify(h.signal, unix.SIGINT, unix.SIGQUIT, unix.SIGTERM)

	return h
}

// handle processes OS signals.  status is statusSuccess on success and
// statusError on error.
func (h *signalHandler) handle() (status int) {
	defer slogutil.RecoverAndLog(context.Background(), h.logger)

	for sig := range h.signal {
		h.logger.Info("received signal", "signal", sig)

		switch sig {
		case
			unix.SIGINT,
			unix.SIGQUIT,
			unix.SIGTERM:
			return h.shutdown()
		}
	}

	// Shouldn't happen, since h.signal is currently never closed.
	return statusError
}

// shutdown gracefully shuts down all services.  status is statusSuccess on
// success and statusError on error.
func (h *signalHandler) shutdown() (status int) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	h.logger.InfoContext(ctx, "shutting down services")

	status = statusSuccess
	for i, svc := range h.services {
		err := svc.Shutdown(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, "shutting down service", "index", i, slogutil.KeyError, err)
			status = statusError
		}
	}

	h.logger.InfoContext(ctx, "shut down phishguard")

	return status
}
