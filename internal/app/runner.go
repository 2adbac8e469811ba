package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"go.uber.org/dig"

	"service-bidding/internal/logx"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the HTTP server
type Runner struct {
	runFn     func(*dig.Container) error
	logFatalf func(string, ...interface{})
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run, logFatalf: log.Fatalf}
}

// MustRun starts the HTTP server using the provided DI container and blocks
// until its context is done.
func (r *Runner) MustRun(container *dig.Container) {
	if err := r.runFn(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		case errors.Is(err, context.DeadlineExceeded):
			log.Println("startup aborted: startup timeout exceeded")
			return
		default:
			r.logFatalf("run error: %v", err)
		}
	}
}

type runIn struct {
	dig.In

	Ctx           context.Context
	Server        *http.Server
	Pprof         *http.Server `name:"pprof_server" optional:"true"`
	Logger        logx.Logger
	CloseStore    closeStore
	CloseNotifier closeNotifier
}

func run(container *dig.Container) error {
	return container.Invoke(func(in runIn) error {
		defer closeResources(in)

		errCh := make(chan error, 2)
		startServer(in.Server, in.Logger, "http", errCh)
		if in.Pprof != nil {
			startServer(in.Pprof, in.Logger, "pprof", errCh)
		}

		var serveErr error
		select {
		case <-in.Ctx.Done():
			in.Logger.Info("shutting down service-bidding")
		case serveErr = <-errCh:
		}

		gracefulShutdown(in.Server, in.Logger, shutdownTimeout)
		if in.Pprof != nil {
			gracefulShutdown(in.Pprof, in.Logger, shutdownTimeout)
		}
		return serveErr
	})
}

func startServer(server *http.Server, logger logx.Logger, name string, errCh chan<- error) {
	go func() {
		logger.Info("listening", logx.String("server", name), logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen error", logx.String("server", name), logx.Err(err))
			errCh <- err
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.String("addr", srv.Addr), logx.Err(err))
	}
}

func closeResources(in runIn) {
	if in.CloseNotifier != nil {
		if err := in.CloseNotifier(); err != nil {
			in.Logger.Error("notifier close error", logx.Err(err))
		}
	}
	if in.CloseStore != nil {
		in.CloseStore()
	}
	_ = in.Logger.Sync()
}
