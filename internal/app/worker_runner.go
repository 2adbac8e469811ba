package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/dig"

	"service-bidding/internal/logx"
	"service-bidding/internal/transport/kafka"
)

// WorkerRunner runs the order-event consumer
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun consumes order events until the container context is done.
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(
	ctx context.Context,
	store closeStore,
	logger logx.Logger,
	consumer *kafka.Consumer,
	notifier closeNotifier,
) error {
	if consumer == nil {
		return fmt.Errorf("kafka consumer is nil: worker container misconfigured")
	}
	defer closeWorker(store, logger, consumer, notifier)

	logger.Info("service-bidding-worker started")
	return consumer.Run(ctx)
}

func closeWorker(store closeStore, logger logx.Logger, consumer *kafka.Consumer, notifier closeNotifier) {
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("kafka close error", logx.Err(err))
		}
	}
	if notifier != nil {
		if err := notifier(); err != nil {
			logger.Error("notifier close error", logx.Err(err))
		}
	}
	if store != nil {
		store()
	}
}
