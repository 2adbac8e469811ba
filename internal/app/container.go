package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-bidding/internal/config"
	"service-bidding/internal/logx"
	"service-bidding/internal/repository"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	loadConfig func() (*config.Config, error)
	newLogger  func(*config.Config) (logx.Logger, error)
	dbConnect  dbConnectFunc
	migrate    func(dsn string) error
	registry   *prometheus.Registry
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		loadConfig: config.Load,
		newLogger:  NewLogger,
		dbConnect:  connectDbWithRetry,
		migrate:    repository.Migrate,
		logFatalf:  log.Fatalf,
	}
}

// WithConfig uses cfg instead of loading it from the environment.
func (b *ContainerBuilder) WithConfig(cfg *config.Config) *ContainerBuilder {
	if cfg != nil {
		b.loadConfig = func() (*config.Config, error) { return cfg, nil }
	}
	return b
}

// WithLogger uses logger instead of building one from config.
func (b *ContainerBuilder) WithLogger(logger logx.Logger) *ContainerBuilder {
	if logger != nil {
		b.newLogger = func(*config.Config) (logx.Logger, error) { return logger, nil }
	}
	return b
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithMigrate sets the schema migration function
func (b *ContainerBuilder) WithMigrate(fn func(dsn string) error) *ContainerBuilder {
	if fn != nil {
		b.migrate = fn
	}
	return b
}

// WithRegistry registers metrics in reg instead of the default registry.
func (b *ContainerBuilder) WithRegistry(reg *prometheus.Registry) *ContainerBuilder {
	b.registry = reg
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the HTTP service container.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the order-event worker container.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container, err := b.buildShared(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container, err := b.buildShared(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildShared(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := b.registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerStorage(container, b.dbConnect, b.migrate); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds the HTTP service container from the environment.
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the worker container from the environment.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func (b *ContainerBuilder) registerCore(container *dig.Container, ctx context.Context) error {
	var (
		reg  prometheus.Registerer = prometheus.DefaultRegisterer
		gath prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if b.registry != nil {
		reg, gath = b.registry, b.registry
	}
	return provideAll(container,
		func() context.Context { return ctx },
		b.loadConfig,
		b.newLogger,
		func() prometheus.Registerer { return reg },
		func() prometheus.Gatherer { return gath },
		func(cfg *config.Config) time.Duration { return cfg.OperationTimeout },
	)
}
