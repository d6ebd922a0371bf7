// Package engine assembles the strategies, the audit trail and its storage
// backend from configuration.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"conflict-resolver/pkg/config"
	"conflict-resolver/pkg/fieldmerge"
	"conflict-resolver/pkg/resolver"
	"conflict-resolver/pkg/semantic"
	"conflict-resolver/pkg/storage"
)

type Engine struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      storage.Storage
	fabric     *resolver.Fabric
	chain      *resolver.Chain
	strategies map[string]resolver.Strategy
	fields     *fieldmerge.Resolver
	merger     *semantic.Merger
}

func New(cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, config.ErrConfigIsNil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	store, err := openStorage(cfg.Audit, logger)
	if err != nil {
		return nil, err
	}

	opts := []resolver.Option{resolver.WithLogger(logger)}
	if cfg.Audit.Enabled {
		opts = append(opts,
			resolver.WithAuditSink(resolver.NewStoreSink(store)),
			resolver.WithIDGenerator(idGenerator(cfg.Audit.IDs)),
		)
	}

	e := &Engine{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		fabric:     resolver.NewFabric(opts...),
		strategies: make(map[string]resolver.Strategy),
		fields:     fieldmerge.New(),
		merger:     semantic.New(),
	}

	for _, s := range e.fabric.All() {
		e.strategies[s.Register().Name] = s
	}

	names := cfg.Chain.Strategies
	if len(names) == 0 {
		names = e.fabric.Names()
	}
	chained := make([]resolver.Strategy, 0, len(names))
	for _, name := range names {
		s, err := e.Strategy(name)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		chained = append(chained, s)
	}
	e.chain = resolver.NewChain(chained...)

	logger.Info("engine ready",
		slog.String("backend", cfg.Audit.Backend),
		slog.Bool("audit", cfg.Audit.Enabled),
		slog.Int("chain", len(chained)),
	)
	return e, nil
}

func openStorage(cfg config.AuditConfig, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.Backend {
	case config.BackendBadger:
		store, err := storage.OpenBadger(storage.BadgerConfig{
			Dir:        cfg.Dir,
			InMemory:   cfg.InMemory,
			SyncWrites: cfg.SyncWrites,
			Logger:     logger.With("component", "badger"),
		})
		if err != nil {
			return nil, fmt.Errorf("open audit storage: %w", err)
		}
		return store, nil
	default:
		return storage.NewMemoryStore(cfg.Shards), nil
	}
}

func idGenerator(scheme string) resolver.IDGenerator {
	if scheme == config.IDsSequence {
		return resolver.SequenceGenerator(storage.NewSequencer())
	}
	return resolver.UUIDGenerator
}

// Strategy returns the named strategy.
func (e *Engine) Strategy(name string) (resolver.Strategy, error) {
	s, ok := e.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", resolver.ErrStrategyNotFound, name)
	}
	return s, nil
}

// Strategies describes every strategy in priority order.
func (e *Engine) Strategies() []resolver.Descriptor {
	all := make([]resolver.Strategy, 0, len(e.strategies))
	for _, s := range e.strategies {
		all = append(all, s)
	}
	return resolver.NewChain(all...).Strategies()
}

func (e *Engine) Chain() *resolver.Chain {
	return e.chain
}

// ResolveBatch runs the chain over inputs with the configured concurrency.
func (e *Engine) ResolveBatch(ctx context.Context, inputs []resolver.Input) ([]resolver.ChainResult, error) {
	return e.chain.ResolveBatch(ctx, inputs, e.cfg.Chain.Concurrency)
}

func (e *Engine) FieldMerge() *fieldmerge.Resolver {
	return e.fields
}

func (e *Engine) SemanticMerge() *semantic.Merger {
	return e.merger
}

func (e *Engine) Storage() storage.Storage {
	return e.store
}

func (e *Engine) AuditTrail(ctx context.Context, relation string) ([]resolver.AuditRecord, error) {
	return resolver.ReadAuditTrail(ctx, e.store, relation)
}

func (e *Engine) Close() error {
	return e.store.Close()
}
