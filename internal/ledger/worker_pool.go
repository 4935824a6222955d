package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// PooledEngine bounds concurrent mutation work by running every engine
// operation on a fixed-size worker pool. Callers still block until their
// operation finishes.
type PooledEngine struct {
	base   Engine
	pool   *ants.Pool
	logger *slog.Logger
}

// NewPooledEngine wraps base with a worker pool of the given size
func NewPooledEngine(base Engine, size int, logger *slog.Logger) (*PooledEngine, error) {
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &PooledEngine{
		base:   base,
		pool:   pool,
		logger: logger,
	}, nil
}

// submit runs op on the pool and waits for its result
func (p *PooledEngine) submit(op func() error) error {
	result := make(chan error, 1)

	if err := p.pool.Submit(func() {
		result <- op()
	}); err != nil {
		p.logger.Error("Failed to submit operation to worker pool", "error", err)
		return fmt.Errorf("failed to submit operation to worker pool: %w", err)
	}

	return <-result
}

func (p *PooledEngine) SetBalance(ctx context.Context, accountID uuid.UUID, displayName, currencyCode string, amount int64) error {
	return p.submit(func() error {
		return p.base.SetBalance(ctx, accountID, displayName, currencyCode, amount)
	})
}

func (p *PooledEngine) Credit(ctx context.Context, accountID uuid.UUID, displayName, currencyCode string, amount int64) error {
	return p.submit(func() error {
		return p.base.Credit(ctx, accountID, displayName, currencyCode, amount)
	})
}

func (p *PooledEngine) Debit(ctx context.Context, accountID uuid.UUID, displayName, currencyCode string, amount int64) error {
	return p.submit(func() error {
		return p.base.Debit(ctx, accountID, displayName, currencyCode, amount)
	})
}

func (p *PooledEngine) Transfer(ctx context.Context, fromID uuid.UUID, fromName string, toID uuid.UUID, toName, currencyCode string, amount int64) error {
	return p.submit(func() error {
		return p.base.Transfer(ctx, fromID, fromName, toID, toName, currencyCode, amount)
	})
}

func (p *PooledEngine) EnsureStartingBalance(ctx context.Context, accountID uuid.UUID, displayName string) error {
	return p.submit(func() error {
		return p.base.EnsureStartingBalance(ctx, accountID, displayName)
	})
}

// Shutdown releases the worker pool
func (p *PooledEngine) Shutdown() {
	p.logger.Info("Shutting down ledger worker pool", "running_workers", p.pool.Running())
	p.pool.Release()
}

// Running returns the number of busy workers
func (p *PooledEngine) Running() int {
	return p.pool.Running()
}
