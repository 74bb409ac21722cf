// Package service orchestrates a full benchmark: schema setup, one run per
// provider variant, and the comparison handed to the report.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/poolbench/poolbench/internal/config"
	"github.com/poolbench/poolbench/internal/domain"
	"github.com/poolbench/poolbench/internal/pkg/logger"
	"github.com/poolbench/poolbench/internal/provider"
	"github.com/poolbench/poolbench/internal/report"
	"github.com/poolbench/poolbench/internal/runner"
	"github.com/poolbench/poolbench/internal/store"
)

// BenchmarkService runs the complete direct-versus-pooled comparison
type BenchmarkService struct {
	cfg *config.Config
}

// NewBenchmarkService creates a benchmark service from explicit
// configuration; no process-wide connection state is consulted.
func NewBenchmarkService(cfg *config.Config) *BenchmarkService {
	return &BenchmarkService{cfg: cfg}
}

// Run executes the benchmark under both provider variants and returns the
// comparison. The schema is bootstrapped first; the pooled run shuts its
// pool down after all workers complete.
func (s *BenchmarkService) Run(ctx context.Context) (*report.Comparison, error) {
	dial := provider.PgxDialer(s.cfg.Postgres)

	if err := store.EnsureSchema(ctx, provider.NewDirect(dial)); err != nil {
		return nil, err
	}

	logger.Info("running without connection pooling")
	directResult, err := s.runVariant(ctx, provider.NewDirect(dial))
	if err != nil {
		return nil, err
	}

	logger.Info("running with connection pooling")
	pool, err := provider.NewPool(ctx, dial, provider.PoolConfig{
		MinConns:       s.cfg.Postgres.PoolMin,
		MaxConns:       s.cfg.Postgres.PoolMax,
		AcquireTimeout: s.cfg.Postgres.AcquireTimeout,
	})
	if err != nil {
		return nil, err
	}

	pooledResult, runErr := s.runVariant(ctx, pool)
	if err := pool.Shutdown(ctx); err != nil {
		logger.Warn("pool shutdown failed", zap.Error(err))
	}
	if runErr != nil {
		return nil, runErr
	}

	return &report.Comparison{Direct: directResult, Pooled: pooledResult}, nil
}

// runVariant drives all four phases against one provider and verifies that
// the delete phase left no rows behind.
func (s *BenchmarkService) runVariant(ctx context.Context, p provider.Provider) (*domain.RunResult, error) {
	st := store.NewUserStore(p)
	r := runner.New(st, p.Name(), s.cfg.Benchmark.DataPoints, s.cfg.Benchmark.Workers)

	result, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}

	leftover, err := st.CountByUsernames(ctx, r.Usernames())
	if err != nil {
		logger.Warn("failed to verify cleanup", zap.Error(err))
	} else if leftover > 0 {
		logger.Warn("delete phase left rows behind",
			zap.String("provider", p.Name()),
			zap.Int64("rows", leftover),
		)
	}

	return result, nil
}
