// Package runner drives the four-phase CRUD benchmark over a fixed-size
// worker group, measuring wall-clock time per phase.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/poolbench/poolbench/internal/domain"
	"github.com/poolbench/poolbench/internal/pkg/logger"
)

// Store is the record store surface the benchmark drives.
type Store interface {
	Create(ctx context.Context, username, email string) (int64, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	UpdateEmail(ctx context.Context, id int64, newEmail string) error
	Delete(ctx context.Context, id int64) error
}

// dataPoint is one synthetic record to be pushed through all four phases
type dataPoint struct {
	username string
	email    string
}

// Runner executes the four-phase benchmark against one provider variant
type Runner struct {
	store        Store
	providerName string
	dataPoints   int
	workers      int
	logger       *zap.Logger

	usernames []string
}

// New creates a runner for the given provider variant. dataPoints is the
// number of synthetic records per phase, workers the concurrency level.
func New(store Store, providerName string, dataPoints, workers int) *Runner {
	return &Runner{
		store:        store,
		providerName: providerName,
		dataPoints:   dataPoints,
		workers:      workers,
		logger:       logger.WithProvider(providerName),
	}
}

// Run executes the create, read, update and delete phases in strict order.
// Each phase is a barrier: the next phase starts only after every task of
// the previous one has completed. A failed phase halts the run; its partial
// result is still returned.
func (r *Runner) Run(ctx context.Context) (*domain.RunResult, error) {
	points := r.generate()
	result := domain.NewRunResult(r.providerName, r.dataPoints, r.workers)

	r.logger.Info("benchmark run started",
		zap.Int("data_points", r.dataPoints),
		zap.Int("workers", r.workers),
	)

	// ids are collected in submission order for the later phases
	ids := make([]int64, len(points))

	err := r.phase(result, domain.OperationCreate, len(points), func(i int) error {
		id, err := r.store.Create(ctx, points[i].username, points[i].email)
		if err != nil {
			return err
		}
		ids[i] = id
		return nil
	})
	if err != nil {
		return result, err
	}

	err = r.phase(result, domain.OperationRead, len(points), func(i int) error {
		_, err := r.store.Get(ctx, ids[i])
		return err
	})
	if err != nil {
		return result, err
	}

	err = r.phase(result, domain.OperationUpdate, len(points), func(i int) error {
		return r.store.UpdateEmail(ctx, ids[i], "updated_"+points[i].email)
	})
	if err != nil {
		return result, err
	}

	err = r.phase(result, domain.OperationDelete, len(points), func(i int) error {
		return r.store.Delete(ctx, ids[i])
	})
	if err != nil {
		return result, err
	}

	r.logger.Info("benchmark run completed", zap.Duration("total", result.Total()))
	return result, nil
}

// Usernames returns the synthetic usernames generated for the last run,
// for post-run verification.
func (r *Runner) Usernames() []string {
	return r.usernames
}

// phase submits n tasks across the bounded worker group and records the
// wall-clock duration. Every task runs to completion regardless of peer
// failures; the first error observed fails the phase after the barrier.
func (r *Runner) phase(result *domain.RunResult, op domain.Operation, n int, task func(i int) error) error {
	r.logger.Info("phase started", zap.String("operation", string(op)), zap.Int("tasks", n))

	var g errgroup.Group
	g.SetLimit(r.workers)

	start := time.Now()
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return task(i)
		})
	}
	err := g.Wait()
	elapsed := time.Since(start)

	result.Record(op, elapsed)

	if err != nil {
		r.logger.Error("phase failed", zap.String("operation", string(op)), zap.Error(err))
		return fmt.Errorf("%s phase failed: %w", op, err)
	}

	r.logger.Info("phase completed",
		zap.String("operation", string(op)),
		zap.Duration("duration", elapsed),
	)
	return nil
}

// generate builds dataPoints synthetic records with globally-unique
// usernames and emails. Uniqueness comes from a random token.
func (r *Runner) generate() []dataPoint {
	points := make([]dataPoint, r.dataPoints)
	r.usernames = make([]string, r.dataPoints)

	for i := range points {
		token := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
		username := "user_" + token
		points[i] = dataPoint{username: username, email: username + "@test.com"}
		r.usernames[i] = username
	}

	return points
}
