package provider

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/poolbench/poolbench/internal/pkg/errors"
	"github.com/poolbench/poolbench/internal/pkg/logger"
	"github.com/poolbench/poolbench/internal/pkg/metrics"
)

// PoolName labels the pooled variant in results and metrics.
const PoolName = "pooled"

// PoolConfig bounds the pool capacity and the acquire wait policy.
type PoolConfig struct {
	// MinConns handles are dialed up front.
	MinConns int
	// MaxConns caps the handles checked out concurrently.
	MaxConns int
	// AcquireTimeout bounds how long an acquirer waits for a free handle
	// when the pool is exhausted.
	AcquireTimeout time.Duration
}

// Pool hands out reusable connection handles from a bounded free list. It
// pre-warms MinConns handles, grows on demand up to MaxConns, and blocks
// acquirers when all handles are checked out. The capacity invariant: the
// number of concurrently checked-out handles never exceeds MaxConns.
type Pool struct {
	dial Dialer
	cfg  PoolConfig

	// idle is the free list. Its capacity equals MaxConns, so returning a
	// handle never blocks.
	idle chan *Handle

	mu     sync.Mutex
	open   int // handles dialed and not yet closed
	closed bool
}

// NewPool creates a pool and pre-warms MinConns connections. The context
// bounds the pre-warming dials only.
func NewPool(ctx context.Context, dial Dialer, cfg PoolConfig) (*Pool, error) {
	if cfg.MinConns < 1 {
		return nil, apperrors.Validation("pool min must be at least 1")
	}
	if cfg.MaxConns < cfg.MinConns {
		return nil, apperrors.Validation("pool max must not be smaller than pool min")
	}
	if cfg.AcquireTimeout <= 0 {
		return nil, apperrors.Validation("pool acquire timeout must be positive")
	}

	p := &Pool{
		dial: dial,
		cfg:  cfg,
		idle: make(chan *Handle, cfg.MaxConns),
	}

	for i := 0; i < cfg.MinConns; i++ {
		conn, err := dial(ctx)
		if err != nil {
			_ = p.Shutdown(ctx)
			return nil, err
		}
		metrics.RecordDial(PoolName)
		h := &Handle{conn: conn}
		h.released.Store(true)
		p.open++
		p.idle <- h
	}

	logger.Info("connection pool ready",
		zap.Int("min_conns", cfg.MinConns),
		zap.Int("max_conns", cfg.MaxConns),
	)

	return p, nil
}

// Name implements Provider.
func (p *Pool) Name() string {
	return PoolName
}

// Acquire checks out a handle, dialing a new connection only when the free
// list is empty and the pool is below capacity. At capacity it blocks until
// a peer releases, the wait policy expires, or the context is done.
func (p *Pool) Acquire(ctx context.Context) (*Handle, error) {
	start := time.Now()

	// Fast path: reuse an idle handle.
	select {
	case h := <-p.idle:
		h.released.Store(false)
		metrics.RecordAcquire(PoolName, time.Since(start))
		return h, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		metrics.RecordAcquireError(PoolName)
		return nil, apperrors.Connection("pool is shut down")
	}
	if p.open < p.cfg.MaxConns {
		p.open++
		p.mu.Unlock()

		conn, err := p.dial(ctx)
		if err != nil {
			p.mu.Lock()
			p.open--
			p.mu.Unlock()
			metrics.RecordAcquireError(PoolName)
			return nil, err
		}

		metrics.RecordDial(PoolName)
		metrics.RecordAcquire(PoolName, time.Since(start))
		return &Handle{conn: conn}, nil
	}
	p.mu.Unlock()

	// Capacity exhausted: wait for a peer to release.
	timer := time.NewTimer(p.cfg.AcquireTimeout)
	defer timer.Stop()

	select {
	case h := <-p.idle:
		h.released.Store(false)
		metrics.RecordAcquire(PoolName, time.Since(start))
		return h, nil
	case <-timer.C:
		metrics.RecordAcquireError(PoolName)
		return nil, apperrors.Connection("timed out waiting for a pooled connection")
	case <-ctx.Done():
		metrics.RecordAcquireError(PoolName)
		return nil, apperrors.Connection("canceled while waiting for a pooled connection").WithError(ctx.Err())
	}
}

// Release returns the handle to the free list for reuse. After Shutdown the
// handle's connection is closed instead. Releasing a handle twice is a
// no-op.
func (p *Pool) Release(ctx context.Context, h *Handle) {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return
	}

	p.mu.Lock()
	if p.closed {
		p.open--
		p.mu.Unlock()
		if err := h.conn.Close(ctx); err != nil {
			logger.Warn("failed to close connection", zap.Error(err))
		}
		return
	}
	p.mu.Unlock()

	p.idle <- h
}

// Shutdown closes every pooled connection. It must be called after all
// workers have completed; any Acquire afterwards fails with a connection
// error. Calling Shutdown again is a no-op.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	for {
		select {
		case h := <-p.idle:
			p.mu.Lock()
			p.open--
			p.mu.Unlock()
			if err := h.conn.Close(ctx); err != nil {
				logger.Warn("failed to close pooled connection", zap.Error(err))
			}
		default:
			logger.Info("connection pool shut down")
			return nil
		}
	}
}

// Open reports the number of handles currently dialed and not closed.
func (p *Pool) Open() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// Idle reports the number of handles sitting in the free list.
func (p *Pool) Idle() int {
	return len(p.idle)
}
