package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/poolbench/poolbench/internal/pkg/logger"
	"github.com/poolbench/poolbench/internal/pkg/metrics"
)

// DirectName labels the no-pool variant in results and metrics.
const DirectName = "direct"

// Direct opens a new physical connection on every Acquire and closes it on
// Release. Connection-establishment overhead is the quantity under study,
// so nothing is reused.
type Direct struct {
	dial Dialer
}

// NewDirect creates a direct provider using the given dialer.
func NewDirect(dial Dialer) *Direct {
	return &Direct{dial: dial}
}

// Name implements Provider.
func (d *Direct) Name() string {
	return DirectName
}

// Acquire opens a fresh connection.
func (d *Direct) Acquire(ctx context.Context) (*Handle, error) {
	start := time.Now()

	conn, err := d.dial(ctx)
	if err != nil {
		metrics.RecordAcquireError(DirectName)
		return nil, err
	}

	metrics.RecordDial(DirectName)
	metrics.RecordAcquire(DirectName, time.Since(start))
	return &Handle{conn: conn}, nil
}

// Release closes the connection. Releasing a handle twice is a no-op.
func (d *Direct) Release(ctx context.Context, h *Handle) {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return
	}
	if err := h.conn.Close(ctx); err != nil {
		logger.Warn("failed to close connection", zap.Error(err))
	}
}
