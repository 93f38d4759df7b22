package feesync

import (
	"context"
	"errors"
	"time"

	"github.com/billforge/billforge/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Worker runs periodic reconciliation passes when FEE_SYNC_INTERVAL is set.
// Manual passes through the sync endpoint keep working either way.
type Worker struct {
	syncer   *Syncer
	log      *zap.Logger
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewWorker(cfg config.Config, syncer *Syncer, log *zap.Logger) *Worker {
	return &Worker{
		syncer:   syncer,
		log:      log.Named("feesync.worker"),
		interval: cfg.SyncInterval,
	}
}

func (w *Worker) Start(context.Context) error {
	if w.interval <= 0 || !w.syncer.Enabled() {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(runCtx)
	w.log.Info("fee sync worker started", zap.Duration("interval", w.interval))
	return nil
}

func (w *Worker) Stop(ctx context.Context) error {
	if w.cancel == nil {
		return nil
	}
	w.cancel()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.syncer.Sync(ctx); err != nil && !errors.Is(err, ErrSyncInProgress) {
				w.log.Error("scheduled fee sync failed", zap.Error(err))
			}
		}
	}
}

func registerWorker(lc fx.Lifecycle, w *Worker) {
	lc.Append(fx.Hook{
		OnStart: w.Start,
		OnStop:  w.Stop,
	})
}
