package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/filestore"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/store"
)

type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

// NewWorkers builds the jobs enabled in cfg. A job with a non-positive
// interval is left out.
func NewWorkers(storages *store.Storages, storage filestore.FileStorage, cfg config.StructuredConfig, logger *logger.Logger) *Workers {
	w := &Workers{logger: logger}

	if interval := time.Duration(cfg.Workers.TempCleanupInterval); interval > 0 {
		w.workers = append(w.workers, &periodic{
			name:     "temp_cleanup",
			interval: interval,
			job:      NewTempCleanup(storage, cfg.Storage.Files.TempRetention(), logger).RunOnce,
			logger:   logger,
		})
	}
	if interval := time.Duration(cfg.Workers.ReconcileInterval); interval > 0 {
		w.workers = append(w.workers, &periodic{
			name:     "reconcile",
			interval: interval,
			job:      NewReconciler(storages.FileRepository, storage, cfg.Workers.ReconcileBatchSize, logger).RunOnce,
			logger:   logger,
		})
	}

	return w
}

// Run starts every worker and blocks until all of them have returned.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Go(func() { worker.Run(ctx) })
	}
	wg.Wait()

	if w.logger != nil {
		w.logger.Info().Str("func", "*Workers.Run").Msg("workers stopped")
	}
}

// periodic runs job once per interval until its context is cancelled. The
// first run happens after one interval.
type periodic struct {
	name     string
	interval time.Duration
	job      func(ctx context.Context) error

	logger *logger.Logger
}

func (p *periodic) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info().Str("worker", p.name).Dur("interval", p.interval).Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Str("worker", p.name).Msg("worker stopped")
			return
		case <-ticker.C:
			if err := p.job(ctx); err != nil {
				p.logger.Err(err).Str("worker", p.name).Msg("worker run failed")
			}
		}
	}
}
