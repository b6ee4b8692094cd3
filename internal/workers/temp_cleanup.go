package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/ai-pills/internal/filestore"
	"github.com/MKhiriev/ai-pills/internal/logger"
)

// TempCleanup removes temp uploads older than the retention period.
type TempCleanup struct {
	storage   filestore.FileStorage
	retention time.Duration
	logger    *logger.Logger
}

func NewTempCleanup(storage filestore.FileStorage, retention time.Duration, logger *logger.Logger) *TempCleanup {
	return &TempCleanup{storage: storage, retention: retention, logger: logger}
}

func (c *TempCleanup) RunOnce(ctx context.Context) error {
	removed := c.storage.CleanupTemp(ctx, c.retention)
	if removed > 0 {
		c.logger.Info().Str("func", "*TempCleanup.RunOnce").Int("removed", removed).Msg("temp files removed")
	}
	return ctx.Err()
}
