// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ai-pills/internal/filestore"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/store"
)

// Reconciler deletes file records whose blob is gone. A record is left
// behind when a file delete removed the blob but failed on the record.
//
// Records written by another backend are skipped: the active backend
// cannot tell whether their blobs exist. A record is only removed when the
// backend confirms the blob is missing; a failed check keeps it.
type Reconciler struct {
	files     store.FileRepository
	storage   filestore.FileStorage
	batchSize uint64
	logger    *logger.Logger
}

func NewReconciler(files store.FileRepository, storage filestore.FileStorage, batchSize int, logger *logger.Logger) *Reconciler {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Reconciler{files: files, storage: storage, batchSize: uint64(batchSize), logger: logger}
}

// RunOnce walks every file record once.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	_, err := r.reconcile(ctx)
	return err
}

// reconcile returns the number of removed records.
func (r *Reconciler) reconcile(ctx context.Context) (int, error) {
	backend := string(r.storage.Backend())
	removed, checkFailed := 0, 0
	after := ""

	for {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		batch, err := r.files.ListFilesAfter(ctx, after, r.batchSize)
		if err != nil {
			return removed, fmt.Errorf("error listing files: %w", err)
		}

		for _, file := range batch {
			if file.StorageType != backend {
				continue
			}

			found, err := r.storage.Stat(ctx, file.StoragePath)
			if err != nil {
				checkFailed++
				r.logger.Warn().Err(err).
					Str("func", "*Reconciler.reconcile").
					Str("file_id", file.ID).
					Msg("blob check failed, keeping record")
				continue
			}
			if found {
				continue
			}

			if err := r.files.DeleteFile(ctx, file.ID); err != nil {
				r.logger.Err(err).Str("func", "*Reconciler.reconcile").Str("file_id", file.ID).Msg("error removing orphaned record")
				continue
			}
			removed++
			r.logger.Info().
				Str("func", "*Reconciler.reconcile").
				Str("file_id", file.ID).
				Str("locator", file.StoragePath).
				Msg("removed record of missing blob")
		}

		if uint64(len(batch)) < r.batchSize {
			break
		}
		after = batch[len(batch)-1].ID
	}

	if removed > 0 || checkFailed > 0 {
		r.logger.Info().
			Str("func", "*Reconciler.reconcile").
			Int("removed", removed).
			Int("check_failed", checkFailed).
			Msg("reconciliation finished")
	}
	return removed, nil
}
