// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/filestore"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/mock"
	"github.com/MKhiriev/ai-pills/internal/store"
	"github.com/MKhiriev/ai-pills/models"
)

// ─────────────────────────────────────────────
// Workers / periodic
// ─────────────────────────────────────────────

type countingWorker struct {
	runs atomic.Int32
}

func (c *countingWorker) Run(ctx context.Context) {
	c.runs.Add(1)
	<-ctx.Done()
}

func TestWorkers_Run_StopsOnCancel(t *testing.T) {
	w1, w2 := &countingWorker{}, &countingWorker{}
	ws := &Workers{workers: []Worker{w1, w2}, logger: logger.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ws.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return w1.runs.Load() == 1 && w2.runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	(&Workers{}).Run(context.Background())
}

func TestNewWorkers(t *testing.T) {
	tests := []struct {
		name      string
		cleanup   time.Duration
		reconcile time.Duration
		want      []string
	}{
		{"both enabled", time.Hour, 6 * time.Hour, []string{"temp_cleanup", "reconcile"}},
		{"cleanup only", time.Hour, -1, []string{"temp_cleanup"}},
		{"none", -1, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.StructuredConfig{Workers: config.Workers{
				TempCleanupInterval: config.Duration(tt.cleanup),
				ReconcileInterval:   config.Duration(tt.reconcile),
				ReconcileBatchSize:  10,
			}}

			ws := NewWorkers(&store.Storages{}, nil, cfg, logger.Nop())

			var names []string
			for _, w := range ws.workers {
				names = append(names, w.(*periodic).name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestPeriodic_RunsUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	p := &periodic{
		name:     "test",
		interval: 5 * time.Millisecond,
		job: func(context.Context) error {
			calls.Add(1)
			return errors.New("ignored")
		},
		logger: logger.Nop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

// ─────────────────────────────────────────────
// TempCleanup
// ─────────────────────────────────────────────

func TestTempCleanup_RunOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mock.NewMockFileStorage(ctrl)
	storage.EXPECT().CleanupTemp(gomock.Any(), 24*time.Hour).Return(3)

	err := NewTempCleanup(storage, 24*time.Hour, logger.Nop()).RunOnce(context.Background())
	assert.NoError(t, err)
}

// ─────────────────────────────────────────────
// Reconciler
// ─────────────────────────────────────────────

func localFile(id string) models.File {
	return models.File{ID: id, StorageType: "local", StoragePath: "/srv/uploads/agents/u/" + id + ".zip"}
}

func TestReconciler_RemovesRecordsOfMissingBlobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mock.NewMockFileRepository(ctrl)
	storage := mock.NewMockFileStorage(ctrl)
	ctx := context.Background()

	s3File := models.File{ID: "c", StorageType: "s3", StoragePath: "agents/u/c.zip"}

	storage.EXPECT().Backend().Return(filestore.BackendLocal)
	gomock.InOrder(
		files.EXPECT().ListFilesAfter(ctx, "", uint64(2)).Return([]models.File{localFile("a"), localFile("b")}, nil),
		files.EXPECT().ListFilesAfter(ctx, "b", uint64(2)).Return([]models.File{s3File}, nil),
	)
	storage.EXPECT().Stat(ctx, localFile("a").StoragePath).Return(true, nil)
	storage.EXPECT().Stat(ctx, localFile("b").StoragePath).Return(false, nil)
	files.EXPECT().DeleteFile(ctx, "b").Return(nil)

	removed, err := NewReconciler(files, storage, 2, logger.Nop()).reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestReconciler_DeleteFailureContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mock.NewMockFileRepository(ctrl)
	storage := mock.NewMockFileStorage(ctrl)
	ctx := context.Background()

	storage.EXPECT().Backend().Return(filestore.BackendLocal)
	files.EXPECT().ListFilesAfter(ctx, "", uint64(10)).Return([]models.File{localFile("a"), localFile("b")}, nil)
	storage.EXPECT().Stat(ctx, gomock.Any()).Return(false, nil).Times(2)
	files.EXPECT().DeleteFile(ctx, "a").Return(errors.New("db is down"))
	files.EXPECT().DeleteFile(ctx, "b").Return(nil)

	removed, err := NewReconciler(files, storage, 10, logger.Nop()).reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestReconciler_KeepsRecordsWhenCheckFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mock.NewMockFileRepository(ctrl)
	storage := mock.NewMockFileStorage(ctrl)
	ctx := context.Background()

	s3File := func(id string) models.File {
		return models.File{ID: id, StorageType: "s3", StoragePath: "agents/u/" + id + ".zip"}
	}
	outage := &filestore.Error{Op: "stat", Backend: filestore.BackendS3, Err: errors.New("dial tcp 127.0.0.1:1: connection refused")}

	storage.EXPECT().Backend().Return(filestore.BackendS3)
	files.EXPECT().ListFilesAfter(ctx, "", uint64(10)).Return([]models.File{s3File("a"), s3File("b")}, nil)
	storage.EXPECT().Stat(ctx, s3File("a").StoragePath).Return(false, outage)
	storage.EXPECT().Stat(ctx, s3File("b").StoragePath).Return(false, nil)
	files.EXPECT().DeleteFile(ctx, "b").Return(nil)
	// no DeleteFile for "a"

	removed, err := NewReconciler(files, storage, 10, logger.Nop()).reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestReconciler_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mock.NewMockFileRepository(ctrl)
	storage := mock.NewMockFileStorage(ctrl)
	errDB := errors.New("db is down")

	storage.EXPECT().Backend().Return(filestore.BackendLocal)
	files.EXPECT().ListFilesAfter(gomock.Any(), "", uint64(100)).Return(nil, errDB)

	err := NewReconciler(files, storage, 0, logger.Nop()).RunOnce(context.Background())
	assert.ErrorIs(t, err, errDB)
}

func TestReconciler_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mock.NewMockFileStorage(ctrl)
	storage.EXPECT().Backend().Return(filestore.BackendLocal)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewReconciler(mock.NewMockFileRepository(ctrl), storage, 10, logger.Nop()).RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
