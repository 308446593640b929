package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/workix/fieldsync/internal/logger"
	"github.com/workix/fieldsync/internal/mock"
	"github.com/workix/fieldsync/models"
)

func TestSyncJob_RunsCyclesOnTicker(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)

	cycles := make(chan struct{}, 16)
	syncSvc.EXPECT().
		SyncNow(gomock.Any()).
		DoAndReturn(func(context.Context) (models.SyncReport, error) {
			select {
			case cycles <- struct{}{}:
			default:
			}
			return models.SyncReport{}, nil
		}).
		AnyTimes()

	job := NewSyncJob(syncSvc, logger.Nop())
	job.Start(context.Background(), 10*time.Millisecond)
	defer job.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-cycles:
		case <-time.After(2 * time.Second):
			t.Fatal("sync job never ticked")
		}
	}
}

func TestSyncJob_ToleratesOfflineAndInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)

	cycles := make(chan struct{}, 16)
	errs := []error{ErrOffline, ErrSyncInProgress, nil}
	var i int
	syncSvc.EXPECT().
		SyncNow(gomock.Any()).
		DoAndReturn(func(context.Context) (models.SyncReport, error) {
			err := errs[i%len(errs)]
			i++
			select {
			case cycles <- struct{}{}:
			default:
			}
			return models.SyncReport{}, err
		}).
		AnyTimes()

	job := NewSyncJob(syncSvc, logger.Nop())
	job.Start(context.Background(), 5*time.Millisecond)
	defer job.Stop()

	for i := 0; i < 3; i++ {
		select {
		case <-cycles:
		case <-time.After(2 * time.Second):
			t.Fatal("sync job stopped ticking after a rejected cycle")
		}
	}
}

func TestSyncJob_StopBlocksUntilExit(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)
	syncSvc.EXPECT().SyncNow(gomock.Any()).Return(models.SyncReport{}, nil).AnyTimes()

	job := NewSyncJob(syncSvc, logger.Nop())
	job.Start(context.Background(), time.Millisecond)
	job.Stop()

	// Safe to stop twice and to stop a job that never started.
	job.Stop()
	NewSyncJob(syncSvc, logger.Nop()).Stop()
}

func TestSyncJob_RestartReplacesPreviousRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)
	syncSvc.EXPECT().SyncNow(gomock.Any()).Return(models.SyncReport{}, nil).AnyTimes()

	job := NewSyncJob(syncSvc, logger.Nop())
	job.Start(context.Background(), time.Millisecond)
	job.Start(context.Background(), time.Millisecond) // implicit stop of the first run
	job.Stop()

	assert.NotPanics(t, func() { job.Stop() })
}
