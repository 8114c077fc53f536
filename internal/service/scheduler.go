package service

import (
	"context"
	"fmt"
	"time"

	"course-planner/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Refresher is the part of the backup service the scheduler drives
type Refresher interface {
	Refresh(ctx context.Context) (*RefreshReport, error)
}

// BackupScheduler refreshes backup snapshots on a cron schedule
type BackupScheduler struct {
	cron      *cron.Cron
	refresher Refresher
	timeout   time.Duration
}

// NewBackupScheduler registers the refresh job; schedule uses the standard five-field cron syntax
func NewBackupScheduler(refresher Refresher, schedule string, timeout time.Duration) (*BackupScheduler, error) {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	s := &BackupScheduler{
		cron:      cron.New(cron.WithLocation(time.Local)),
		refresher: refresher,
		timeout:   timeout,
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *BackupScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	logger.Info("Scheduled backup refresh started")
	if _, err := s.refresher.Refresh(ctx); err != nil {
		logger.Error("Scheduled backup refresh failed: %v", err)
	}
}

func (s *BackupScheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running refresh to finish
func (s *BackupScheduler) Stop() {
	<-s.cron.Stop().Done()
}
