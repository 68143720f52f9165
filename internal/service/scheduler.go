package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errInvalidInterval = errors.New("sync interval must be positive")

type EntryDownloader interface {
	DownloadEntryList(ctx context.Context, eventID uuid.UUID) (ImportResult, error)
}

// EntrySyncScheduler periodically downloads the entry lists of a fixed set of events.
type EntrySyncScheduler struct {
	sched    gocron.Scheduler
	svc      EntryDownloader
	eventIDs []uuid.UUID
	timeout  time.Duration
}

func NewEntrySyncScheduler(svc EntryDownloader, eventIDs []uuid.UUID, interval, timeout time.Duration) (*EntrySyncScheduler, error) {
	if interval <= 0 {
		return nil, errInvalidInterval
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("gocron.NewScheduler -> %w", err)
	}

	s := &EntrySyncScheduler{
		sched:    sched,
		svc:      svc,
		eventIDs: eventIDs,
		timeout:  timeout,
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.SyncAll),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("sched.NewJob -> %w", err)
	}

	return s, nil
}

func (s *EntrySyncScheduler) Start() {
	zap.L().Info("entry sync scheduler started", zap.Int("events", len(s.eventIDs)))
	s.sched.Start()
}

func (s *EntrySyncScheduler) Shutdown() error {
	return s.sched.Shutdown()
}

// SyncAll runs one download per configured event. Errors are logged and do not stop the others.
func (s *EntrySyncScheduler) SyncAll() {
	for _, eventID := range s.eventIDs {
		ctx := context.Background()
		var cancel context.CancelFunc = func() {}
		if s.timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
		}

		result, err := s.svc.DownloadEntryList(ctx, eventID)
		cancel()
		if err != nil {
			zap.L().Error("[Scheduler] entry sync failed", zap.String("event_id", eventID.String()), zap.Error(err))
			continue
		}

		zap.L().Info("[Scheduler] entry sync done",
			zap.String("event_id", eventID.String()),
			zap.Int("saved", result.Saved),
			zap.Int("failed", len(result.Failures)))
	}
}
