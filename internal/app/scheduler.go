package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
)

// Scheduler triggers the briefing pipeline on a cron schedule.
// A failed run is logged and the day is skipped; the next trigger
// starts a fresh run.
type Scheduler struct {
	cron     *cron.Cron
	briefing interfaces.BriefingService
	logger   *common.Logger
}

// NewScheduler creates a scheduler from the schedule configuration.
func NewScheduler(config common.ScheduleConfig, briefing interfaces.BriefingService, logger *common.Logger) (*Scheduler, error) {
	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", config.Timezone, err)
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(location)),
		briefing: briefing,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(config.Cron, s.run); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", config.Cron, err)
	}

	logger.Info().Str("cron", config.Cron).Str("timezone", config.Timezone).Msg("Scheduler configured")
	return s, nil
}

// Start begins cron dispatch in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("Scheduler started")
}

// Stop halts cron dispatch and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) run() {
	s.logger.Info().Msg("Scheduled briefing run triggered")

	if _, err := s.briefing.Run(context.Background()); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled briefing run failed")
		return
	}
	s.logger.Info().Msg("Scheduled briefing run complete")
}
