package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/smartroute/busops-backend/internal/config"
)

// CronService manages the scheduled trip-generation job
type CronService struct {
	cron         *cron.Cron
	materializer *TripMaterializer
	cfg          config.TripGenerationConfig
	logger       *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(materializer *TripMaterializer, cfg config.TripGenerationConfig, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:         cron.New(cron.WithSeconds()),
		materializer: materializer,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers and starts the daily generation job
func (s *CronService) Start() error {
	_, err := s.cron.AddFunc(s.cfg.CronSpec, s.generateTripsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule trip generation job: %w", err)
	}
	s.logger.WithField("cron", s.cfg.CronSpec).Info("Scheduled daily trip generation")

	s.cron.Start()
	return nil
}

// Stop stops the cron scheduler and waits for a running job to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// RunNow runs the generation job immediately, outside its cadence. The
// manual trigger and the scheduled job share the same run logic.
func (s *CronService) RunNow() (*RunResult, error) {
	s.logger.Info("Manual trip generation triggered")
	return s.materializer.Run()
}

// Status describes the configured cadence and registered job entries
func (s *CronService) Status() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"cron_spec":    s.cfg.CronSpec,
		"horizon_days": s.cfg.HorizonDays,
		"timezone":     s.cfg.Timezone,
		"running":      len(entries) > 0,
		"jobs":         jobs,
	}
}

func (s *CronService) generateTripsJob() {
	start := time.Now()
	s.logger.Info("Starting scheduled trip generation")

	result, err := s.materializer.Run()
	if err != nil {
		s.logger.WithError(err).Error("Scheduled trip generation failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"schedules_processed": result.SchedulesProcessed,
		"trips_created":       result.TripsCreated,
		"duration_ms":         time.Since(start).Milliseconds(),
	}).Info("Scheduled trip generation finished")
}
