// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// Task is one run of a periodic job.
type Task func(ctx context.Context) error

// PeriodicConfig configures a PeriodicService.
type PeriodicConfig struct {
	// Name identifies the service in supervisor events and logs.
	Name string

	// Interval between runs. Zero or negative disables the service.
	Interval time.Duration

	// RunOnStart runs the task once before the first tick.
	RunOnStart bool

	// Timeout bounds a single run. Zero means the interval.
	Timeout time.Duration
}

// PeriodicService runs a Task on a ticker under suture supervision.
// A failed run is logged and retried on the next tick; it does not
// make the supervisor restart the service.
type PeriodicService struct {
	task   Task
	config PeriodicConfig
	logger zerolog.Logger
}

// NewPeriodicService creates a periodic service.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout
func NewPeriodicService(cfg PeriodicConfig, task Task, logger zerolog.Logger) *PeriodicService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	return &PeriodicService{
		task:   task,
		config: cfg,
		logger: logger.With().Str("service", cfg.Name).Logger(),
	}
}

// Serve implements suture.Service. A disabled service returns
// suture.ErrDoNotRestart straight away.
func (s *PeriodicService) Serve(ctx context.Context) error {
	if s.config.Interval <= 0 {
		s.logger.Info().Msg("schedule disabled")
		return suture.ErrDoNotRestart
	}

	s.logger.Info().
		Dur("interval", s.config.Interval).
		Bool("run_on_start", s.config.RunOnStart).
		Msg("periodic job starting")

	if s.config.RunOnStart {
		s.run(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("periodic job shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *PeriodicService) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	if err := s.task(runCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("periodic job failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("periodic job complete")
}

func (s *PeriodicService) String() string {
	return s.config.Name
}
