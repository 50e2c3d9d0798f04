package scheduler

import (
	"context"
	"errors"

	"logvault/config"
	"logvault/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// NewScheduler wires the recurring aggregation run. The cron spec carries a
// seconds field, so the default "0 0 * * * *" fires at the top of every hour.
func NewScheduler(lc fx.Lifecycle, cfg *config.Config, aggregationSvc service.AggregationService) *cron.Cron {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.DowOptional | cron.Descriptor)
	c := cron.New(cron.WithParser(parser))

	schedule := cfg.Aggregator.Schedule
	if schedule == "" {
		log.Info().Msg("No aggregation schedule configured; scheduler disabled")
		return c
	}

	_, err := c.AddFunc(schedule, func() {
		_, err := aggregationSvc.RunAggregation(aggregationSvc.DefaultRequest())
		if err != nil {
			if errors.Is(err, service.ErrRunInProgress) {
				log.Warn().Msg("Scheduled aggregation skipped: previous run still in progress")
				return
			}
			log.Error().Err(err).Msg("Error during scheduled aggregation run")
		}
	})

	if err != nil {
		log.Fatal().Err(err).Str("schedule", schedule).Msg("Failed to add cron job")
		return nil
	}
	log.Info().Str("schedule", schedule).Msg("Scheduled aggregation job")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msg("Starting cron scheduler")
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping cron scheduler...")
			stopCtx := c.Stop()
			select {
			case <-stopCtx.Done():
				log.Info().Msg("Cron scheduler stopped gracefully.")
				return nil
			case <-ctx.Done():
				log.Error().Msg("Context cancelled while waiting for cron scheduler to stop.")
				return ctx.Err()
			}
		},
	})

	return c
}
