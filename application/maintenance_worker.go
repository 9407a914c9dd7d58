package application

import (
	"context"
	"fmt"
	"time"

	"gemwheel/config"
	"gemwheel/domain/interfaces"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// effectRetention is how long an expired effect is kept before it is purged
const effectRetention = 24 * time.Hour

// MaintenanceWorker runs the periodic trade expiry sweep and effect purge
type MaintenanceWorker struct {
	runner
	interval time.Duration
	now      func() time.Time
}

// NewMaintenanceWorker creates a worker that runs every interval
func NewMaintenanceWorker(uowFactory interfaces.UnitOfWorkFactory, economy *config.Economy, rng interfaces.RandomSource, interval time.Duration) *MaintenanceWorker {
	return &MaintenanceWorker{
		runner:   runner{uowFactory: uowFactory, economy: economy, rng: rng},
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start schedules the jobs and returns a stop function
func (w *MaintenanceWorker) Start(ctx context.Context) (func(), error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			if _, err := w.ExpireTrades(ctx); err != nil {
				log.WithError(err).Error("Trade expiry sweep failed")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("trade-expiry"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule trade expiry: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			if _, err := w.PurgeEffects(ctx); err != nil {
				log.WithError(err).Error("Effect purge failed")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("effect-purge"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule effect purge: %w", err)
	}

	scheduler.Start()
	log.WithField("interval", w.interval).Info("Maintenance worker started")

	return func() {
		if err := scheduler.Shutdown(); err != nil {
			log.WithError(err).Warn("Maintenance scheduler shutdown failed")
		}
		log.Info("Maintenance worker stopped")
	}, nil
}

// ExpireTrades flips every overdue pending trade to EXPIRED
func (w *MaintenanceWorker) ExpireTrades(ctx context.Context) (int, error) {
	count, err := inUnitOfWork(ctx, w.runner, "trade", "ExpireStaleTrades", func(svc *domainServices) (int, error) {
		return svc.trades.ExpireStaleTrades(ctx, w.now())
	})
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.WithField("expired", count).Info("Expired stale trades")
	}
	return count, nil
}

// PurgeEffects deletes effects that lapsed more than a day ago
func (w *MaintenanceWorker) PurgeEffects(ctx context.Context) (int64, error) {
	cutoff := w.now().Add(-effectRetention)
	purged, err := inUnitOfWork(ctx, w.runner, "effect", "PurgeExpired", func(svc *domainServices) (int64, error) {
		return svc.effects.PurgeExpired(ctx, cutoff)
	})
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{
		"purged": purged,
		"cutoff": cutoff,
	}).Debug("Purged expired effects")
	return purged, nil
}
