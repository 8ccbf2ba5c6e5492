package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/models"
	"github.com/medigrid/ambudispatch/internal/services"
	"github.com/medigrid/ambudispatch/pkg/logger"
)

const (
	defaultNotificationRetention = 30 * 24 * time.Hour
	defaultSpec                  = "@hourly"
)

// Cleaner coordinates background maintenance: pruning read notifications past
// the retention window and removing notification rows whose recipient account
// no longer exists.
type Cleaner struct {
	db            *gorm.DB
	notifications *services.NotificationService
	cron          *cron.Cron
	now           func() time.Time
	log           *zap.Logger
	enabled       bool
	retention     time.Duration
	schedule      string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for retention comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithNotificationRetention adjusts how long read notifications are kept.
func WithNotificationRetention(d time.Duration) Option {
	return func(cleaner *Cleaner) {
		if d > 0 {
			cleaner.retention = d
		}
	}
}

// WithSchedule overrides the cron specification for the cleanup run.
func WithSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.schedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults. A nil dependency
// results in the corresponding cleanup job being skipped.
func NewCleaner(db *gorm.DB, notifications *services.NotificationService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		db:            db,
		notifications: notifications,
		now:           time.Now,
		retention:     defaultNotificationRetention,
		schedule:      defaultSpec,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	cleaner.enabled = cleaner.notifications != nil || cleaner.db != nil

	return cleaner
}

// Start registers the cleanup job with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if !c.enabled {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		if err := c.RunOnce(context.Background()); err != nil {
			c.log.Warn("maintenance run failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all configured cleanup routines sequentially. Used by the
// scheduler, in tests, and during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.notifications != nil && c.retention > 0 {
		cutoff := c.now().Add(-c.retention)
		if removed, err := c.notifications.PruneRead(ctx, cutoff); err != nil {
			errs = multierr.Append(errs, err)
		} else if removed > 0 {
			c.log.Info("pruned read notifications", zap.Int64("removed", removed))
		}
	}

	if c.db != nil {
		if removed, err := CleanupOrphanedNotifications(ctx, c.db); err != nil {
			errs = multierr.Append(errs, err)
		} else if removed > 0 {
			c.log.Info("removed orphaned notifications", zap.Int64("removed", removed))
		}
	}

	return errs
}

// CleanupOrphanedNotifications deletes notification rows whose recipient
// account has been removed.
func CleanupOrphanedNotifications(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, errors.New("cleanup notifications: db is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result := db.WithContext(ctx).
		Where("user_id NOT IN (?)", db.Model(&models.User{}).Select("id")).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
