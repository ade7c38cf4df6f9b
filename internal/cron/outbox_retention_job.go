package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/pkg/logger"
	"github.com/angelmondragon/homeservices-backend/pkg/metrics"
)

const (
	outboxRetentionJobName = "outbox-retention"
	outboxRetentionDays    = 30
	outboxMinAttempts      = 5
	outboxRetentionEvery   = 6 * time.Hour
	outboxRetentionBatch   = 1000
	// outboxRetentionMaxPasses caps one run; leftovers wait for the next.
	outboxRetentionMaxPasses = 50
)

type OutboxRetentionJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Repository  outboxRetentionRepo
	Metrics     *metrics.CronJobMetrics
	Retention   int
	MinAttempts int
	// Every spaces runs out; zero means every six hours.
	Every time.Duration
	// BatchSize bounds the rows one delete touches.
	BatchSize int
}

type outboxRetentionRepo interface {
	DeletePublishedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time, minAttemptCount, limit int) (int64, error)
}

// outboxRetentionJob prunes relayed and parked outbox rows in short
// transactions so the table is never locked for long.
type outboxRetentionJob struct {
	logg        *logger.Logger
	db          txRunner
	repo        outboxRetentionRepo
	metrics     *metrics.CronJobMetrics
	retention   time.Duration
	minAttempts int
	batchSize   int
	every       time.Duration
	now         func() time.Time
}

func NewOutboxRetentionJob(params OutboxRetentionJobParams) (Job, error) {
	switch {
	case params.Logger == nil:
		return nil, errors.New("logger required")
	case params.DB == nil:
		return nil, errors.New("db runner required")
	case params.Repository == nil:
		return nil, errors.New("outbox repository required")
	}
	orDefault := func(v, fallback int) int {
		if v <= 0 {
			return fallback
		}
		return v
	}
	every := params.Every
	if every <= 0 {
		every = outboxRetentionEvery
	}
	return &outboxRetentionJob{
		logg:        params.Logger,
		db:          params.DB,
		repo:        params.Repository,
		metrics:     params.Metrics,
		retention:   time.Duration(orDefault(params.Retention, outboxRetentionDays)) * 24 * time.Hour,
		minAttempts: orDefault(params.MinAttempts, outboxMinAttempts),
		batchSize:   orDefault(params.BatchSize, outboxRetentionBatch),
		every:       every,
		now:         time.Now,
	}, nil
}

func (j *outboxRetentionJob) Name() string { return outboxRetentionJobName }

func (j *outboxRetentionJob) Every() time.Duration { return j.every }

func (j *outboxRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	var total int64
	passes := 0
	for ; passes < outboxRetentionMaxPasses; passes++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		var deleted int64
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			n, err := j.repo.DeletePublishedBefore(ctx, tx, cutoff, j.minAttempts, j.batchSize)
			deleted = n
			return err
		})
		if err != nil {
			return fmt.Errorf("outbox retention: %w", err)
		}
		total += deleted
		if deleted < int64(j.batchSize) {
			passes++
			break
		}
	}

	j.metrics.AddProcessed(j.Name(), int(total))
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"min_attempts": j.minAttempts,
		"passes":       passes,
		"rows_deleted": total,
	}), "outbox retention cleanup complete")
	return nil
}
