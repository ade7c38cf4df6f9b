package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/internal/checkout"
	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
	"github.com/angelmondragon/homeservices-backend/pkg/metrics"
	"github.com/angelmondragon/homeservices-backend/pkg/outbox"
	"github.com/angelmondragon/homeservices-backend/pkg/outbox/payloads"
)

const (
	checkoutExpiryJobName    = "checkout-expiry"
	defaultCheckoutBatchSize = 200
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// CheckoutExpiryJobParams configure the job that persists EXPIRED.
type CheckoutExpiryJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository checkout.Repository
	Outbox     outboxEmitter
	Metrics    *metrics.CronJobMetrics
	BatchSize  int
}

// NewCheckoutExpiryJob builds the job that closes checkouts whose payment
// window has passed. Reads already report EXPIRED lazily; this makes it durable.
func NewCheckoutExpiryJob(params CheckoutExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultCheckoutBatchSize
	}
	return &checkoutExpiryJob{
		logg:    params.Logger,
		db:      params.DB,
		repo:    params.Repository,
		outbox:  params.Outbox,
		metrics: params.Metrics,
		batch:   batch,
		now:     time.Now,
	}, nil
}

type checkoutExpiryJob struct {
	logg    *logger.Logger
	db      txRunner
	repo    checkout.Repository
	outbox  outboxEmitter
	metrics *metrics.CronJobMetrics
	batch   int
	now     func() time.Time
}

func (j *checkoutExpiryJob) Name() string { return checkoutExpiryJobName }

// Run expires one batch. A failing row is reported but does not stop the rest.
func (j *checkoutExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	rows, err := j.repo.FindExpiredWaiting(ctx, now, j.batch)
	if err != nil {
		return fmt.Errorf("query expired checkouts: %w", err)
	}

	var (
		errs    error
		expired int
	)
	for i := range rows {
		changed, err := j.expire(ctx, &rows[i], now)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("checkout %d: %w", rows[i].ID, err))
			continue
		}
		if changed {
			expired++
		}
	}
	j.metrics.AddProcessed(j.Name(), expired)

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"candidates": len(rows),
		"expired":    expired,
		"failed":     len(multierr.Errors(errs)),
	}), "checkout expiry loop complete")
	return errs
}

func (j *checkoutExpiryJob) expire(ctx context.Context, row *models.Checkout, now time.Time) (bool, error) {
	var changed bool
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		ok, err := j.repo.WithTx(tx).MarkExpired(ctx, row.ID)
		if err != nil {
			return err
		}
		if !ok {
			// paid or expired since the scan
			return nil
		}
		changed = true
		return j.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCheckoutExpired,
			AggregateType: enums.AggregateCheckout,
			AggregateID:   row.ID,
			OccurredAt:    now,
			Actor:         &outbox.ActorRef{System: checkoutExpiryJobName},
			Data: payloads.CheckoutExpiredEvent{
				CheckoutID:      row.ID,
				MemberProfileID: row.MemberProfileID,
				ExpiredAt:       row.ExpiredAt,
				ClosedAt:        now,
			},
		})
	})
	return changed, err
}
