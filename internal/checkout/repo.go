package checkout

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindVoucherByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&voucher).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *repository) RedeemVoucher(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("id = ? AND (quota <= 0 OR used < quota)", id).
		Updates(map[string]any{
			"used":       gorm.Expr("used + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) Create(ctx context.Context, checkout *models.Checkout) error {
	return r.db.WithContext(ctx).Create(checkout).Error
}

func (r *repository) FindByMember(ctx context.Context, memberProfileID, id int64) (*models.Checkout, error) {
	var checkout models.Checkout
	err := r.db.WithContext(ctx).
		Where("id = ? AND member_profile_id = ? AND status <> ?", id, memberProfileID, enums.RecordStatusDeleted).
		First(&checkout).Error
	if err != nil {
		return nil, err
	}
	return &checkout, nil
}

func (r *repository) ListByMember(ctx context.Context, memberProfileID int64, offset, limit int) ([]models.Checkout, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Checkout{}).
		Where("member_profile_id = ? AND status <> ?", memberProfileID, enums.RecordStatusDeleted)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.Checkout
	err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) FindExpiredWaiting(ctx context.Context, now time.Time, limit int) ([]models.Checkout, error) {
	var rows []models.Checkout
	err := r.db.WithContext(ctx).
		Where("payment_status = ? AND expired_at < ?", enums.PaymentStatusWaiting, now).
		Order("expired_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) MarkExpired(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Checkout{}).
		Where("id = ? AND payment_status = ?", id, enums.PaymentStatusWaiting).
		Updates(map[string]any{
			"payment_status": enums.PaymentStatusExpired,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
