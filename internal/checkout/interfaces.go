package checkout

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
)

// Repository defines the persistence surface of checkouts and vouchers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindVoucherByCode(ctx context.Context, code string) (*models.Voucher, error)
	// RedeemVoucher increments used only while quota allows and reports
	// whether the increment happened.
	RedeemVoucher(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, checkout *models.Checkout) error
	FindByMember(ctx context.Context, memberProfileID, id int64) (*models.Checkout, error)
	ListByMember(ctx context.Context, memberProfileID int64, offset, limit int) ([]models.Checkout, int64, error)
	// FindExpiredWaiting returns checkouts still waiting for payment whose
	// window closed before now.
	FindExpiredWaiting(ctx context.Context, now time.Time, limit int) ([]models.Checkout, error)
	// MarkExpired persists EXPIRED if the row is still waiting.
	MarkExpired(ctx context.Context, id int64) (bool, error)
}
