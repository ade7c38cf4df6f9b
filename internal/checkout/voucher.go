package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

// Eligible reports whether v may discount a selection worth subtotal at now.
// A quota of zero or less means unlimited.
func Eligible(v *models.Voucher, subtotal int64, now time.Time) bool {
	if v == nil || v.Status != enums.RecordStatusActive {
		return false
	}
	if v.StartAt != nil && now.Before(*v.StartAt) {
		return false
	}
	if v.EndAt != nil && now.After(*v.EndAt) {
		return false
	}
	if v.Quota > 0 && v.Used >= v.Quota {
		return false
	}
	return subtotal >= v.MinPurchase
}

// Discount computes the bounded discount of an eligible voucher. Percent
// vouchers round half away from zero; the result is clamped to max_discount
// when set, then to [0, subtotal].
func Discount(v *models.Voucher, subtotal int64) int64 {
	if v == nil {
		return 0
	}
	var discount int64
	switch v.Type {
	case enums.VoucherTypePercent:
		discount = decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromInt(v.Value)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	case enums.VoucherTypeFixed:
		discount = v.Value
	}
	if v.MaxDiscount > 0 && discount > v.MaxDiscount {
		discount = v.MaxDiscount
	}
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}
