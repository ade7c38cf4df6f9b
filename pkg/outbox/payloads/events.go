package payloads

import (
	"time"

	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

// CheckoutConfirmedEvent is emitted when a checkout is created from a cart selection.
type CheckoutConfirmedEvent struct {
	CheckoutID      int64               `json:"checkout_id"`
	Reference       string              `json:"reference"`
	MemberProfileID int64               `json:"member_profile_id"`
	GrandTotal      int64               `json:"grand_total"`
	Discount        int64               `json:"discount"`
	VoucherCode     *string             `json:"voucher_code,omitempty"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	ExpiredAt       time.Time           `json:"expired_at"`
}

// CheckoutExpiredEvent is emitted when the expiry job persists EXPIRED.
type CheckoutExpiredEvent struct {
	CheckoutID      int64     `json:"checkout_id"`
	MemberProfileID int64     `json:"member_profile_id"`
	ExpiredAt       time.Time `json:"expired_at"`
	ClosedAt        time.Time `json:"closed_at"`
}

// OrderDeletedEvent reports a soft-deleted order.
type OrderDeletedEvent struct {
	OrderID         int64          `json:"order_id"`
	ItemType        enums.ItemType `json:"item_type"`
	MemberProfileID int64          `json:"member_profile_id"`
}

// VoucherRedeemedEvent reports one successful guarded quota increment.
type VoucherRedeemedEvent struct {
	VoucherID  int64  `json:"voucher_id"`
	Code       string `json:"code"`
	CheckoutID int64  `json:"checkout_id"`
	Discount   int64  `json:"discount"`
}
