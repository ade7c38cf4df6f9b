package checkout

import (
	"time"

	"github.com/angelmondragon/homeservices-backend/internal/lineitem"
	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

type CartSnapshotDTO struct {
	CartID    int64            `json:"cart_id"`
	Selection models.Selection `json:"selection"`
	Items     lineitem.Entries `json:"items"`
}

// CheckoutDTO is a checkout as returned to clients. PaymentStatus is the
// effective status at read time.
type CheckoutDTO struct {
	ID              int64                 `json:"id"`
	Reference       string                `json:"reference"`
	MemberProfileID int64                 `json:"member_profile_id"`
	CartSnapshot    CartSnapshotDTO       `json:"cart_snapshot"`
	Pricing         types.CheckoutPricing `json:"pricing"`
	VoucherCode     *string               `json:"voucher_code"`
	PaymentMethod   enums.PaymentMethod   `json:"payment_method"`
	PaymentDetail   map[string]any        `json:"payment_detail"`
	PaymentStatus   enums.PaymentStatus   `json:"payment_status"`
	ExpiredAt       time.Time             `json:"expired_at"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

func newCheckoutDTO(c *models.Checkout, now time.Time) *CheckoutDTO {
	return &CheckoutDTO{
		ID:              c.ID,
		Reference:       c.Reference.String(),
		MemberProfileID: c.MemberProfileID,
		CartSnapshot: CartSnapshotDTO{
			CartID:    c.CartSnapshot.CartID,
			Selection: c.CartSnapshot.Selection,
			Items:     lineitem.DecodeEntries(c.CartSnapshot.Items),
		},
		Pricing:       c.Pricing,
		VoucherCode:   c.VoucherCode,
		PaymentMethod: c.PaymentMethod,
		PaymentDetail: c.PaymentDetail,
		PaymentStatus: EffectiveStatus(c, now),
		ExpiredAt:     c.ExpiredAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
