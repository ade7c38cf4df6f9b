package checkout

import (
	"time"

	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

// EffectiveStatus reports EXPIRED for a checkout still waiting past its
// expiry. The stored row is left untouched.
func EffectiveStatus(c *models.Checkout, now time.Time) enums.PaymentStatus {
	if c.PaymentStatus == enums.PaymentStatusWaiting && now.After(c.ExpiredAt) {
		return enums.PaymentStatusExpired
	}
	return c.PaymentStatus
}

// PaymentView is the payment state returned by the detail and check endpoints.
type PaymentView struct {
	CheckoutID    int64               `json:"checkout_id"`
	Reference     string              `json:"reference"`
	Status        enums.PaymentStatus `json:"status"`
	ExpiredAt     time.Time           `json:"expired_at"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	PaymentDetail map[string]any      `json:"payment_detail"`
	GrandTotal    int64               `json:"grand_total"`
	CreatedAt     time.Time           `json:"created_at"`
}

func newPaymentView(c *models.Checkout, now time.Time) *PaymentView {
	return &PaymentView{
		CheckoutID:    c.ID,
		Reference:     c.Reference.String(),
		Status:        EffectiveStatus(c, now),
		ExpiredAt:     c.ExpiredAt,
		PaymentMethod: c.PaymentMethod,
		PaymentDetail: c.PaymentDetail,
		GrandTotal:    c.Pricing.GrandTotal,
		CreatedAt:     c.CreatedAt,
	}
}
