package checkout

import (
	"time"

	"github.com/angelmondragon/homeservices-backend/internal/lineitem"
	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

// ItemsSubtotal sums grand_total, or subtotal where grand_total is absent.
func ItemsSubtotal(items []lineitem.LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.PricingSummary.Total()
	}
	return total
}

// Summarize prices a selection. An ineligible or missing voucher yields a
// zero discount, never an error.
func Summarize(items []lineitem.LineItem, voucher *models.Voucher, shipping int64, now time.Time) types.CheckoutPricing {
	subtotal := ItemsSubtotal(items)
	var discount int64
	if Eligible(voucher, subtotal, now) {
		discount = Discount(voucher, subtotal)
	}
	return price(subtotal, shipping, discount)
}

func price(subtotal, shipping, discount int64) types.CheckoutPricing {
	return types.CheckoutPricing{
		ItemsSubtotal:   subtotal,
		ServiceSubtotal: 0,
		ShippingCost:    shipping,
		Discount:        discount,
		GrandTotal:      subtotal + shipping - discount,
	}
}
