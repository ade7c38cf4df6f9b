package types

// PricingSummary is the denormalized total carried by every line item.
// Either field may be absent on legacy rows; see Total.
type PricingSummary struct {
	Subtotal   *int64 `json:"subtotal"`
	GrandTotal *int64 `json:"grand_total"`
}

// Total returns grand_total, falling back to subtotal, then zero.
func (p PricingSummary) Total() int64 {
	if p.GrandTotal != nil {
		return *p.GrandTotal
	}
	if p.Subtotal != nil {
		return *p.Subtotal
	}
	return 0
}

// NewPricingSummary builds a summary with both fields set.
func NewPricingSummary(subtotal, grandTotal int64) PricingSummary {
	return PricingSummary{Subtotal: &subtotal, GrandTotal: &grandTotal}
}

// OrderPricingSummary is stored on product orders.
type OrderPricingSummary struct {
	Currency   string `json:"currency"`
	Subtotal   int64  `json:"subtotal"`
	Discount   int64  `json:"discount"`
	Shipping   int64  `json:"shipping"`
	GrandTotal int64  `json:"grand_total"`
}

// InstallationPricing is the per-order breakdown before integer normalization.
type InstallationPricing struct {
	InstallationServicePrice float64 `json:"installation_service_price"`
	InstallationPackagePrice float64 `json:"installation_package_price"`
	PipeGradePrice           float64 `json:"pipe_grade_price"`
	TotalPerUnit             float64 `json:"total_per_unit"`
	GrandTotal               int64   `json:"grand_total"`
}

type CleaningPricing struct {
	CleaningTypePrice float64 `json:"cleaning_type_price"`
	TotalPerUnit      float64 `json:"total_per_unit"`
	GrandTotal        int64   `json:"grand_total"`
}

// QuotePricing is the installation quote breakdown.
type QuotePricing struct {
	BasePrice     float64 `json:"base_price"`
	PricePerMeter float64 `json:"price_per_meter"`
	PipePrice     float64 `json:"pipe_price"`
	TotalPerUnit  float64 `json:"total_per_unit"`
	GrandTotal    int64   `json:"grand_total"`
}

// CheckoutPricing is the checkout-level breakdown.
type CheckoutPricing struct {
	ItemsSubtotal   int64 `json:"items_subtotal"`
	ServiceSubtotal int64 `json:"service_subtotal"`
	ShippingCost    int64 `json:"shipping_cost"`
	Discount        int64 `json:"discount"`
	GrandTotal      int64 `json:"grand_total"`
}
