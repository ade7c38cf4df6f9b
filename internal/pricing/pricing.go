// Package pricing turns quantities and frozen catalog prices into order totals.
// Intermediates stay float64 and are normalized to integer currency units by
// truncation toward zero, never rounding, so a product that lands just below
// an integer loses the unit.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

// Truncate drops the fractional part of v toward zero.
func Truncate(v float64) int64 {
	return decimal.NewFromFloat(v).IntPart()
}

// times multiplies in float64. The explicit conversion keeps the compiler
// from fusing it into a following add.
func times(a, b float64) float64 {
	return float64(a * b)
}

// ProductSummary prices a product order from its stored items. Discount and
// shipping are applied at checkout, so both are zero here.
func ProductSummary(items []types.ProductOrderItem, currency string) types.OrderPricingSummary {
	subtotal := 0.0
	for _, item := range items {
		subtotal += times(item.Price, float64(item.Qty))
	}
	total := Truncate(subtotal)
	return types.OrderPricingSummary{
		Currency:   currency,
		Subtotal:   total,
		GrandTotal: total,
	}
}

// ServiceLineSubtotal is unit price times qty for one installation service entry.
func ServiceLineSubtotal(unitPrice float64, qty int) float64 {
	return times(unitPrice, float64(qty))
}

type InstallationInput struct {
	Services  []types.InstallationServiceLine
	Package   *types.PackageSnapshot
	PipeGrade *types.PipeGradeSnapshot
	Length    float64
	Qty       int
}

// Installation sums services, package and pipe (price_per_meter * length) into
// total_per_unit and multiplies by qty.
func Installation(in InstallationInput) types.InstallationPricing {
	services := 0.0
	for _, svc := range in.Services {
		services += svc.Subtotal
	}

	pkg := 0.0
	if in.Package != nil {
		pkg = in.Package.BasePrice
	}

	pipe := 0.0
	if in.PipeGrade != nil {
		pipe = times(in.PipeGrade.PricePerMeter, in.Length)
	}

	perUnit := services + pkg + pipe

	return types.InstallationPricing{
		InstallationServicePrice: services,
		InstallationPackagePrice: pkg,
		PipeGradePrice:           pipe,
		TotalPerUnit:             perUnit,
		GrandTotal:               Truncate(times(perUnit, float64(in.Qty))),
	}
}

type CleaningInput struct {
	BasePrice float64
	// Override replaces BasePrice only when the caller explicitly supplied it.
	Override *float64
	Qty      int
}

func Cleaning(in CleaningInput) types.CleaningPricing {
	price := in.BasePrice
	if in.Override != nil {
		price = *in.Override
	}
	return types.CleaningPricing{
		CleaningTypePrice: price,
		TotalPerUnit:      price,
		GrandTotal:        Truncate(times(price, float64(in.Qty))),
	}
}

// Quote prices an installation package preview.
func Quote(basePrice, pricePerMeter, length float64, qty int) types.QuotePricing {
	pipe := times(pricePerMeter, length)
	perUnit := basePrice + pipe
	return types.QuotePricing{
		BasePrice:     basePrice,
		PricePerMeter: pricePerMeter,
		PipePrice:     pipe,
		TotalPerUnit:  perUnit,
		GrandTotal:    Truncate(times(perUnit, float64(qty))),
	}
}

// ProductLineSummary projects a product order summary onto a line item summary.
func ProductLineSummary(s types.OrderPricingSummary) types.PricingSummary {
	return types.NewPricingSummary(s.Subtotal, s.GrandTotal)
}

// ServiceLineSummary projects a service order onto a line item summary:
// subtotal is the per-unit total and grand_total the full amount.
func ServiceLineSummary(totalPerUnit float64, grandTotal int64) types.PricingSummary {
	return types.NewPricingSummary(Truncate(totalPerUnit), grandTotal)
}
