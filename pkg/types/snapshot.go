package types

// Catalog snapshots are frozen into orders at creation time so later catalog
// edits never change historical pricing.

type VariantRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// ProductOrderItem is one stored entry of a product order's item list.
type ProductOrderItem struct {
	ProductID        int64      `json:"product_id"`
	ProductVariantID int64      `json:"product_variant_id"`
	Name             string     `json:"name"`
	SKU              string     `json:"sku"`
	Variant          VariantRef `json:"variant"`
	Brand            *Ref       `json:"brand,omitempty"`
	Price            float64    `json:"price"`
	Qty              int        `json:"qty"`
}

type PackageSnapshot struct {
	ID        int64    `json:"id"`
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	BasePrice float64  `json:"base_price"`
	Length    *float64 `json:"length,omitempty"`
}

type PipeGradeSnapshot struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	ThicknessMM   float64 `json:"thickness_mm"`
	PricePerMeter float64 `json:"price_per_meter"`
	Brand         *Ref    `json:"brand,omitempty"`
}

// InstallationServiceLine is a non-package service entry enriched with server prices.
type InstallationServiceLine struct {
	ID        int64   `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	UnitType  string  `json:"unit_type,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Qty       int     `json:"qty"`
	Subtotal  float64 `json:"subtotal"`
}

type CleaningTypeSnapshot struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"base_price"`
}

// ServiceTypeRef mirrors the {id, name} service type stored on service orders.
type ServiceTypeRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
