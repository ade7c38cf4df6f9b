// Package lineitem defines the cart line item, a tagged union over product,
// installation and cleaning orders sharing one pricing summary.
package lineitem

import (
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

// Detail is the type-specific part of a line item. Only the three variants in
// this package implement it.
type Detail interface {
	ItemType() enums.ItemType
	sealed()
}

type ProductOrderRef struct {
	ID               int64  `json:"id"`
	ProductVariantID int64  `json:"product_variant_id"`
	Name             string `json:"name"`
	SKU              string `json:"sku"`
}

type ProductDetail struct {
	ProductOrder ProductOrderRef
}

type PackageRef struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type InstallationDetail struct {
	ServiceType         types.ServiceTypeRef
	InstallationPackage *PackageRef
	PipeGrade           *types.Ref
	InstallationService []types.InstallationServiceLine
	Schedule            types.Schedule
	DetailAddress       types.DetailAddress
}

type CleaningDetail struct {
	ServiceType   types.ServiceTypeRef
	Category      types.Ref
	CleaningType  types.Ref
	UnitCondition []types.Ref
	Schedule      types.Schedule
	DetailAddress types.DetailAddress
}

func (ProductDetail) ItemType() enums.ItemType      { return enums.ItemTypeProduct }
func (InstallationDetail) ItemType() enums.ItemType { return enums.ItemTypeInstallation }
func (CleaningDetail) ItemType() enums.ItemType     { return enums.ItemTypeCleaning }

func (ProductDetail) sealed()      {}
func (InstallationDetail) sealed() {}
func (CleaningDetail) sealed()     {}

// LineItem is one priced entry of a cart.
type LineItem struct {
	OrderID        int64
	Qty            int
	Note           *string
	PricingSummary types.PricingSummary
	Detail         Detail
}

// Type returns the tag derived from the detail variant.
func (l LineItem) Type() enums.ItemType {
	if l.Detail == nil {
		return ""
	}
	return l.Detail.ItemType()
}

// Ref identifies the order this item was built from.
func (l LineItem) Ref() OrderRef {
	return OrderRef{Type: l.Type(), ID: l.OrderID}
}

// wireItem is the flat JSON contract existing clients read.
type wireItem struct {
	ItemType            enums.ItemType                  `json:"item_type"`
	ProductOrderID      *int64                          `json:"product_order_id,omitempty"`
	InstallationOrderID *int64                          `json:"installation_order_id,omitempty"`
	CleaningOrderID     *int64                          `json:"cleaning_order_id,omitempty"`
	ProductOrder        *ProductOrderRef                `json:"product_order,omitempty"`
	ServiceType         *types.ServiceTypeRef           `json:"service_type,omitempty"`
	Category            *types.Ref                      `json:"category,omitempty"`
	CleaningType        *types.Ref                      `json:"cleaning_type,omitempty"`
	UnitCondition       []types.Ref                     `json:"unit_condition,omitempty"`
	InstallationPackage *PackageRef                     `json:"installation_package,omitempty"`
	PipeGrade           *types.Ref                      `json:"pipe_grade,omitempty"`
	InstallationService []types.InstallationServiceLine `json:"installation_service,omitempty"`
	Schedule            *types.Schedule                 `json:"schedule,omitempty"`
	DetailAddress       *types.DetailAddress            `json:"detail_address,omitempty"`
	Qty                 int                             `json:"qty"`
	PricingSummary      types.PricingSummary            `json:"pricing_summary"`
	Note                *string                         `json:"note"`
}

func (l LineItem) MarshalJSON() ([]byte, error) {
	if l.Detail == nil {
		return nil, fmt.Errorf("line item %d has no detail", l.OrderID)
	}
	id := l.OrderID
	w := wireItem{
		ItemType:       l.Type(),
		Qty:            l.Qty,
		PricingSummary: l.PricingSummary,
		Note:           l.Note,
	}
	switch d := l.Detail.(type) {
	case ProductDetail:
		w.ProductOrderID = &id
		ref := d.ProductOrder
		w.ProductOrder = &ref
	case InstallationDetail:
		w.InstallationOrderID = &id
		st, schedule, addr := d.ServiceType, d.Schedule, d.DetailAddress
		w.ServiceType = &st
		w.InstallationPackage = d.InstallationPackage
		w.PipeGrade = d.PipeGrade
		w.InstallationService = d.InstallationService
		w.Schedule = &schedule
		w.DetailAddress = &addr
	case CleaningDetail:
		w.CleaningOrderID = &id
		st, category, cleaningType := d.ServiceType, d.Category, d.CleaningType
		schedule, addr := d.Schedule, d.DetailAddress
		w.ServiceType = &st
		w.Category = &category
		w.CleaningType = &cleaningType
		w.UnitCondition = d.UnitCondition
		w.Schedule = &schedule
		w.DetailAddress = &addr
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts an item only when exactly one order id is present and
// item_type, if sent, agrees with it.
func (l *LineItem) UnmarshalJSON(data []byte) error {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var (
		tag   enums.ItemType
		id    int64
		count int
	)
	if w.ProductOrderID != nil {
		tag, id, count = enums.ItemTypeProduct, *w.ProductOrderID, count+1
	}
	if w.InstallationOrderID != nil {
		tag, id, count = enums.ItemTypeInstallation, *w.InstallationOrderID, count+1
	}
	if w.CleaningOrderID != nil {
		tag, id, count = enums.ItemTypeCleaning, *w.CleaningOrderID, count+1
	}
	if count != 1 {
		return fmt.Errorf("line item must reference exactly one order, found %d", count)
	}
	if w.ItemType != "" && w.ItemType != tag {
		return fmt.Errorf("item_type %q does not match %s", w.ItemType, tag.OrderIDKey())
	}

	item := LineItem{
		OrderID:        id,
		Qty:            w.Qty,
		Note:           w.Note,
		PricingSummary: w.PricingSummary,
	}
	switch tag {
	case enums.ItemTypeProduct:
		d := ProductDetail{}
		if w.ProductOrder != nil {
			d.ProductOrder = *w.ProductOrder
		}
		item.Detail = d
	case enums.ItemTypeInstallation:
		d := InstallationDetail{
			InstallationPackage: w.InstallationPackage,
			PipeGrade:           w.PipeGrade,
			InstallationService: w.InstallationService,
		}
		if w.ServiceType != nil {
			d.ServiceType = *w.ServiceType
		}
		if w.Schedule != nil {
			d.Schedule = *w.Schedule
		}
		if w.DetailAddress != nil {
			d.DetailAddress = *w.DetailAddress
		}
		item.Detail = d
	case enums.ItemTypeCleaning:
		d := CleaningDetail{UnitCondition: w.UnitCondition}
		if w.ServiceType != nil {
			d.ServiceType = *w.ServiceType
		}
		if w.Category != nil {
			d.Category = *w.Category
		}
		if w.CleaningType != nil {
			d.CleaningType = *w.CleaningType
		}
		if w.Schedule != nil {
			d.Schedule = *w.Schedule
		}
		if w.DetailAddress != nil {
			d.DetailAddress = *w.DetailAddress
		}
		item.Detail = d
	}

	*l = item
	return nil
}
