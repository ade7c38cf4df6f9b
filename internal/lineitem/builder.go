package lineitem

import (
	"fmt"

	"github.com/angelmondragon/homeservices-backend/internal/catalog"
	"github.com/angelmondragon/homeservices-backend/internal/pricing"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

// Build projects a resolved order into a cart line item. It is a pure
// transform of the frozen order data.
func Build(order catalog.ResolvedOrder) (LineItem, error) {
	switch {
	case order.Product != nil:
		o, item := order.Product.Order, order.Product.Item
		return LineItem{
			OrderID:        o.ID,
			Qty:            item.Qty,
			Note:           o.Note,
			PricingSummary: pricing.ProductLineSummary(o.PricingSummary),
			Detail: ProductDetail{ProductOrder: ProductOrderRef{
				ID:               o.ID,
				ProductVariantID: item.ProductVariantID,
				Name:             item.Name,
				SKU:              item.SKU,
			}},
		}, nil
	case order.Installation != nil:
		o := order.Installation
		detail := InstallationDetail{
			ServiceType:         o.Detail.ServiceType,
			InstallationService: o.Detail.InstallationService,
			Schedule:            o.Schedule,
			DetailAddress:       o.DetailAddress,
		}
		if pkg := o.Detail.InstallationPackage; pkg != nil {
			detail.InstallationPackage = &PackageRef{ID: pkg.ID, Code: pkg.Code, Name: pkg.Name}
		}
		if grade := o.Detail.PipeGrade; grade != nil {
			detail.PipeGrade = &types.Ref{ID: grade.ID, Name: grade.Name}
		}
		return LineItem{
			OrderID:        o.ID,
			Qty:            o.Qty,
			Note:           o.Note,
			PricingSummary: pricing.ServiceLineSummary(o.Pricing.TotalPerUnit, o.Pricing.GrandTotal),
			Detail:         detail,
		}, nil
	case order.Cleaning != nil:
		o := order.Cleaning
		return LineItem{
			OrderID:        o.ID,
			Qty:            o.Qty,
			Note:           o.Note,
			PricingSummary: pricing.ServiceLineSummary(o.Pricing.TotalPerUnit, o.Pricing.GrandTotal),
			Detail: CleaningDetail{
				ServiceType:   o.Detail.ServiceType,
				Category:      o.Detail.Category,
				CleaningType:  types.Ref{ID: o.Detail.CleaningType.ID, Name: o.Detail.CleaningType.Name},
				UnitCondition: o.Detail.UnitCondition,
				Schedule:      o.Schedule,
				DetailAddress: o.DetailAddress,
			},
		}, nil
	default:
		return LineItem{}, fmt.Errorf("resolved order is empty")
	}
}
