// Package catalog resolves ids into frozen, priced snapshots of catalog rows
// and member-owned orders. Client-supplied prices never reach a snapshot.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/internal/pricing"
	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

// Resolver turns ids into snapshots.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// ResolvedProduct is a product order with its canonical priced item.
type ResolvedProduct struct {
	Order models.ProductOrder
	Item  types.ProductOrderItem
}

// ResolvedOrder holds exactly one of the three order kinds.
type ResolvedOrder struct {
	Product      *ResolvedProduct
	Installation *models.InstallationOrder
	Cleaning     *models.CleaningOrder
}

// ResolveOrder loads an ACTIVE order owned by the member.
func (r *Resolver) ResolveOrder(ctx context.Context, memberProfileID int64, itemType enums.ItemType, id int64) (ResolvedOrder, error) {
	if id <= 0 {
		return ResolvedOrder{}, pkgerrors.Field(itemType.OrderIDKey(), "must be a positive integer")
	}
	switch itemType {
	case enums.ItemTypeProduct:
		order, err := r.store.FindProductOrder(ctx, memberProfileID, id)
		if err != nil {
			return ResolvedOrder{}, lookupError(err, "product_order", id)
		}
		if len(order.Items) == 0 {
			return ResolvedOrder{}, pkgerrors.New(pkgerrors.CodeNotFound, "product order item not found").
				WithDetails(map[string]any{"entity": "product_order_item", "product_order_id": id})
		}
		return ResolvedOrder{Product: &ResolvedProduct{Order: *order, Item: order.Items[0]}}, nil
	case enums.ItemTypeInstallation:
		order, err := r.store.FindInstallationOrder(ctx, memberProfileID, id)
		if err != nil {
			return ResolvedOrder{}, lookupError(err, "installation_order", id)
		}
		return ResolvedOrder{Installation: order}, nil
	case enums.ItemTypeCleaning:
		order, err := r.store.FindCleaningOrder(ctx, memberProfileID, id)
		if err != nil {
			return ResolvedOrder{}, lookupError(err, "cleaning_order", id)
		}
		return ResolvedOrder{Cleaning: order}, nil
	default:
		return ResolvedOrder{}, pkgerrors.Field("item_type", fmt.Sprintf("unsupported item type %q", itemType))
	}
}

// ProductItem freezes a variant into the stored item of a product order.
func (r *Resolver) ProductItem(ctx context.Context, variantID int64, qty int) (types.ProductOrderItem, error) {
	variant, err := r.store.FindProductVariant(ctx, variantID)
	if err != nil {
		return types.ProductOrderItem{}, lookupError(err, "product_variant", variantID)
	}
	item := types.ProductOrderItem{
		ProductID:        variant.ProductID,
		ProductVariantID: variant.ID,
		Name:             variant.Name,
		SKU:              variant.SKU,
		Variant:          types.VariantRef{ID: variant.ID, Name: variant.Name, SKU: variant.SKU},
		Price:            variant.Price.InexactFloat64(),
		Qty:              qty,
	}
	if variant.Product != nil {
		item.Name = variant.Product.Name
		item.Brand = brandRef(variant.Product.Brand)
	}
	return item, nil
}

// Package is a package snapshot plus the descriptive fields shown on quotes.
type Package struct {
	types.PackageSnapshot
	Description   string   `json:"description,omitempty"`
	IncludedItems []string `json:"included_items,omitempty"`
}

func (r *Resolver) Package(ctx context.Context, id int64) (Package, error) {
	pkg, err := r.store.FindInstallationPackage(ctx, id)
	if err != nil {
		return Package{}, lookupError(err, "installation_package", id)
	}
	return packageSnapshot(pkg), nil
}

func (r *Resolver) PackageByCode(ctx context.Context, code string) (Package, error) {
	pkg, err := r.store.FindInstallationPackageByCode(ctx, code)
	if err != nil {
		return Package{}, lookupError(err, "installation_package", code)
	}
	return packageSnapshot(pkg), nil
}

func packageSnapshot(pkg *models.InstallationPackage) Package {
	return Package{
		PackageSnapshot: types.PackageSnapshot{
			ID:        pkg.ID,
			Code:      pkg.Code,
			Name:      pkg.Name,
			BasePrice: pkg.PackagePrice.InexactFloat64(),
			Length:    pkg.Length,
		},
		Description:   pkg.Description,
		IncludedItems: pkg.IncludedItems,
	}
}

func (r *Resolver) PipeGrade(ctx context.Context, id int64) (types.PipeGradeSnapshot, error) {
	grade, err := r.store.FindPipeGrade(ctx, id)
	if err != nil {
		return types.PipeGradeSnapshot{}, lookupError(err, "pipe_grade", id)
	}
	return types.PipeGradeSnapshot{
		ID:            grade.ID,
		Name:          grade.Name,
		ThicknessMM:   grade.ThicknessMM,
		PricePerMeter: grade.PricePerMeter.InexactFloat64(),
		Brand:         brandRef(grade.Brand),
	}, nil
}

// ServiceRequest is one client-sent installation service entry. Pointers
// distinguish a missing field from a zero value.
type ServiceRequest struct {
	ID  *int64 `json:"id"`
	Qty *int   `json:"qty"`
}

// InstallationServices validates every entry before touching the store, then
// prices each from the catalog.
func (r *Resolver) InstallationServices(ctx context.Context, reqs []ServiceRequest) ([]types.InstallationServiceLine, error) {
	ids := make([]int64, 0, len(reqs))
	for i, req := range reqs {
		field := fmt.Sprintf("installation_service[%d]", i)
		if req.ID == nil || *req.ID <= 0 {
			return nil, pkgerrors.Field(field+".id", "is required")
		}
		if req.Qty == nil || *req.Qty <= 0 {
			return nil, pkgerrors.Field(field+".qty", "must be greater than zero")
		}
		ids = append(ids, *req.ID)
	}

	rows, err := r.store.FindInstallationServices(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load installation services")
	}
	byID := make(map[int64]models.InstallationService, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	lines := make([]types.InstallationServiceLine, 0, len(reqs))
	for _, req := range reqs {
		svc, ok := byID[*req.ID]
		if !ok {
			return nil, notFound("installation_service", *req.ID)
		}
		unit := svc.BasePrice.InexactFloat64()
		lines = append(lines, types.InstallationServiceLine{
			ID:        svc.ID,
			Code:      svc.Code,
			Name:      svc.Name,
			UnitType:  svc.UnitType,
			UnitPrice: unit,
			Qty:       *req.Qty,
			Subtotal:  pricing.ServiceLineSubtotal(unit, *req.Qty),
		})
	}
	return lines, nil
}

// InstallationRequest carries the catalog references of an installation order.
type InstallationRequest struct {
	ServiceType enums.ServiceType
	PackageID   *int64
	PipeGradeID *int64
	Services    []ServiceRequest
}

// Installation resolves the snapshot for an installation order. PACKAGE needs
// a package and a pipe grade, NON_PACKAGE at least one service. Optional
// references supplied beyond that are resolved too.
func (r *Resolver) Installation(ctx context.Context, req InstallationRequest) (models.InstallationDetail, error) {
	detail := models.InstallationDetail{
		ServiceType: types.ServiceTypeRef{ID: int(req.ServiceType), Name: req.ServiceType.Name()},
	}
	switch req.ServiceType {
	case enums.ServiceTypePackage:
		if req.PackageID == nil || *req.PackageID <= 0 {
			return detail, pkgerrors.Field("installation_package_id", "is required for PACKAGE")
		}
		if req.PipeGradeID == nil || *req.PipeGradeID <= 0 {
			return detail, pkgerrors.Field("pipe_grade_id", "is required for PACKAGE")
		}
	case enums.ServiceTypeNonPackage:
		if len(req.Services) == 0 {
			return detail, pkgerrors.Field("installation_service", "at least one service is required for NON_PACKAGE")
		}
	default:
		return detail, pkgerrors.Field("service_type", "must be PACKAGE or NON_PACKAGE")
	}

	if len(req.Services) > 0 {
		lines, err := r.InstallationServices(ctx, req.Services)
		if err != nil {
			return detail, err
		}
		detail.InstallationService = lines
	}
	if req.PackageID != nil && *req.PackageID > 0 {
		pkg, err := r.Package(ctx, *req.PackageID)
		if err != nil {
			return detail, err
		}
		snap := pkg.PackageSnapshot
		detail.InstallationPackage = &snap
	}
	if req.PipeGradeID != nil && *req.PipeGradeID > 0 {
		grade, err := r.PipeGrade(ctx, *req.PipeGradeID)
		if err != nil {
			return detail, err
		}
		detail.PipeGrade = &grade
	}
	return detail, nil
}

// CleaningType resolves the cleaning type and its category.
func (r *Resolver) CleaningType(ctx context.Context, id int64) (types.CleaningTypeSnapshot, types.Ref, error) {
	ct, err := r.store.FindCleaningType(ctx, id)
	if err != nil {
		return types.CleaningTypeSnapshot{}, types.Ref{}, lookupError(err, "cleaning_type", id)
	}
	snap := types.CleaningTypeSnapshot{
		ID:        ct.ID,
		Name:      ct.Name,
		BasePrice: ct.BasePrice.InexactFloat64(),
	}
	var category types.Ref
	if ct.CategoryID != nil {
		row, err := r.store.FindCleaningCategory(ctx, *ct.CategoryID)
		if err != nil {
			return types.CleaningTypeSnapshot{}, types.Ref{}, lookupError(err, "cleaning_category", *ct.CategoryID)
		}
		category = types.Ref{ID: row.ID, Name: row.Name}
	}
	return snap, category, nil
}

// CleaningCategory resolves a category sent explicitly by the client.
func (r *Resolver) CleaningCategory(ctx context.Context, id int64) (types.Ref, error) {
	row, err := r.store.FindCleaningCategory(ctx, id)
	if err != nil {
		return types.Ref{}, lookupError(err, "cleaning_category", id)
	}
	return types.Ref{ID: row.ID, Name: row.Name}, nil
}

// UnitConditions resolves ids in request order; duplicates are kept once.
func (r *Resolver) UnitConditions(ctx context.Context, ids []int64) ([]types.Ref, error) {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for i, id := range ids {
		if id <= 0 {
			return nil, pkgerrors.Field(fmt.Sprintf("unit_condition[%d]", i), "must be a positive integer")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	rows, err := r.store.FindUnitConditions(ctx, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load unit conditions")
	}
	byID := make(map[int64]string, len(rows))
	for _, row := range rows {
		byID[row.ID] = row.Name
	}
	out := make([]types.Ref, 0, len(unique))
	for _, id := range unique {
		name, ok := byID[id]
		if !ok {
			return nil, notFound("unit_condition", id)
		}
		out = append(out, types.Ref{ID: id, Name: name})
	}
	return out, nil
}

func brandRef(b *models.Brand) *types.Ref {
	if b == nil {
		return nil
	}
	return &types.Ref{ID: b.ID, Name: b.Name}
}

func notFound(entity string, id any) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, entity+" not found").
		WithDetails(map[string]any{"entity": entity, "id": id})
}

func lookupError(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, id)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load "+entity)
}
