package orders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/internal/catalog"
	"github.com/angelmondragon/homeservices-backend/internal/lineitem"
	"github.com/angelmondragon/homeservices-backend/internal/pricing"
	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
	"github.com/angelmondragon/homeservices-backend/pkg/outbox"
	"github.com/angelmondragon/homeservices-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/homeservices-backend/pkg/pagination"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type catalogResolver interface {
	ProductItem(ctx context.Context, variantID int64, qty int) (types.ProductOrderItem, error)
	Installation(ctx context.Context, req catalog.InstallationRequest) (models.InstallationDetail, error)
	CleaningType(ctx context.Context, id int64) (types.CleaningTypeSnapshot, types.Ref, error)
	CleaningCategory(ctx context.Context, id int64) (types.Ref, error)
	UnitConditions(ctx context.Context, ids []int64) ([]types.Ref, error)
}

// cartEvictor strips deleted orders from the member's open cart.
type cartEvictor interface {
	EvictOrders(ctx context.Context, tx *gorm.DB, memberProfileID int64, refs lineitem.RefSet) error
}

// Service manages a member's product, installation and cleaning orders.
type Service interface {
	CreateProductOrder(ctx context.Context, memberProfileID int64, input ProductOrderInput) (*ProductOrderDTO, error)
	UpdateProductOrder(ctx context.Context, memberProfileID, id int64, input ProductOrderInput) (*ProductOrderDTO, error)
	GetProductOrder(ctx context.Context, memberProfileID, id int64) (*ProductOrderDTO, error)
	ListProductOrders(ctx context.Context, memberProfileID int64, params pagination.Params) (types.Page[ProductOrderDTO], error)

	CreateInstallationOrder(ctx context.Context, memberProfileID int64, input InstallationOrderInput) (*InstallationOrderDTO, error)
	UpdateInstallationOrder(ctx context.Context, memberProfileID, id int64, input InstallationOrderInput) (*InstallationOrderDTO, error)
	GetInstallationOrder(ctx context.Context, memberProfileID, id int64) (*InstallationOrderDTO, error)
	ListInstallationOrders(ctx context.Context, memberProfileID int64, params pagination.Params) (types.Page[InstallationOrderDTO], error)

	CreateCleaningOrder(ctx context.Context, memberProfileID int64, input CleaningOrderInput) (*CleaningOrderDTO, error)
	UpdateCleaningOrder(ctx context.Context, memberProfileID, id int64, input CleaningOrderInput) (*CleaningOrderDTO, error)
	GetCleaningOrder(ctx context.Context, memberProfileID, id int64) (*CleaningOrderDTO, error)
	ListCleaningOrders(ctx context.Context, memberProfileID int64, params pagination.Params) (types.Page[CleaningOrderDTO], error)

	// DeleteOrder soft-deletes an order and evicts it from the cart atomically.
	DeleteOrder(ctx context.Context, memberProfileID int64, itemType enums.ItemType, id int64) error
}

type service struct {
	repo      Repository
	catalog   catalogResolver
	carts     cartEvictor
	tx        txRunner
	outbox    outboxPublisher
	addresses *AddressValidator
	currency  string
	logg      *logger.Logger
}

// NewService builds the orders service with the required dependencies.
func NewService(
	repo Repository,
	resolver catalogResolver,
	carts cartEvictor,
	tx txRunner,
	publisher outboxPublisher,
	addresses *AddressValidator,
	currency string,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart evictor required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address validator required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:      repo,
		catalog:   resolver,
		carts:     carts,
		tx:        tx,
		outbox:    publisher,
		addresses: addresses,
		currency:  currency,
		logg:      logg,
	}, nil
}

func (s *service) CreateProductOrder(ctx context.Context, memberProfileID int64, input ProductOrderInput) (*ProductOrderDTO, error) {
	order := &models.ProductOrder{MemberProfileID: memberProfileID, Status: enums.RecordStatusActive}
	if err := s.fillProductOrder(ctx, order, input); err != nil {
		return nil, err
	}
	if err := s.repo.CreateProductOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product order")
	}
	s.logCreated(ctx, enums.ItemTypeProduct, order.ID)
	dto := newProductOrderDTO(order)
	return &dto, nil
}

func (s *service) UpdateProductOrder(ctx context.Context, memberProfileID, id int64, input ProductOrderInput) (*ProductOrderDTO, error) {
	order, err := s.repo.FindProductOrder(ctx, memberProfileID, id)
	if err != nil {
		return nil, lookupError(err, "product_order", id)
	}
	if err := s.fillProductOrder(ctx, order, input); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product order")
	}
	dto := newProductOrderDTO(order)
	return &dto, nil
}

func (s *service) fillProductOrder(ctx context.Context, order *models.ProductOrder, input ProductOrderInput) error {
	if input.ProductVariantID <= 0 {
		return pkgerrors.Field("product_variant_id", "is required")
	}
	if input.Qty < 1 {
		return pkgerrors.Field("qty", "must be at least 1")
	}
	item, err := s.catalog.ProductItem(ctx, input.ProductVariantID, input.Qty)
	if err != nil {
		return err
	}
	order.ProductVariantID = input.ProductVariantID
	order.Items = []types.ProductOrderItem{item}
	order.PricingSummary = pricing.ProductSummary(order.Items, s.currency)
	order.Note = input.Note
	return nil
}

func (s *service) GetProductOrder(ctx context.Context, memberProfileID, id int64) (*ProductOrderDTO, error) {
	order, err := s.repo.FindProductOrder(ctx, memberProfileID, id)
	if err != nil {
		return nil, lookupError(err, "product_order", id)
	}
	dto := newProductOrderDTO(order)
	return &dto, nil
}

func (s *service) ListProductOrders(ctx context.Context, memberProfileID int64, params pagination.Params) (types.Page[ProductOrderDTO], error) {
	rows, total, err := s.repo.ListProductOrders(ctx, memberProfileID, params.Offset(), params.PageSize)
	if err != nil {
		return types.Page[ProductOrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list product orders")
	}
	items := make([]ProductOrderDTO, 0, len(rows))
	for i := range rows {
		items = append(items, newProductOrderDTO(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) CreateInstallationOrder(ctx context.Context, memberProfileID int64, input InstallationOrderInput) (*InstallationOrderDTO, error) {
	order := &models.InstallationOrder{MemberProfileID: memberProfileID, Status: enums.RecordStatusActive}
	if err := s.fillInstallationOrder(ctx, order, input); err != nil {
		return nil, err
	}
	if err := s.repo.CreateInstallationOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create installation order")
	}
	s.logCreated(ctx, enums.ItemTypeInstallation, order.ID)
	dto := newInstallationOrderDTO(order)
	return &dto, nil
}

func (s *service) UpdateInstallationOrder(ctx context.Context, memberProfileID, id int64, input InstallationOrderInput) (*InstallationOrderDTO, error) {
	order, err := s.repo.FindInstallationOrder(ctx, memberProfileID, id)
	if err != nil {
		return nil, lookupError(err, "installation_order", id)
	}
	if err := s.fillInstallationOrder(ctx, order, input); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update installation order")
	}
	dto := newInstallationOrderDTO(order)
	return &dto, nil
}

func (s *service) fillInstallationOrder(ctx context.Context, order *models.InstallationOrder, input InstallationOrderInput) error {
	if !input.ServiceType.IsInstallation() {
		return pkgerrors.Field("service_type", "must be PACKAGE or NON_PACKAGE")
	}
	if input.Qty < 1 {
		return pkgerrors.Field("qty", "must be at least 1")
	}
	if input.Length < 0 {
		return pkgerrors.Field("length", "must not be negative")
	}
	schedule, err := ParseSchedule(input.Schedule)
	if err != nil {
		return err
	}
	address, err := s.addresses.Validate(input.DetailAddress)
	if err != nil {
		return err
	}
	detail, err := s.catalog.Installation(ctx, catalog.InstallationRequest{
		ServiceType: input.ServiceType,
		PackageID:   input.InstallationPackageID,
		PipeGradeID: input.PipeGradeID,
		Services:    input.InstallationService,
	})
	if err != nil {
		return err
	}

	length := input.Length
	if length == 0 && detail.InstallationPackage != nil && detail.InstallationPackage.Length != nil {
		length = *detail.InstallationPackage.Length
	}

	order.ServiceType = input.ServiceType
	order.InstallationPackageID = refID(detail.InstallationPackage != nil, input.InstallationPackageID)
	order.PipeGradeID = refID(detail.PipeGrade != nil, input.PipeGradeID)
	order.Length = length
	order.Qty = input.Qty
	order.Schedule = schedule
	order.DetailAddress = address
	order.Detail = detail
	order.Pricing = pricing.Installation(pricing.InstallationInput{
		Services:  detail.InstallationService,
		Package:   detail.InstallationPackage,
		PipeGrade: detail.PipeGrade,
		Length:    length,
		Qty:       input.Qty,
	})
	order.Note = input.Note
	return nil
}

func (s *service) GetInstallationOrder(ctx context.Context, memberProfileID, id int64) (*InstallationOrderDTO, error) {
	order, err := s.repo.FindInstallationOrder(ctx, memberProfileID, id)
	if err != nil {
		return nil, lookupError(err, "installation_order", id)
	}
	dto := newInstallationOrderDTO(order)
	return &dto, nil
}

func (s *service) ListInstallationOrders(ctx context.Context, memberProfileID int64, params pagination.Params) (types.Page[InstallationOrderDTO], error) {
	rows, total, err := s.repo.ListInstallationOrders(ctx, memberProfileID, params.Offset(), params.PageSize)
	if err != nil {
		return types.Page[InstallationOrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list installation orders")
	}
	items := make([]InstallationOrderDTO, 0, len(rows))
	for i := range rows {
		items = append(items, newInstallationOrderDTO(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) CreateCleaningOrder(ctx context.Context, memberProfileID int64, input CleaningOrderInput) (*CleaningOrderDTO, error) {
	order := &models.CleaningOrder{MemberProfileID: memberProfileID, Status: enums.RecordStatusActive}
	if err := s.fillCleaningOrder(ctx, order, input); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCleaningOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cleaning order")
	}
	s.logCreated(ctx, enums.ItemTypeCleaning, order.ID)
	dto := newCleaningOrderDTO(order)
	return &dto, nil
}

func (s *service) UpdateCleaningOrder(ctx context.Context, memberProfileID, id int64, input CleaningOrderInput) (*CleaningOrderDTO, error) {
	order, err := s.repo.FindCleaningOrder(ctx, memberProfileID, id)
	if err != nil {
		return nil, lookupError(err, "cleaning_order", id)
	}
	if err := s.fillCleaningOrder(ctx, order, input); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cleaning order")
	}
	dto := newCleaningOrderDTO(order)
	return &dto, nil
}

func (s *service) fillCleaningOrder(ctx context.Context, order *models.CleaningOrder, input CleaningOrderInput) error {
	if input.CleaningTypeID <= 0 {
		return pkgerrors.Field("cleaning_type_id", "is required")
	}
	if input.Qty < 1 {
		return pkgerrors.Field("qty", "must be at least 1")
	}
	if len(input.UnitConditionIDs) == 0 {
		return pkgerrors.Field("unit_condition", "is required")
	}
	if input.CleaningTypePrice != nil && *input.CleaningTypePrice < 0 {
		return pkgerrors.Field("pricing.cleaning_type_price", "must not be negative")
	}
	schedule, err := ParseSchedule(input.Schedule)
	if err != nil {
		return err
	}
	address, err := s.addresses.Validate(input.DetailAddress)
	if err != nil {
		return err
	}

	cleaningType, category, err := s.catalog.CleaningType(ctx, input.CleaningTypeID)
	if err != nil {
		return err
	}
	if input.CategoryID != nil {
		requested, err := s.catalog.CleaningCategory(ctx, *input.CategoryID)
		if err != nil {
			return err
		}
		if category.ID != 0 && category.ID != requested.ID {
			return pkgerrors.Field("cleaning_type_id", "does not belong to the selected category")
		}
		category = requested
	}
	conditions, err := s.catalog.UnitConditions(ctx, input.UnitConditionIDs)
	if err != nil {
		return err
	}

	order.CleaningTypeID = cleaningType.ID
	order.Qty = input.Qty
	order.Schedule = schedule
	order.DetailAddress = address
	order.Detail = models.CleaningDetail{
		ServiceType:   types.ServiceTypeRef{ID: int(enums.ServiceTypeCleaning), Name: enums.ServiceTypeCleaning.Name()},
		Category:      category,
		CleaningType:  cleaningType,
		UnitCondition: conditions,
	}
	order.Pricing = pricing.Cleaning(pricing.CleaningInput{
		BasePrice: cleaningType.BasePrice,
		Override:  input.CleaningTypePrice,
		Qty:       input.Qty,
	})
	order.Note = input.Note
	return nil
}

func (s *service) GetCleaningOrder(ctx context.Context, memberProfileID, id int64) (*CleaningOrderDTO, error) {
	order, err := s.repo.FindCleaningOrder(ctx, memberProfileID, id)
	if err != nil {
		return nil, lookupError(err, "cleaning_order", id)
	}
	dto := newCleaningOrderDTO(order)
	return &dto, nil
}

func (s *service) ListCleaningOrders(ctx context.Context, memberProfileID int64, params pagination.Params) (types.Page[CleaningOrderDTO], error) {
	rows, total, err := s.repo.ListCleaningOrders(ctx, memberProfileID, params.Offset(), params.PageSize)
	if err != nil {
		return types.Page[CleaningOrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cleaning orders")
	}
	items := make([]CleaningOrderDTO, 0, len(rows))
	for i := range rows {
		items = append(items, newCleaningOrderDTO(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) DeleteOrder(ctx context.Context, memberProfileID int64, itemType enums.ItemType, id int64) error {
	if !itemType.IsValid() {
		return pkgerrors.Field("item_type", "must be product, installation or cleaning")
	}
	if id <= 0 {
		return pkgerrors.Field("order_id", "must be a positive integer")
	}
	entity := string(enums.AggregateForItemType(itemType))

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		deleted, err := s.repo.WithTx(tx).SoftDelete(ctx, itemType, memberProfileID, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete "+entity)
		}
		if !deleted {
			return notFound(entity, id)
		}
		ref := lineitem.OrderRef{Type: itemType, ID: id}
		if err := s.carts.EvictOrders(ctx, tx, memberProfileID, lineitem.NewRefSet(ref)); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderDeleted,
			AggregateType: enums.AggregateForItemType(itemType),
			AggregateID:   id,
			Actor:         &outbox.ActorRef{MemberProfileID: memberProfileID},
			Data: payloads.OrderDeletedEvent{
				OrderID:         id,
				ItemType:        itemType,
				MemberProfileID: memberProfileID,
			},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit order deleted event")
		}
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"item_type": itemType,
			"order_id":  id,
		}), "order deleted")
		return nil
	})
}

func (s *service) logCreated(ctx context.Context, itemType enums.ItemType, id int64) {
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"item_type": itemType,
		"order_id":  id,
	}), "order created")
}

// refID keeps a supplied reference only when it resolved to a snapshot.
func refID(resolved bool, id *int64) *int64 {
	if !resolved || id == nil {
		return nil
	}
	v := *id
	return &v
}

func notFound(entity string, id int64) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, entity+" not found").
		WithDetails(map[string]any{"entity": entity, "id": id})
}

func lookupError(err error, entity string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, id)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load "+entity)
}
