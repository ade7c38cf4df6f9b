package orders

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) owned(ctx context.Context, memberProfileID int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("member_profile_id = ? AND status = ?", memberProfileID, enums.RecordStatusActive)
}

func findOwned[T any](ctx context.Context, r *repository, memberProfileID, id int64) (*T, error) {
	var rec T
	if err := r.owned(ctx, memberProfileID).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func listOwned[T any](ctx context.Context, r *repository, memberProfileID int64, offset, limit int) ([]T, int64, error) {
	var total int64
	if err := r.owned(ctx, memberProfileID).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]T, 0, limit)
	err := r.owned(ctx, memberProfileID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) CreateProductOrder(ctx context.Context, order *models.ProductOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindProductOrder(ctx context.Context, memberProfileID, id int64) (*models.ProductOrder, error) {
	return findOwned[models.ProductOrder](ctx, r, memberProfileID, id)
}

func (r *repository) ListProductOrders(ctx context.Context, memberProfileID int64, offset, limit int) ([]models.ProductOrder, int64, error) {
	return listOwned[models.ProductOrder](ctx, r, memberProfileID, offset, limit)
}

func (r *repository) CreateInstallationOrder(ctx context.Context, order *models.InstallationOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindInstallationOrder(ctx context.Context, memberProfileID, id int64) (*models.InstallationOrder, error) {
	return findOwned[models.InstallationOrder](ctx, r, memberProfileID, id)
}

func (r *repository) ListInstallationOrders(ctx context.Context, memberProfileID int64, offset, limit int) ([]models.InstallationOrder, int64, error) {
	return listOwned[models.InstallationOrder](ctx, r, memberProfileID, offset, limit)
}

func (r *repository) CreateCleaningOrder(ctx context.Context, order *models.CleaningOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindCleaningOrder(ctx context.Context, memberProfileID, id int64) (*models.CleaningOrder, error) {
	return findOwned[models.CleaningOrder](ctx, r, memberProfileID, id)
}

func (r *repository) ListCleaningOrders(ctx context.Context, memberProfileID int64, offset, limit int) ([]models.CleaningOrder, int64, error) {
	return listOwned[models.CleaningOrder](ctx, r, memberProfileID, offset, limit)
}

func (r *repository) Save(ctx context.Context, order any) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *repository) SoftDelete(ctx context.Context, itemType enums.ItemType, memberProfileID, id int64) (bool, error) {
	var model any
	switch itemType {
	case enums.ItemTypeProduct:
		model = &models.ProductOrder{}
	case enums.ItemTypeInstallation:
		model = &models.InstallationOrder{}
	case enums.ItemTypeCleaning:
		model = &models.CleaningOrder{}
	default:
		return false, fmt.Errorf("unknown item type %q", itemType)
	}
	res := r.owned(ctx, memberProfileID).
		Model(model).
		Where("id = ?", id).
		Update("status", enums.RecordStatusDeleted)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
