package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

// Repository reads catalog and order rows through gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("status = ?", enums.RecordStatusActive)
}

func (r *Repository) FindProductVariant(ctx context.Context, id int64) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.active(ctx).
		Preload("Product").
		Preload("Product.Brand").
		Where("id = ?", id).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *Repository) FindInstallationPackage(ctx context.Context, id int64) (*models.InstallationPackage, error) {
	var pkg models.InstallationPackage
	if err := r.active(ctx).Where("id = ?", id).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *Repository) FindInstallationPackageByCode(ctx context.Context, code string) (*models.InstallationPackage, error) {
	var pkg models.InstallationPackage
	if err := r.active(ctx).Where("code = ?", code).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *Repository) FindPipeGrade(ctx context.Context, id int64) (*models.PipeGrade, error) {
	var grade models.PipeGrade
	if err := r.active(ctx).Preload("Brand").Where("id = ?", id).First(&grade).Error; err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *Repository) FindInstallationServices(ctx context.Context, ids []int64) ([]models.InstallationService, error) {
	var rows []models.InstallationService
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.active(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindCleaningType(ctx context.Context, id int64) (*models.CleaningType, error) {
	var ct models.CleaningType
	if err := r.active(ctx).Where("id = ?", id).First(&ct).Error; err != nil {
		return nil, err
	}
	return &ct, nil
}

func (r *Repository) FindCleaningCategory(ctx context.Context, id int64) (*models.CleaningCategory, error) {
	var category models.CleaningCategory
	if err := r.active(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) FindUnitConditions(ctx context.Context, ids []int64) ([]models.UnitCondition, error) {
	var rows []models.UnitCondition
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.active(ctx).Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindProductOrder(ctx context.Context, memberProfileID, id int64) (*models.ProductOrder, error) {
	var order models.ProductOrder
	err := r.active(ctx).
		Where("id = ? AND member_profile_id = ?", id, memberProfileID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) FindInstallationOrder(ctx context.Context, memberProfileID, id int64) (*models.InstallationOrder, error) {
	var order models.InstallationOrder
	err := r.active(ctx).
		Where("id = ? AND member_profile_id = ?", id, memberProfileID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) FindCleaningOrder(ctx context.Context, memberProfileID, id int64) (*models.CleaningOrder, error) {
	var order models.CleaningOrder
	err := r.active(ctx).
		Where("id = ? AND member_profile_id = ?", id, memberProfileID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
