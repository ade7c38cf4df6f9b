package catalog

import (
	"context"

	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
)

// Store is the read surface the resolver needs. Every finder returns only
// ACTIVE rows and gorm.ErrRecordNotFound when nothing matches.
type Store interface {
	FindProductVariant(ctx context.Context, id int64) (*models.ProductVariant, error)
	FindInstallationPackage(ctx context.Context, id int64) (*models.InstallationPackage, error)
	FindInstallationPackageByCode(ctx context.Context, code string) (*models.InstallationPackage, error)
	FindPipeGrade(ctx context.Context, id int64) (*models.PipeGrade, error)
	FindInstallationServices(ctx context.Context, ids []int64) ([]models.InstallationService, error)
	FindCleaningType(ctx context.Context, id int64) (*models.CleaningType, error)
	FindCleaningCategory(ctx context.Context, id int64) (*models.CleaningCategory, error)
	FindUnitConditions(ctx context.Context, ids []int64) ([]models.UnitCondition, error)

	FindProductOrder(ctx context.Context, memberProfileID, id int64) (*models.ProductOrder, error)
	FindInstallationOrder(ctx context.Context, memberProfileID, id int64) (*models.InstallationOrder, error)
	FindCleaningOrder(ctx context.Context, memberProfileID, id int64) (*models.CleaningOrder, error)
}
