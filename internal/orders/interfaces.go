package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

// Repository defines persistence operations for the three member order tables.
// Finders only return ACTIVE rows owned by the member.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateProductOrder(ctx context.Context, order *models.ProductOrder) error
	FindProductOrder(ctx context.Context, memberProfileID, id int64) (*models.ProductOrder, error)
	ListProductOrders(ctx context.Context, memberProfileID int64, offset, limit int) ([]models.ProductOrder, int64, error)

	CreateInstallationOrder(ctx context.Context, order *models.InstallationOrder) error
	FindInstallationOrder(ctx context.Context, memberProfileID, id int64) (*models.InstallationOrder, error)
	ListInstallationOrders(ctx context.Context, memberProfileID int64, offset, limit int) ([]models.InstallationOrder, int64, error)

	CreateCleaningOrder(ctx context.Context, order *models.CleaningOrder) error
	FindCleaningOrder(ctx context.Context, memberProfileID, id int64) (*models.CleaningOrder, error)
	ListCleaningOrders(ctx context.Context, memberProfileID int64, offset, limit int) ([]models.CleaningOrder, int64, error)

	// Save rewrites every column of an existing order.
	Save(ctx context.Context, order any) error
	// SoftDelete flips an ACTIVE order to DELETED and reports whether a row changed.
	SoftDelete(ctx context.Context, itemType enums.ItemType, memberProfileID, id int64) (bool, error)
}
