package cart

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindOpenByMember(ctx context.Context, memberProfileID int64) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	// UpdateItems writes items only if the row still carries version and
	// reports whether it did.
	UpdateItems(ctx context.Context, id, version int64, items []json.RawMessage) (bool, error)
}
