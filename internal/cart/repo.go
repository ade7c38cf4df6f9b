package cart

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindOpenByMember returns the member's ACTIVE or DRAFT cart.
func (r *Repository) FindOpenByMember(ctx context.Context, memberProfileID int64) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Where("member_profile_id = ? AND status IN ?", memberProfileID, enums.OpenCartStatuses).
		Order("id DESC").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *Repository) Create(ctx context.Context, cart *models.Cart) error {
	if cart.Status == "" {
		cart.Status = enums.RecordStatusActive
	}
	if cart.Items == nil {
		cart.Items = []json.RawMessage{}
	}
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *Repository) UpdateItems(ctx context.Context, id, version int64, items []json.RawMessage) (bool, error) {
	if items == nil {
		items = []json.RawMessage{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]any{
			"items":      string(payload),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
