package quotes

import (
	"context"

	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

// ListFilter narrows a member's quote list. Empty fields are ignored.
type ListFilter struct {
	ClientUUID  string
	ServiceType string
	Status      enums.RecordStatus
}

type Repository interface {
	Create(ctx context.Context, quote *models.CheckoutQuote) error
	// Find ignores DELETED quotes; a non-empty clientUUID must match too.
	Find(ctx context.Context, memberProfileID, id int64, clientUUID string) (*models.CheckoutQuote, error)
	List(ctx context.Context, memberProfileID int64, filter ListFilter, offset, limit int) ([]models.CheckoutQuote, int64, error)
}
