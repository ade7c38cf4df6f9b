package cart

import (
	"strings"

	"github.com/angelmondragon/homeservices-backend/internal/lineitem"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
)

type addItemRequest struct {
	ItemType string `json:"item_type" validate:"required"`
	OrderID  int64  `json:"order_id" validate:"required,min=1"`
}

func (r addItemRequest) toRef() (lineitem.OrderRef, error) {
	itemType, err := enums.ParseItemType(strings.ToLower(strings.TrimSpace(r.ItemType)))
	if err != nil {
		return lineitem.OrderRef{}, pkgerrors.Field("item_type", "must be product, installation or cleaning")
	}
	return lineitem.OrderRef{Type: itemType, ID: r.OrderID}, nil
}

type removeItemsRequest struct {
	ProductOrderIDs      []int64 `json:"product_order_ids"`
	InstallationOrderIDs []int64 `json:"installation_order_ids"`
	CleaningOrderIDs     []int64 `json:"cleaning_order_ids"`
}

func (r removeItemsRequest) toRefs() (lineitem.RefSet, error) {
	refs := lineitem.RefSetFromIDs(r.ProductOrderIDs, r.InstallationOrderIDs, r.CleaningOrderIDs)
	if refs.Len() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select at least one order to remove")
	}
	return refs, nil
}
