package enums

// ItemType tags a cart line item by the kind of order it references.
type ItemType string

const (
	ItemTypeProduct      ItemType = "product"
	ItemTypeInstallation ItemType = "installation"
	ItemTypeCleaning     ItemType = "cleaning"
)

var itemTypes = set[ItemType]{ItemTypeProduct, ItemTypeInstallation, ItemTypeCleaning}

func (t ItemType) String() string { return string(t) }

func (t ItemType) IsValid() bool { return itemTypes.has(t) }

// OrderIDKey is the JSON key that carries the referenced order id, e.g.
// "cleaning_order_id".
func (t ItemType) OrderIDKey() string { return string(t) + "_order_id" }

func ParseItemType(value string) (ItemType, error) {
	return itemTypes.parse("item type", value)
}
