package enums

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateCheckout          OutboxAggregateType = "checkout"
	AggregateProductOrder      OutboxAggregateType = "product_order"
	AggregateInstallationOrder OutboxAggregateType = "installation_order"
	AggregateCleaningOrder     OutboxAggregateType = "cleaning_order"
)

var aggregateTypes = set[OutboxAggregateType]{
	AggregateCheckout,
	AggregateProductOrder,
	AggregateInstallationOrder,
	AggregateCleaningOrder,
}

func (a OutboxAggregateType) IsValid() bool { return aggregateTypes.has(a) }

// AggregateForItemType maps a line item type to its order aggregate.
func AggregateForItemType(t ItemType) OutboxAggregateType {
	switch t {
	case ItemTypeProduct:
		return AggregateProductOrder
	case ItemTypeInstallation:
		return AggregateInstallationOrder
	default:
		return AggregateCleaningOrder
	}
}

// OutboxEventType names a domain event. It doubles as the redis channel suffix.
type OutboxEventType string

const (
	EventCheckoutConfirmed OutboxEventType = "checkout_confirmed"
	EventCheckoutExpired   OutboxEventType = "checkout_expired"
	EventOrderDeleted      OutboxEventType = "order_deleted"
	EventVoucherRedeemed   OutboxEventType = "voucher_redeemed"
)

var eventTypes = set[OutboxEventType]{
	EventCheckoutConfirmed,
	EventCheckoutExpired,
	EventOrderDeleted,
	EventVoucherRedeemed,
}

func (e OutboxEventType) IsValid() bool { return eventTypes.has(e) }

func ParseOutboxEventType(value string) (OutboxEventType, error) {
	return eventTypes.parse("outbox event type", value)
}
