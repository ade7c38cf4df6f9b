package enums

// OpenCartStatuses are the statuses under which a member's single cart is found.
var OpenCartStatuses = []RecordStatus{RecordStatusActive, RecordStatusDraft}

// IsOpenCart reports whether a cart in this status still accepts items.
func IsOpenCart(status RecordStatus) bool {
	return set[RecordStatus](OpenCartStatuses).has(status)
}
