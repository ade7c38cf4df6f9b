package enums

// RecordStatus is the lifecycle flag shared by orders, catalog rows, vouchers and quotes.
type RecordStatus string

const (
	RecordStatusActive   RecordStatus = "ACTIVE"
	RecordStatusInactive RecordStatus = "INACTIVE"
	RecordStatusDraft    RecordStatus = "DRAFT"
	RecordStatusDeleted  RecordStatus = "DELETED"
)

var recordStatuses = set[RecordStatus]{
	RecordStatusActive,
	RecordStatusInactive,
	RecordStatusDraft,
	RecordStatusDeleted,
}

func (s RecordStatus) String() string { return string(s) }

func (s RecordStatus) IsValid() bool { return recordStatuses.has(s) }

func ParseRecordStatus(value string) (RecordStatus, error) {
	return recordStatuses.parse("record status", value)
}
