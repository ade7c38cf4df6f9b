package enums

// VoucherType selects how a voucher's value is applied.
type VoucherType string

const (
	VoucherTypePercent VoucherType = "percent"
	VoucherTypeFixed   VoucherType = "fixed"
)

var voucherTypes = set[VoucherType]{VoucherTypePercent, VoucherTypeFixed}

func (v VoucherType) String() string { return string(v) }

func (v VoucherType) IsValid() bool { return voucherTypes.has(v) }

func ParseVoucherType(value string) (VoucherType, error) {
	return voucherTypes.parse("voucher type", value)
}
