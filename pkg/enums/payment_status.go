package enums

// PaymentStatus tracks a checkout's payment. Only WAITING_PAYMENT and EXPIRED
// are set by this service; the rest arrive from the payment provider.
type PaymentStatus string

const (
	PaymentStatusWaiting  PaymentStatus = "WAITING_PAYMENT"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusExpired  PaymentStatus = "EXPIRED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusCanceled PaymentStatus = "CANCELED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

var paymentStatuses = set[PaymentStatus]{
	PaymentStatusWaiting,
	PaymentStatusPaid,
	PaymentStatusExpired,
	PaymentStatusFailed,
	PaymentStatusCanceled,
	PaymentStatusRefunded,
}

func (p PaymentStatus) String() string { return string(p) }

func (p PaymentStatus) IsValid() bool { return paymentStatuses.has(p) }

// IsTerminal is true for everything except WAITING_PAYMENT.
func (p PaymentStatus) IsTerminal() bool { return p != PaymentStatusWaiting }

func ParsePaymentStatus(value string) (PaymentStatus, error) {
	return paymentStatuses.parse("payment status", value)
}
