package metrics

import "github.com/prometheus/client_golang/prometheus"

// Voucher outcomes recorded at confirmation.
const (
	VoucherApplied    = "applied"
	VoucherIneligible = "ineligible"
	VoucherExhausted  = "exhausted"
)

// CheckoutMetrics counts checkout confirmations, voucher outcomes and
// optimistic-lock conflicts.
type CheckoutMetrics struct {
	confirmed *prometheus.CounterVec
	vouchers  *prometheus.CounterVec
	conflicts *prometheus.CounterVec
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	c := &CheckoutMetrics{
		confirmed: counterVec("checkout", "confirmed_total", "Checkouts confirmed, by payment method.", "payment_method"),
		vouchers:  counterVec("checkout", "voucher_outcomes_total", "Voucher evaluations at confirmation, by outcome.", "outcome"),
		conflicts: counterVec("checkout", "write_conflicts_total", "Lost version or quota races, by resource.", "resource"),
	}
	reg.MustRegister(c.confirmed, c.vouchers, c.conflicts)
	return c
}

func (c *CheckoutMetrics) IncConfirmed(paymentMethod string) {
	if c == nil || c.confirmed == nil {
		return
	}
	c.confirmed.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

func (c *CheckoutMetrics) IncVoucher(outcome string) {
	if c == nil || c.vouchers == nil {
		return
	}
	c.vouchers.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (c *CheckoutMetrics) IncConflict(resource string) {
	if c == nil || c.conflicts == nil {
		return
	}
	c.conflicts.WithLabelValues(normalizeLabel(resource)).Inc()
}
