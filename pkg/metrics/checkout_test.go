package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCheckoutMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)
	m.IncConfirmed("QRIS")
	m.IncConfirmed("QRIS")
	m.IncVoucher(VoucherExhausted)
	m.IncConflict("voucher")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "homeservices_checkout_confirmed_total", "payment_method", "QRIS"); err != nil || got != 2 {
		t.Fatalf("expected confirmed=2, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "homeservices_checkout_voucher_outcomes_total", "outcome", VoucherExhausted); err != nil || got != 1 {
		t.Fatalf("expected exhausted=1, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "homeservices_checkout_write_conflicts_total", "resource", "voucher"); err != nil || got != 1 {
		t.Fatalf("expected conflict=1, got %f (%v)", got, err)
	}
}

func TestNilCheckoutMetricsAreNoops(t *testing.T) {
	var m *CheckoutMetrics
	m.IncConfirmed("QRIS")
	NewCheckoutMetrics(nil).IncVoucher(VoucherApplied)
}

func TestOutboxMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOutboxMetrics(reg)
	m.IncPublished("order_created")
	m.IncFailed("order_created")
	m.IncParked("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "homeservices_outbox_published_total", "event_type", "order_created"); err != nil || got != 1 {
		t.Fatalf("expected published=1, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "homeservices_outbox_publish_failures_total", "event_type", "order_created"); err != nil || got != 1 {
		t.Fatalf("expected failed=1, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "homeservices_outbox_parked_total", "event_type", normalizeLabel("")); err != nil || got != 1 {
		t.Fatalf("expected parked=1, got %f (%v)", got, err)
	}

	var nilMetrics *OutboxMetrics
	nilMetrics.IncPublished("order_created")
}
