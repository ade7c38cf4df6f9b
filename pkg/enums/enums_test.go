package enums

import "testing"

func TestParseTimeSlotAcceptsAllForms(t *testing.T) {
	t.Parallel()

	cases := map[string]TimeSlot{
		"1":                      TimeSlotMorning,
		" 2 ":                    TimeSlotAfternoon,
		"Malam (16:00 - 20:00)":  TimeSlotNight,
		"Pagi(08:00-12:00)":      TimeSlotMorning,
		"Siang ( 12:00 -16:00 )": TimeSlotAfternoon,
		"night":                  TimeSlotNight,
	}
	for input, want := range cases {
		got, err := ParseTimeSlot(input)
		if err != nil {
			t.Fatalf("ParseTimeSlot(%q) error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseTimeSlot(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestParseTimeSlotRejectsUnknown(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "0", "4", "evening", "Pagi (09:00 - 12:00)"} {
		if _, err := ParseTimeSlot(input); err == nil {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}

func TestTimeSlotLabel(t *testing.T) {
	t.Parallel()

	if got := TimeSlotAfternoon.Label(); got != "Siang (12:00 - 16:00)" {
		t.Fatalf("unexpected label %q", got)
	}
	if TimeSlot(9).IsValid() {
		t.Fatal("slot 9 should be invalid")
	}
}

func TestParseServiceType(t *testing.T) {
	t.Parallel()

	st, err := ParseServiceType("NON_PACKAGE")
	if err != nil || st != ServiceTypeNonPackage {
		t.Fatalf("unexpected %v %v", st, err)
	}
	st, err = ParseServiceType("1")
	if err != nil || st != ServiceTypePackage || st.Name() != "Installation Package" {
		t.Fatalf("unexpected %v %v", st, err)
	}
	if !st.IsInstallation() || ServiceTypeCleaning.IsInstallation() {
		t.Fatal("installation classification mismatch")
	}
	if _, err := ParseServiceType("7"); err == nil {
		t.Fatal("expected unknown id to fail")
	}
}

func TestItemTypeOrderIDKey(t *testing.T) {
	t.Parallel()

	if ItemTypeInstallation.OrderIDKey() != "installation_order_id" {
		t.Fatalf("unexpected key %q", ItemTypeInstallation.OrderIDKey())
	}
	if _, err := ParseItemType("voucher"); err == nil {
		t.Fatal("expected invalid item type")
	}
}

func TestOpenCartStatuses(t *testing.T) {
	t.Parallel()

	if !IsOpenCart(RecordStatusDraft) || !IsOpenCart(RecordStatusActive) {
		t.Fatal("active and draft carts must be open")
	}
	if IsOpenCart(RecordStatusDeleted) {
		t.Fatal("deleted cart must not be open")
	}
}

func TestStringEnumParsing(t *testing.T) {
	if got, err := ParseCurrency(" idr "); err != nil || got != CurrencyIDR {
		t.Fatalf("expected IDR, got %q (%v)", got, err)
	}
	if _, err := ParsePaymentMethod("qris"); err == nil {
		t.Fatal("payment methods are case-sensitive")
	}
	if got, err := ParsePaymentMethod("QRIS"); err != nil || got != PaymentMethodQRIS {
		t.Fatalf("expected QRIS, got %q (%v)", got, err)
	}
	if _, err := ParseOutboxEventType("order_created"); err == nil || err.Error() != `invalid outbox event type "order_created"` {
		t.Fatalf("unexpected error %v", err)
	}
	if !PaymentStatusExpired.IsTerminal() || PaymentStatusWaiting.IsTerminal() {
		t.Fatal("only WAITING_PAYMENT is non-terminal")
	}
	if AggregateForItemType(ItemTypeInstallation) != AggregateInstallationOrder {
		t.Fatal("installation items map to installation orders")
	}
}
