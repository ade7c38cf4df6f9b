package lineitem

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/homeservices-backend/internal/catalog"
	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

func productItem(id int64, total int64) LineItem {
	return LineItem{
		OrderID:        id,
		Qty:            1,
		PricingSummary: types.NewPricingSummary(total, total),
		Detail:         ProductDetail{ProductOrder: ProductOrderRef{ID: id, Name: "Split AC"}},
	}
}

func cleaningItem(id int64, total int64) LineItem {
	return LineItem{
		OrderID:        id,
		Qty:            1,
		PricingSummary: types.NewPricingSummary(total, total),
		Detail: CleaningDetail{
			ServiceType:  types.ServiceTypeRef{ID: 3, Name: "Cleaning"},
			CleaningType: types.Ref{ID: 1, Name: "Split AC"},
			Schedule:     types.Schedule{Date: "2026-11-02", TimeSlot: "Pagi (08:00 - 12:00)", TimeSlotID: 1},
		},
	}
}

func installationItem(id int64, total int64) LineItem {
	return LineItem{
		OrderID:        id,
		Qty:            2,
		PricingSummary: types.NewPricingSummary(total/2, total),
		Detail: InstallationDetail{
			ServiceType:         types.ServiceTypeRef{ID: 1, Name: "Installation Package"},
			InstallationPackage: &PackageRef{ID: 3, Code: "PKG-AC-1PK", Name: "AC 1 PK install"},
			PipeGrade:           &types.Ref{ID: 4, Name: "Copper 0.6"},
		},
	}
}

func mustEntry(t *testing.T, item LineItem) Entry {
	t.Helper()
	entry, err := NewEntry(item)
	require.NoError(t, err)
	return entry
}

func TestLineItemWireShape(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(cleaningItem(5, 85000))
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, "cleaning", wire["item_type"])
	assert.Equal(t, float64(5), wire["cleaning_order_id"])
	assert.NotContains(t, wire, "product_order_id")
	assert.NotContains(t, wire, "installation_order_id")
	summary := wire["pricing_summary"].(map[string]any)
	assert.Equal(t, float64(85000), summary["grand_total"])
}

func TestLineItemRoundTrip(t *testing.T) {
	t.Parallel()

	for _, item := range []LineItem{productItem(9, 125000), installationItem(7, 505000), cleaningItem(5, 85000)} {
		raw, err := json.Marshal(item)
		require.NoError(t, err)
		var decoded LineItem
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, item, decoded)
	}
}

func TestLineItemRejectsAmbiguousReference(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"none":     `{"item_type":"product","qty":1}`,
		"two ids":  `{"product_order_id":1,"cleaning_order_id":2}`,
		"mismatch": `{"item_type":"installation","product_order_id":1}`,
	}
	for name, body := range cases {
		var item LineItem
		assert.Error(t, json.Unmarshal([]byte(body), &item), name)
	}
}

func TestPricingSummaryFallsBackToSubtotal(t *testing.T) {
	t.Parallel()

	var item LineItem
	require.NoError(t, json.Unmarshal([]byte(`{"product_order_id":3,"pricing_summary":{"subtotal":4000}}`), &item))
	assert.Equal(t, int64(4000), item.PricingSummary.Total())
	assert.Equal(t, enums.ItemTypeProduct, item.Type())
}

func TestEvictPreservesUnrelatedItems(t *testing.T) {
	t.Parallel()

	entries := Entries{
		mustEntry(t, cleaningItem(5, 85000)),
		mustEntry(t, installationItem(7, 505000)),
		mustEntry(t, productItem(9, 125000)),
	}
	left := entries.Without(NewRefSet(OrderRef{Type: enums.ItemTypeCleaning, ID: 5}))

	require.Len(t, left, 2)
	assert.Equal(t, OrderRef{Type: enums.ItemTypeInstallation, ID: 7}, left.Items()[0].Ref())
	assert.Equal(t, OrderRef{Type: enums.ItemTypeProduct, ID: 9}, left.Items()[1].Ref())
}

func TestMalformedEntriesArePreserved(t *testing.T) {
	t.Parallel()

	raws := []json.RawMessage{
		json.RawMessage(`"legacy-string"`),
		json.RawMessage(`{"cleaning_order_id":5,"qty":1}`),
		json.RawMessage(`{"foo":"bar"}`),
	}
	entries := DecodeEntries(raws)
	require.Len(t, entries, 3)
	require.Len(t, entries.Items(), 1)

	left := entries.Without(RefSetFromIDs(nil, nil, []int64{5}))
	assert.Equal(t, []json.RawMessage{raws[0], raws[2]}, left.Raw())

	only := entries.Only(RefSetFromIDs(nil, nil, []int64{5}))
	assert.Equal(t, []json.RawMessage{raws[1]}, only.Raw())
}

func TestRefSetIgnoresInvalidRefs(t *testing.T) {
	t.Parallel()

	set := RefSetFromIDs([]int64{3, 0, -1, 1}, nil, []int64{2})
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []int64{1, 3}, set.IDs(enums.ItemTypeProduct))
	assert.Empty(t, set.IDs(enums.ItemTypeInstallation))
	assert.False(t, set.Contains(OrderRef{Type: enums.ItemTypeProduct, ID: 0}))
}

func TestBuildProduct(t *testing.T) {
	t.Parallel()

	note := "leave at door"
	order := models.ProductOrder{
		ID:               9,
		ProductVariantID: 2,
		Items: []types.ProductOrderItem{{
			ProductID: 1, ProductVariantID: 2, Name: "Split AC 1 PK", SKU: "AC-1PK-WH", Price: 125000, Qty: 2,
		}},
		PricingSummary: types.OrderPricingSummary{Currency: "IDR", Subtotal: 250000, GrandTotal: 250000},
		Note:           &note,
	}
	item, err := Build(catalog.ResolvedOrder{Product: &catalog.ResolvedProduct{Order: order, Item: order.Items[0]}})
	require.NoError(t, err)

	assert.Equal(t, OrderRef{Type: enums.ItemTypeProduct, ID: 9}, item.Ref())
	assert.Equal(t, 2, item.Qty)
	assert.Equal(t, int64(250000), item.PricingSummary.Total())
	assert.Equal(t, &note, item.Note)
	assert.Equal(t, ProductOrderRef{ID: 9, ProductVariantID: 2, Name: "Split AC 1 PK", SKU: "AC-1PK-WH"}, item.Detail.(ProductDetail).ProductOrder)
}

func TestBuildInstallation(t *testing.T) {
	t.Parallel()

	order := models.InstallationOrder{
		ID:  7,
		Qty: 2,
		Detail: models.InstallationDetail{
			ServiceType:         types.ServiceTypeRef{ID: 1, Name: "Installation Package"},
			InstallationPackage: &types.PackageSnapshot{ID: 3, Code: "PKG", Name: "Package", BasePrice: 200000},
			PipeGrade:           &types.PipeGradeSnapshot{ID: 4, Name: "Copper", PricePerMeter: 15000},
		},
		Schedule: types.Schedule{Date: "2026-11-02", TimeSlot: "Siang (12:00 - 16:00)", TimeSlotID: 2},
		Pricing:  types.InstallationPricing{TotalPerUnit: 252500.75, GrandTotal: 505001},
	}
	item, err := Build(catalog.ResolvedOrder{Installation: &order})
	require.NoError(t, err)

	detail := item.Detail.(InstallationDetail)
	assert.Equal(t, &PackageRef{ID: 3, Code: "PKG", Name: "Package"}, detail.InstallationPackage)
	assert.Equal(t, &types.Ref{ID: 4, Name: "Copper"}, detail.PipeGrade)
	assert.Equal(t, "Siang (12:00 - 16:00)", detail.Schedule.TimeSlot)
	assert.Equal(t, int64(252500), *item.PricingSummary.Subtotal)
	assert.Equal(t, int64(505001), *item.PricingSummary.GrandTotal)
}

func TestBuildEmptyOrder(t *testing.T) {
	t.Parallel()

	_, err := Build(catalog.ResolvedOrder{})
	assert.Error(t, err)
}
