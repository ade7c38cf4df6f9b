package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

func TestInstallationPipePricing(t *testing.T) {
	t.Parallel()

	got := Installation(InstallationInput{
		Package:   &types.PackageSnapshot{ID: 1, BasePrice: 200000},
		PipeGrade: &types.PipeGradeSnapshot{ID: 2, PricePerMeter: 15000},
		Length:    3.5,
		Qty:       2,
	})

	assert.Equal(t, 52500.0, got.PipeGradePrice)
	assert.Equal(t, 200000.0, got.InstallationPackagePrice)
	assert.Equal(t, 252500.0, got.TotalPerUnit)
	assert.Equal(t, int64(505000), got.GrandTotal)
}

func TestInstallationNonPackageSumsServices(t *testing.T) {
	t.Parallel()

	got := Installation(InstallationInput{
		Services: []types.InstallationServiceLine{
			{ID: 1, UnitPrice: 50000, Qty: 2, Subtotal: ServiceLineSubtotal(50000, 2)},
			{ID: 2, UnitPrice: 12500.5, Qty: 1, Subtotal: ServiceLineSubtotal(12500.5, 1)},
		},
		Qty: 3,
	})

	assert.Equal(t, 112500.5, got.InstallationServicePrice)
	assert.Zero(t, got.PipeGradePrice)
	assert.Equal(t, 112500.5, got.TotalPerUnit)
	assert.Equal(t, int64(337501), got.GrandTotal)
}

func TestGrandTotalTruncatesNotRounds(t *testing.T) {
	t.Parallel()

	got := Installation(InstallationInput{
		PipeGrade: &types.PipeGradeSnapshot{PricePerMeter: 999.99},
		Length:    1,
		Qty:       1,
	})
	assert.Equal(t, int64(999), got.GrandTotal)

	summary := ServiceLineSummary(got.TotalPerUnit, got.GrandTotal)
	assert.Equal(t, int64(999), *summary.Subtotal)
	assert.Equal(t, int64(-3), Truncate(-3.7))
}

func TestCleaningOverrideOnlyWhenSupplied(t *testing.T) {
	t.Parallel()

	base := Cleaning(CleaningInput{BasePrice: 75000, Qty: 2})
	assert.Equal(t, 75000.0, base.TotalPerUnit)
	assert.Equal(t, int64(150000), base.GrandTotal)

	override := 60000.0
	custom := Cleaning(CleaningInput{BasePrice: 75000, Override: &override, Qty: 2})
	assert.Equal(t, 60000.0, custom.CleaningTypePrice)
	assert.Equal(t, int64(120000), custom.GrandTotal)

	zero := 0.0
	free := Cleaning(CleaningInput{BasePrice: 75000, Override: &zero, Qty: 2})
	assert.Equal(t, int64(0), free.GrandTotal)
}

func TestProductSummary(t *testing.T) {
	t.Parallel()

	got := ProductSummary([]types.ProductOrderItem{{Price: 1250000.75, Qty: 2}}, "IDR")
	assert.Equal(t, types.OrderPricingSummary{Currency: "IDR", Subtotal: 2500001, GrandTotal: 2500001}, got)

	line := ProductLineSummary(got)
	assert.Equal(t, int64(2500001), line.Total())
}

func TestQuote(t *testing.T) {
	t.Parallel()

	got := Quote(200000, 15000, 3.5, 2)
	assert.Equal(t, 52500.0, got.PipePrice)
	assert.Equal(t, 252500.0, got.TotalPerUnit)
	assert.Equal(t, int64(505000), got.GrandTotal)
}

func TestTotalsTruncateTheFloatProduct(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		got  int64
		want int64
	}{
		{
			name: "pipe 100 per meter over 1.15m",
			got: Installation(InstallationInput{
				PipeGrade: &types.PipeGradeSnapshot{PricePerMeter: 100},
				Length:    1.15,
				Qty:       1,
			}).GrandTotal,
			want: 114,
		},
		{
			name: "pipe 19.99 per meter times 100 units",
			got: Installation(InstallationInput{
				PipeGrade: &types.PipeGradeSnapshot{PricePerMeter: 19.99},
				Length:    1,
				Qty:       100,
			}).GrandTotal,
			want: 1998,
		},
		{
			name: "service subtotal 0.29 times 100",
			got: Installation(InstallationInput{
				Services: []types.InstallationServiceLine{{UnitPrice: 0.29, Qty: 100, Subtotal: ServiceLineSubtotal(0.29, 100)}},
				Qty:      1,
			}).GrandTotal,
			want: 28,
		},
		{
			name: "cleaning 0.57 times 100",
			got:  Cleaning(CleaningInput{BasePrice: 0.57, Qty: 100}).GrandTotal,
			want: 56,
		},
		{
			name: "quote 100 per meter over 1.15m",
			got:  Quote(0, 100, 1.15, 1).GrandTotal,
			want: 114,
		},
		{
			name: "product 19.99 times 100",
			got:  ProductSummary([]types.ProductOrderItem{{Price: 19.99, Qty: 100}}, "IDR").GrandTotal,
			want: 1998,
		},
		{
			name: "reference vector stays whole",
			got: Installation(InstallationInput{
				PipeGrade: &types.PipeGradeSnapshot{PricePerMeter: 15000},
				Length:    3.5,
				Qty:       2,
			}).GrandTotal,
			want: 105000,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func TestServiceLineSubtotalKeepsFloatProduct(t *testing.T) {
	t.Parallel()

	unit := 0.29
	assert.Equal(t, unit*100, ServiceLineSubtotal(unit, 100))
	assert.Less(t, ServiceLineSubtotal(unit, 100), 29.0)
}
