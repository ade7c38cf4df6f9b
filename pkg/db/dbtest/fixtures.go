package dbtest

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

// AllModels lists every table the service owns, in dependency order.
func AllModels() []any {
	return models.All()
}

// Catalog holds the ids of the rows written by SeedCatalog.
type Catalog struct {
	BrandID            int64
	ProductID          int64
	VariantID          int64
	InactiveVariantID  int64
	PackageID          int64
	PackageCode        string
	PipeGradeID        int64
	ServiceIDs         []int64
	CleaningCategoryID int64
	CleaningTypeID     int64
	UnitConditionIDs   []int64
}

// SeedCatalog writes a small priced catalog:
// variant 125000, package 200000 (3.5m), pipe 15000/m, services 75000 and
// 50000, cleaning type 85000.
func SeedCatalog(t *testing.T, db *gorm.DB) Catalog {
	t.Helper()

	length := 3.5
	brand := models.Brand{Name: "Rucika", Status: enums.RecordStatusActive}
	mustCreate(t, db, &brand)
	product := models.Product{Name: "Split AC 1 PK", BrandID: &brand.ID, Status: enums.RecordStatusActive}
	mustCreate(t, db, &product)
	variant := models.ProductVariant{
		ProductID: product.ID, Name: "White", SKU: "AC-1PK-WH", VariantCode: "WH",
		Price: decimal.NewFromInt(125000), Status: enums.RecordStatusActive,
	}
	mustCreate(t, db, &variant)
	inactive := models.ProductVariant{
		ProductID: product.ID, Name: "Black", SKU: "AC-1PK-BK", VariantCode: "BK",
		Price: decimal.NewFromInt(130000), Status: enums.RecordStatusInactive,
	}
	mustCreate(t, db, &inactive)

	pkg := models.InstallationPackage{
		Code: "PKG-AC-1PK", Name: "AC 1 PK install", Description: "Standard wall mount",
		Length: &length, PackagePrice: decimal.NewFromInt(200000),
		IncludedItems: []string{"bracket", "drain hose"}, Status: enums.RecordStatusActive,
	}
	mustCreate(t, db, &pkg)
	grade := models.PipeGrade{
		Name: "Copper 0.6", ThicknessMM: 0.6, PricePerMeter: decimal.NewFromInt(15000),
		BrandID: &brand.ID, Status: enums.RecordStatusActive,
	}
	mustCreate(t, db, &grade)

	services := []models.InstallationService{
		{Code: "SVC-BRK", Name: "Bracket mount", UnitType: "unit", BasePrice: decimal.NewFromInt(75000), Status: enums.RecordStatusActive},
		{Code: "SVC-VAC", Name: "Vacuum", UnitType: "unit", BasePrice: decimal.NewFromInt(50000), Status: enums.RecordStatusActive},
	}
	serviceIDs := make([]int64, 0, len(services))
	for i := range services {
		mustCreate(t, db, &services[i])
		serviceIDs = append(serviceIDs, services[i].ID)
	}

	category := models.CleaningCategory{Name: "AC Cleaning", Status: enums.RecordStatusActive}
	mustCreate(t, db, &category)
	cleaningType := models.CleaningType{
		CategoryID: &category.ID, Name: "Split AC", BasePrice: decimal.NewFromInt(85000),
		Status: enums.RecordStatusActive,
	}
	mustCreate(t, db, &cleaningType)

	conditions := []models.UnitCondition{
		{Name: "Normal", Status: enums.RecordStatusActive},
		{Name: "Very dirty", Status: enums.RecordStatusActive},
	}
	conditionIDs := make([]int64, 0, len(conditions))
	for i := range conditions {
		mustCreate(t, db, &conditions[i])
		conditionIDs = append(conditionIDs, conditions[i].ID)
	}

	return Catalog{
		BrandID:            brand.ID,
		ProductID:          product.ID,
		VariantID:          variant.ID,
		InactiveVariantID:  inactive.ID,
		PackageID:          pkg.ID,
		PackageCode:        pkg.Code,
		PipeGradeID:        grade.ID,
		ServiceIDs:         serviceIDs,
		CleaningCategoryID: category.ID,
		CleaningTypeID:     cleaningType.ID,
		UnitConditionIDs:   conditionIDs,
	}
}

func mustCreate(t *testing.T, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("seed %T: %v", value, err)
	}
}
