package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

// Catalog rows are reference data maintained outside this service. Only ACTIVE
// rows are resolvable.

type Brand struct {
	ID        int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string             `gorm:"column:name;not null"`
	Status    enums.RecordStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

type Product struct {
	ID        int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string             `gorm:"column:name;not null"`
	BrandID   *int64             `gorm:"column:brand_id"`
	Brand     *Brand             `gorm:"foreignKey:BrandID"`
	Status    enums.RecordStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

type ProductVariant struct {
	ID          int64              `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID   int64              `gorm:"column:product_id;not null;index"`
	Product     *Product           `gorm:"foreignKey:ProductID"`
	Name        string             `gorm:"column:name;not null"`
	SKU         string             `gorm:"column:sku;not null"`
	VariantCode string             `gorm:"column:variant_code"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(14,2);not null"`
	Status      enums.RecordStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// InstallationPackage is a bundled installation priced per unit, optionally with a fixed pipe length.
type InstallationPackage struct {
	ID            int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Code          string             `gorm:"column:code;not null;uniqueIndex"`
	Name          string             `gorm:"column:name;not null"`
	Description   string             `gorm:"column:description"`
	Length        *float64           `gorm:"column:length"`
	PackagePrice  decimal.Decimal    `gorm:"column:package_price;type:numeric(14,2);not null"`
	IncludedItems []string           `gorm:"column:included_items;type:jsonb;serializer:json"`
	Status        enums.RecordStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

type PipeGrade struct {
	ID            int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string             `gorm:"column:name;not null"`
	ThicknessMM   float64            `gorm:"column:thickness_mm"`
	PricePerMeter decimal.Decimal    `gorm:"column:price_per_meter;type:numeric(14,2);not null"`
	BrandID       *int64             `gorm:"column:brand_id"`
	Brand         *Brand             `gorm:"foreignKey:BrandID"`
	Status        enums.RecordStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// InstallationService is an a-la-carte service line for NON_PACKAGE installations.
type InstallationService struct {
	ID        int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Code      string             `gorm:"column:code;not null"`
	Name      string             `gorm:"column:name;not null"`
	UnitType  string             `gorm:"column:unit_type"`
	BasePrice decimal.Decimal    `gorm:"column:base_price;type:numeric(14,2);not null"`
	Status    enums.RecordStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

type CleaningCategory struct {
	ID        int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string             `gorm:"column:name;not null"`
	Status    enums.RecordStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

type CleaningType struct {
	ID         int64              `gorm:"column:id;primaryKey;autoIncrement"`
	CategoryID *int64             `gorm:"column:category_id"`
	Name       string             `gorm:"column:name;not null"`
	BasePrice  decimal.Decimal    `gorm:"column:base_price;type:numeric(14,2);not null"`
	Status     enums.RecordStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// UnitCondition describes the state of the unit to be cleaned (e.g. "very dirty").
type UnitCondition struct {
	ID        int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string             `gorm:"column:name;not null"`
	Status    enums.RecordStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
