package models

import (
	"time"

	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

// ProductOrder is a member's product purchase. Items[0] is the priced item.
type ProductOrder struct {
	ID               int64                     `gorm:"column:id;primaryKey;autoIncrement"`
	MemberProfileID  int64                     `gorm:"column:member_profile_id;not null;index"`
	ProductVariantID int64                     `gorm:"column:product_variant_id;not null"`
	Items            []types.ProductOrderItem  `gorm:"column:items;type:jsonb;serializer:json"`
	PricingSummary   types.OrderPricingSummary `gorm:"column:pricing_summary;type:jsonb;serializer:json"`
	Note             *string                   `gorm:"column:note"`
	Status           enums.RecordStatus        `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt        time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

// InstallationDetail holds the frozen catalog data of an installation order.
type InstallationDetail struct {
	ServiceType         types.ServiceTypeRef            `json:"service_type"`
	InstallationPackage *types.PackageSnapshot          `json:"installation_package,omitempty"`
	PipeGrade           *types.PipeGradeSnapshot        `json:"pipe_grade,omitempty"`
	InstallationService []types.InstallationServiceLine `json:"installation_service,omitempty"`
}

type InstallationOrder struct {
	ID                    int64                     `gorm:"column:id;primaryKey;autoIncrement"`
	MemberProfileID       int64                     `gorm:"column:member_profile_id;not null;index"`
	ServiceType           enums.ServiceType         `gorm:"column:service_type;not null"`
	InstallationPackageID *int64                    `gorm:"column:installation_package_id"`
	PipeGradeID           *int64                    `gorm:"column:pipe_grade_id"`
	Length                float64                   `gorm:"column:length;not null;default:0"`
	Qty                   int                       `gorm:"column:qty;not null"`
	Schedule              types.Schedule            `gorm:"column:schedule;type:jsonb;serializer:json"`
	DetailAddress         types.DetailAddress       `gorm:"column:detail_address;type:jsonb;serializer:json"`
	Detail                InstallationDetail        `gorm:"column:detail_info;type:jsonb;serializer:json"`
	Pricing               types.InstallationPricing `gorm:"column:pricing;type:jsonb;serializer:json"`
	Note                  *string                   `gorm:"column:note"`
	Status                enums.RecordStatus        `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt             time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

// CleaningDetail holds the frozen catalog data of a cleaning order.
type CleaningDetail struct {
	ServiceType   types.ServiceTypeRef       `json:"service_type"`
	Category      types.Ref                  `json:"category"`
	CleaningType  types.CleaningTypeSnapshot `json:"cleaning_type"`
	UnitCondition []types.Ref                `json:"unit_condition"`
}

type CleaningOrder struct {
	ID              int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	MemberProfileID int64                 `gorm:"column:member_profile_id;not null;index"`
	CleaningTypeID  int64                 `gorm:"column:cleaning_type_id;not null"`
	Qty             int                   `gorm:"column:qty;not null"`
	Schedule        types.Schedule        `gorm:"column:schedule;type:jsonb;serializer:json"`
	DetailAddress   types.DetailAddress   `gorm:"column:detail_address;type:jsonb;serializer:json"`
	Detail          CleaningDetail        `gorm:"column:detail_info;type:jsonb;serializer:json"`
	Pricing         types.CleaningPricing `gorm:"column:pricing;type:jsonb;serializer:json"`
	Note            *string               `gorm:"column:note"`
	Status          enums.RecordStatus    `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
