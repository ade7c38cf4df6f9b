package models

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

// CheckoutQuote is a persisted installation price preview.
type CheckoutQuote struct {
	ID                      int64              `gorm:"column:id;primaryKey;autoIncrement"`
	MemberProfileID         int64              `gorm:"column:member_profile_id;not null;index"`
	ClientUUID              *string            `gorm:"column:client_uuid;index"`
	ServiceType             string             `gorm:"column:service_type;not null"`
	InstallationPackageID   int64              `gorm:"column:installation_package_id;not null"`
	InstallationPackageCode string             `gorm:"column:installation_package_code"`
	PipeGradeID             *int64             `gorm:"column:pipe_grade_id"`
	Length                  float64            `gorm:"column:length;not null"`
	Qty                     int                `gorm:"column:qty;not null"`
	Pricing                 types.QuotePricing `gorm:"column:pricing;type:jsonb;serializer:json"`
	Payload                 json.RawMessage    `gorm:"column:payload;type:jsonb;serializer:json"`
	Status                  enums.RecordStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt               time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (CheckoutQuote) TableName() string {
	return "service_checkout_previews"
}
