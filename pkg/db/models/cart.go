package models

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

// Cart is the single open cart of a member. Items are kept as raw JSON so
// entries this service cannot decode survive every rewrite untouched.
// ux_carts_member_open is partial, so closed carts never block a new one.
type Cart struct {
	ID              int64              `gorm:"column:id;primaryKey;autoIncrement"`
	MemberProfileID int64              `gorm:"column:member_profile_id;not null;index;uniqueIndex:ux_carts_member_open,where:status IN ('ACTIVE'\\, 'DRAFT')"`
	Items           []json.RawMessage  `gorm:"column:items;type:jsonb;serializer:json"`
	Status          enums.RecordStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	// Version is bumped on every items write and guards compare-and-swap updates.
	Version   int64     `gorm:"column:version;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
