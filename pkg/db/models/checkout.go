package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

// CartSnapshot is the frozen selection a checkout was priced from.
type CartSnapshot struct {
	CartID    int64             `json:"cart_id"`
	Selection Selection         `json:"selection"`
	Items     []json.RawMessage `json:"items"`
}

// Selection lists the order ids a checkout was asked to include.
type Selection struct {
	ProductOrderIDs      []int64 `json:"product_order_ids"`
	InstallationOrderIDs []int64 `json:"installation_order_ids"`
	CleaningOrderIDs     []int64 `json:"cleaning_order_ids"`
}

type Checkout struct {
	ID              int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	Reference       uuid.UUID             `gorm:"column:reference;type:uuid;not null;uniqueIndex"`
	MemberProfileID int64                 `gorm:"column:member_profile_id;not null;index"`
	CartSnapshot    CartSnapshot          `gorm:"column:cart_snapshot;type:jsonb;serializer:json"`
	Pricing         types.CheckoutPricing `gorm:"column:pricing;type:jsonb;serializer:json"`
	VoucherCode     *string               `gorm:"column:voucher_code"`
	PaymentMethod   enums.PaymentMethod   `gorm:"column:payment_method;not null"`
	PaymentDetail   map[string]any        `gorm:"column:payment_detail;type:jsonb;serializer:json"`
	PaymentStatus   enums.PaymentStatus   `gorm:"column:payment_status;not null;index"`
	ExpiredAt       time.Time             `gorm:"column:expired_at;not null;index"`
	Status          enums.RecordStatus    `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// Voucher is a discount code. Used counts successful redemptions and never exceeds Quota when Quota > 0.
type Voucher struct {
	ID          int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Code        string             `gorm:"column:code;not null;uniqueIndex"`
	Type        enums.VoucherType  `gorm:"column:type;not null"`
	Value       int64              `gorm:"column:value;not null"`
	MaxDiscount int64              `gorm:"column:max_discount;not null;default:0"`
	MinPurchase int64              `gorm:"column:min_purchase;not null;default:0"`
	Quota       int64              `gorm:"column:quota;not null;default:0"`
	Used        int64              `gorm:"column:used;not null;default:0"`
	StartAt     *time.Time         `gorm:"column:start_at"`
	EndAt       *time.Time         `gorm:"column:end_at"`
	Status      enums.RecordStatus `gorm:"column:status;not null;default:'ACTIVE'"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
