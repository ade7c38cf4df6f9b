package orders

import (
	"time"

	"github.com/angelmondragon/homeservices-backend/internal/catalog"
	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

type ProductOrderInput struct {
	ProductVariantID int64
	Qty              int
	Note             *string
}

type InstallationOrderInput struct {
	ServiceType           enums.ServiceType
	InstallationPackageID *int64
	PipeGradeID           *int64
	InstallationService   []catalog.ServiceRequest
	// Length in meters; when zero the package's default length applies.
	Length        float64
	Qty           int
	Schedule      *ScheduleInput
	DetailAddress map[string]any
	Note          *string
}

type CleaningOrderInput struct {
	CategoryID       *int64
	CleaningTypeID   int64
	UnitConditionIDs []int64
	Qty              int
	Schedule         *ScheduleInput
	DetailAddress    map[string]any
	Note             *string
	// CleaningTypePrice overrides the catalog base price when set.
	CleaningTypePrice *float64
}

type ProductOrderDTO struct {
	ID               int64                     `json:"id"`
	MemberProfileID  int64                     `json:"member_profile_id"`
	ProductVariantID int64                     `json:"product_variant_id"`
	Items            []types.ProductOrderItem  `json:"items"`
	PricingSummary   types.OrderPricingSummary `json:"pricing_summary"`
	Note             *string                   `json:"note"`
	Status           enums.RecordStatus        `json:"status"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

func newProductOrderDTO(o *models.ProductOrder) ProductOrderDTO {
	return ProductOrderDTO{
		ID:               o.ID,
		MemberProfileID:  o.MemberProfileID,
		ProductVariantID: o.ProductVariantID,
		Items:            o.Items,
		PricingSummary:   o.PricingSummary,
		Note:             o.Note,
		Status:           o.Status,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

type InstallationOrderDTO struct {
	ID                    int64                     `json:"id"`
	MemberProfileID       int64                     `json:"member_profile_id"`
	ServiceType           types.ServiceTypeRef      `json:"service_type"`
	InstallationPackageID *int64                    `json:"installation_package_id"`
	PipeGradeID           *int64                    `json:"pipe_grade_id"`
	Length                float64                   `json:"length"`
	Qty                   int                       `json:"qty"`
	Schedule              types.Schedule            `json:"schedule"`
	DetailAddress         types.DetailAddress       `json:"detail_address"`
	DetailInfo            models.InstallationDetail `json:"detail_info"`
	Pricing               types.InstallationPricing `json:"pricing"`
	Note                  *string                   `json:"note"`
	Status                enums.RecordStatus        `json:"status"`
	CreatedAt             time.Time                 `json:"created_at"`
	UpdatedAt             time.Time                 `json:"updated_at"`
}

func newInstallationOrderDTO(o *models.InstallationOrder) InstallationOrderDTO {
	return InstallationOrderDTO{
		ID:                    o.ID,
		MemberProfileID:       o.MemberProfileID,
		ServiceType:           types.ServiceTypeRef{ID: int(o.ServiceType), Name: o.ServiceType.Name()},
		InstallationPackageID: o.InstallationPackageID,
		PipeGradeID:           o.PipeGradeID,
		Length:                o.Length,
		Qty:                   o.Qty,
		Schedule:              o.Schedule,
		DetailAddress:         o.DetailAddress,
		DetailInfo:            o.Detail,
		Pricing:               o.Pricing,
		Note:                  o.Note,
		Status:                o.Status,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
}

type CleaningOrderDTO struct {
	ID              int64                 `json:"id"`
	MemberProfileID int64                 `json:"member_profile_id"`
	CleaningTypeID  int64                 `json:"cleaning_type_id"`
	Qty             int                   `json:"qty"`
	Schedule        types.Schedule        `json:"schedule"`
	DetailAddress   types.DetailAddress   `json:"detail_address"`
	DetailInfo      models.CleaningDetail `json:"detail_info"`
	Pricing         types.CleaningPricing `json:"pricing"`
	Note            *string               `json:"note"`
	Status          enums.RecordStatus    `json:"status"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

func newCleaningOrderDTO(o *models.CleaningOrder) CleaningOrderDTO {
	return CleaningOrderDTO{
		ID:              o.ID,
		MemberProfileID: o.MemberProfileID,
		CleaningTypeID:  o.CleaningTypeID,
		Qty:             o.Qty,
		Schedule:        o.Schedule,
		DetailAddress:   o.DetailAddress,
		DetailInfo:      o.Detail,
		Pricing:         o.Pricing,
		Note:            o.Note,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
