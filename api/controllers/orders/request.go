package orders

import (
	"bytes"
	"encoding/json"

	"github.com/angelmondragon/homeservices-backend/api/validators"
	"github.com/angelmondragon/homeservices-backend/internal/catalog"
	internalorders "github.com/angelmondragon/homeservices-backend/internal/orders"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
)

const maxNoteLength = 1000

// looseValue holds a JSON number or string as text.
type looseValue string

func (v *looseValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = looseValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = looseValue(n.String())
	return nil
}

type productOrderRequest struct {
	ProductVariantID int64   `json:"product_variant_id" validate:"required,min=1"`
	Qty              int     `json:"qty" validate:"required,min=1"`
	Note             *string `json:"note"`
}

func (r productOrderRequest) toInput() internalorders.ProductOrderInput {
	return internalorders.ProductOrderInput{
		ProductVariantID: r.ProductVariantID,
		Qty:              r.Qty,
		Note:             validators.SanitizeOptional(r.Note, maxNoteLength),
	}
}

type installationOrderRequest struct {
	ServiceType           looseValue                    `json:"service_type"`
	InstallationPackageID *int64                        `json:"installation_package_id"`
	PipeGradeID           *int64                        `json:"pipe_grade_id"`
	InstallationService   []catalog.ServiceRequest      `json:"installation_service"`
	Length                float64                       `json:"length"`
	Qty                   int                           `json:"qty"`
	Schedule              *internalorders.ScheduleInput `json:"schedule"`
	DetailAddress         map[string]any                `json:"detail_address"`
	Note                  *string                       `json:"note"`
}

func (r installationOrderRequest) toInput() (internalorders.InstallationOrderInput, error) {
	if r.ServiceType == "" {
		return internalorders.InstallationOrderInput{}, pkgerrors.Field("service_type", "is required")
	}
	serviceType, err := enums.ParseServiceType(string(r.ServiceType))
	if err != nil || !serviceType.IsInstallation() {
		return internalorders.InstallationOrderInput{}, pkgerrors.Field("service_type", "must be 1 (PACKAGE) or 2 (NON_PACKAGE)")
	}
	return internalorders.InstallationOrderInput{
		ServiceType:           serviceType,
		InstallationPackageID: r.InstallationPackageID,
		PipeGradeID:           r.PipeGradeID,
		InstallationService:   r.InstallationService,
		Length:                r.Length,
		Qty:                   r.Qty,
		Schedule:              r.Schedule,
		DetailAddress:         r.DetailAddress,
		Note:                  validators.SanitizeOptional(r.Note, maxNoteLength),
	}, nil
}

type cleaningPricingRequest struct {
	CleaningTypePrice *float64 `json:"cleaning_type_price"`
}

type cleaningOrderRequest struct {
	Category       *int64                        `json:"category"`
	CleaningTypeID int64                         `json:"cleaning_type_id" validate:"required,min=1"`
	UnitCondition  []int64                       `json:"unit_condition"`
	Qty            int                           `json:"qty"`
	Schedule       *internalorders.ScheduleInput `json:"schedule"`
	DetailAddress  map[string]any                `json:"detail_address"`
	Note           *string                       `json:"note"`
	Pricing        *cleaningPricingRequest       `json:"pricing"`
}

func (r cleaningOrderRequest) toInput() internalorders.CleaningOrderInput {
	in := internalorders.CleaningOrderInput{
		CategoryID:       r.Category,
		CleaningTypeID:   r.CleaningTypeID,
		UnitConditionIDs: r.UnitCondition,
		Qty:              r.Qty,
		Schedule:         r.Schedule,
		DetailAddress:    r.DetailAddress,
		Note:             validators.SanitizeOptional(r.Note, maxNoteLength),
	}
	if r.Pricing != nil {
		in.CleaningTypePrice = r.Pricing.CleaningTypePrice
	}
	return in
}
