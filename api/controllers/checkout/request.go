package checkout

import (
	"strings"

	"github.com/angelmondragon/homeservices-backend/api/validators"
	checkoutsvc "github.com/angelmondragon/homeservices-backend/internal/checkout"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
)

const maxVoucherCodeLength = 64

type selectionRequest struct {
	ProductOrderIDs      []int64 `json:"product_order_ids"`
	InstallationOrderIDs []int64 `json:"installation_order_ids"`
	CleaningOrderIDs     []int64 `json:"cleaning_order_ids"`
	VoucherCode          *string `json:"voucher_code"`
}

func (r selectionRequest) toInput() checkoutsvc.PreviewInput {
	in := checkoutsvc.PreviewInput{
		ProductOrderIDs:      r.ProductOrderIDs,
		InstallationOrderIDs: r.InstallationOrderIDs,
		CleaningOrderIDs:     r.CleaningOrderIDs,
	}
	if code := validators.SanitizeOptional(r.VoucherCode, maxVoucherCodeLength); code != nil {
		in.VoucherCode = *code
	}
	return in
}

type confirmRequest struct {
	selectionRequest
	PaymentMethod string         `json:"payment_method" validate:"required"`
	PaymentDetail map[string]any `json:"payment_detail"`
}

func (r confirmRequest) toInput() checkoutsvc.ConfirmInput {
	return checkoutsvc.ConfirmInput{
		PreviewInput:  r.selectionRequest.toInput(),
		PaymentMethod: enums.PaymentMethod(strings.ToUpper(strings.TrimSpace(r.PaymentMethod))),
		PaymentDetail: r.PaymentDetail,
	}
}

type paymentCheckRequest struct {
	CheckoutID int64 `json:"checkout_id" validate:"required,min=1"`
}
