package checkout

import (
	"net/http"

	"github.com/angelmondragon/homeservices-backend/api/controllers/membercontext"
	"github.com/angelmondragon/homeservices-backend/api/responses"
	"github.com/angelmondragon/homeservices-backend/api/validators"
	checkoutsvc "github.com/angelmondragon/homeservices-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
)

// PaymentDetail reports the payment state of a checkout addressed by path.
func PaymentDetail(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		memberID, err := membercontext.ResolveMemberProfileID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		checkoutID, err := validators.ParsePathID(r, "checkoutId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writePaymentStatus(w, r, svc, logg, memberID, checkoutID)
	}
}

// PaymentCheck is the body-addressed variant polled by clients.
func PaymentCheck(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		memberID, err := membercontext.ResolveMemberProfileID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentCheckRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writePaymentStatus(w, r, svc, logg, memberID, payload.CheckoutID)
	}
}

func writePaymentStatus(w http.ResponseWriter, r *http.Request, svc checkoutsvc.Service, logg *logger.Logger, memberID, checkoutID int64) {
	view, err := svc.GetPaymentStatus(r.Context(), memberID, checkoutID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, view)
}
