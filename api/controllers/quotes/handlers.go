package quotes

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/homeservices-backend/api/controllers/membercontext"
	"github.com/angelmondragon/homeservices-backend/api/responses"
	"github.com/angelmondragon/homeservices-backend/api/validators"
	quotesvc "github.com/angelmondragon/homeservices-backend/internal/quotes"
	"github.com/angelmondragon/homeservices-backend/pkg/config"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
)

// PreviewInstallation prices an installation package and stores the quote.
func PreviewInstallation(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}
		memberID, err := membercontext.ResolveMemberProfileID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quotesvc.PreviewInput
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.PreviewInstallation(r.Context(), memberID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}

// Detail returns one quote. A client_uuid query parameter must match too.
func Detail(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}
		memberID, err := membercontext.ResolveMemberProfileID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quoteID, err := validators.ParsePathID(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.GetQuote(r.Context(), memberID, quoteID, strings.TrimSpace(r.URL.Query().Get("client_uuid")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

func List(svc quotesvc.Service, cfg config.PaginationConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}
		memberID, err := membercontext.ResolveMemberProfileID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := parseListFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListQuotes(r.Context(), memberID, filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func parseListFilter(r *http.Request) (quotesvc.ListFilter, error) {
	q := r.URL.Query()
	filter := quotesvc.ListFilter{
		ClientUUID:  strings.TrimSpace(q.Get("client_uuid")),
		ServiceType: strings.TrimSpace(q.Get("service_type")),
	}
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status, err := enums.ParseRecordStatus(strings.ToUpper(raw))
		if err != nil {
			return quotesvc.ListFilter{}, pkgerrors.Field("status", "is not a known status")
		}
		filter.Status = status
	}
	return filter, nil
}
