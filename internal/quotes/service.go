// Package quotes prices installation packages ahead of ordering and keeps
// each preview for later lookup.
package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/internal/catalog"
	"github.com/angelmondragon/homeservices-backend/internal/pricing"
	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
	"github.com/angelmondragon/homeservices-backend/pkg/pagination"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

// ServiceTypeInstallation is the service_type stored on installation quotes.
const ServiceTypeInstallation = "installation"

type packageResolver interface {
	Package(ctx context.Context, id int64) (catalog.Package, error)
	PackageByCode(ctx context.Context, code string) (catalog.Package, error)
	PipeGrade(ctx context.Context, id int64) (types.PipeGradeSnapshot, error)
}

type Service interface {
	PreviewInstallation(ctx context.Context, memberProfileID int64, input PreviewInput) (*Summary, error)
	GetQuote(ctx context.Context, memberProfileID, id int64, clientUUID string) (*QuoteDTO, error)
	ListQuotes(ctx context.Context, memberProfileID int64, filter ListFilter, params pagination.Params) (types.Page[QuoteDTO], error)
}

// PreviewInput names a package by id or code. Qty defaults to 1.
type PreviewInput struct {
	InstallationPackageID   *int64   `json:"installation_package_id,omitempty"`
	InstallationPackageCode *string  `json:"installation_package_code,omitempty"`
	PipeGradeID             *int64   `json:"pipe_grade_id,omitempty"`
	Length                  *float64 `json:"length,omitempty"`
	Qty                     *int     `json:"qty,omitempty"`
	ClientUUID              *string  `json:"client_uuid,omitempty"`
}

// Summary is the priced preview returned to clients and stored with the quote.
type Summary struct {
	QuoteID   int64                    `json:"quote_id,omitempty"`
	Package   PackageSummary           `json:"package"`
	PipeGrade *types.PipeGradeSnapshot `json:"pipe_grade"`
	Qty       int                      `json:"qty"`
	Pricing   types.QuotePricing       `json:"pricing"`
}

type PackageSummary struct {
	catalog.Package
	Length float64 `json:"length"`
}

type QuoteDTO struct {
	ID                      int64              `json:"id"`
	ClientUUID              *string            `json:"client_uuid"`
	ServiceType             string             `json:"service_type"`
	InstallationPackageID   int64              `json:"installation_package_id"`
	InstallationPackageCode string             `json:"installation_package_code"`
	PipeGradeID             *int64             `json:"pipe_grade_id"`
	Length                  float64            `json:"length"`
	Qty                     int                `json:"qty"`
	Pricing                 types.QuotePricing `json:"pricing"`
	Payload                 json.RawMessage    `json:"payload"`
	Status                  enums.RecordStatus `json:"status"`
	CreatedAt               time.Time          `json:"created_at"`
}

func newQuoteDTO(q *models.CheckoutQuote) QuoteDTO {
	return QuoteDTO{
		ID:                      q.ID,
		ClientUUID:              q.ClientUUID,
		ServiceType:             q.ServiceType,
		InstallationPackageID:   q.InstallationPackageID,
		InstallationPackageCode: q.InstallationPackageCode,
		PipeGradeID:             q.PipeGradeID,
		Length:                  q.Length,
		Qty:                     q.Qty,
		Pricing:                 q.Pricing,
		Payload:                 q.Payload,
		Status:                  q.Status,
		CreatedAt:               q.CreatedAt,
	}
}

type service struct {
	repo    Repository
	catalog packageResolver
	logg    *logger.Logger
}

func NewService(repo Repository, resolver packageResolver, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quotes repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, catalog: resolver, logg: logg}, nil
}

func (s *service) PreviewInstallation(ctx context.Context, memberProfileID int64, input PreviewInput) (*Summary, error) {
	code := ""
	if input.InstallationPackageCode != nil {
		code = strings.TrimSpace(*input.InstallationPackageCode)
	}
	hasID := input.InstallationPackageID != nil && *input.InstallationPackageID > 0
	if !hasID && code == "" {
		return nil, pkgerrors.Field("installation_package_id", "installation_package_id or installation_package_code is required")
	}
	qty := 1
	if input.Qty != nil {
		qty = *input.Qty
	}
	if qty < 1 {
		return nil, pkgerrors.Field("qty", "must be at least 1")
	}
	if input.Length != nil && *input.Length < 0 {
		return nil, pkgerrors.Field("length", "must not be negative")
	}
	clientUUID, err := normalizeClientUUID(input.ClientUUID)
	if err != nil {
		return nil, err
	}

	var pkg catalog.Package
	if code != "" {
		pkg, err = s.catalog.PackageByCode(ctx, code)
	} else {
		pkg, err = s.catalog.Package(ctx, *input.InstallationPackageID)
	}
	if err != nil {
		return nil, err
	}

	var grade *types.PipeGradeSnapshot
	pricePerMeter := 0.0
	if input.PipeGradeID != nil && *input.PipeGradeID > 0 {
		g, err := s.catalog.PipeGrade(ctx, *input.PipeGradeID)
		if err != nil {
			return nil, err
		}
		grade = &g
		pricePerMeter = g.PricePerMeter
	}

	// the package's own length wins over the requested one
	var length float64
	switch {
	case pkg.Length != nil:
		length = *pkg.Length
	case input.Length != nil:
		length = *input.Length
	default:
		return nil, pkgerrors.Field("length", "is required when the package has no default length")
	}

	summary := &Summary{
		Package:   PackageSummary{Package: pkg, Length: length},
		PipeGrade: grade,
		Qty:       qty,
		Pricing:   pricing.Quote(pkg.BasePrice, pricePerMeter, length, qty),
	}

	payload, err := json.Marshal(map[string]any{"request": input, "summary": summary})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode quote payload")
	}
	quote := &models.CheckoutQuote{
		MemberProfileID:         memberProfileID,
		ClientUUID:              clientUUID,
		ServiceType:             ServiceTypeInstallation,
		InstallationPackageID:   pkg.ID,
		InstallationPackageCode: pkg.Code,
		Length:                  length,
		Qty:                     qty,
		Pricing:                 summary.Pricing,
		Payload:                 payload,
		Status:                  enums.RecordStatusActive,
	}
	if grade != nil {
		id := grade.ID
		quote.PipeGradeID = &id
	}
	if err := s.repo.Create(ctx, quote); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save quote")
	}
	summary.QuoteID = quote.ID

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"quote_id":    quote.ID,
		"package_id":  pkg.ID,
		"grand_total": summary.Pricing.GrandTotal,
	}), "installation quote created")
	return summary, nil
}

func (s *service) GetQuote(ctx context.Context, memberProfileID, id int64, clientUUID string) (*QuoteDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.Field("id", "must be a positive integer")
	}
	normalized, err := normalizeClientUUID(&clientUUID)
	if err != nil {
		return nil, err
	}
	quote, err := s.repo.Find(ctx, memberProfileID, id, derefString(normalized))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found").
			WithDetails(map[string]any{"entity": "quote", "id": id})
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load quote")
	}
	dto := newQuoteDTO(quote)
	return &dto, nil
}

func (s *service) ListQuotes(ctx context.Context, memberProfileID int64, filter ListFilter, params pagination.Params) (types.Page[QuoteDTO], error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return types.Page[QuoteDTO]{}, pkgerrors.Field("status", "is not a known status")
	}
	normalized, err := normalizeClientUUID(&filter.ClientUUID)
	if err != nil {
		return types.Page[QuoteDTO]{}, err
	}
	filter.ClientUUID = derefString(normalized)
	rows, total, err := s.repo.List(ctx, memberProfileID, filter, params.Offset(), params.PageSize)
	if err != nil {
		return types.Page[QuoteDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list quotes")
	}
	items := make([]QuoteDTO, 0, len(rows))
	for i := range rows {
		items = append(items, newQuoteDTO(&rows[i]))
	}
	return pagination.NewPage(items, params, total), nil
}

// normalizeClientUUID accepts an empty value or a canonical uuid.
func normalizeClientUUID(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Field("client_uuid", "must be a valid uuid")
	}
	out := parsed.String()
	return &out, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
