package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/internal/cart"
	"github.com/angelmondragon/homeservices-backend/internal/lineitem"
	"github.com/angelmondragon/homeservices-backend/pkg/config"
	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
	"github.com/angelmondragon/homeservices-backend/pkg/metrics"
	"github.com/angelmondragon/homeservices-backend/pkg/outbox"
	"github.com/angelmondragon/homeservices-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/homeservices-backend/pkg/pagination"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	GetCart(ctx context.Context, memberProfileID int64) (*cart.View, error)
	Mutate(ctx context.Context, tx *gorm.DB, memberProfileID int64, fn cart.MutateFunc) (*cart.View, error)
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service executes checkout pricing, confirmation and payment reads.
type Service interface {
	PreviewCheckout(ctx context.Context, memberProfileID int64, input PreviewInput) (*Preview, error)
	ConfirmCheckout(ctx context.Context, memberProfileID int64, input ConfirmInput) (*CheckoutDTO, error)
	GetPaymentStatus(ctx context.Context, memberProfileID, checkoutID int64) (*PaymentView, error)
	GetCheckout(ctx context.Context, memberProfileID, checkoutID int64) (*CheckoutDTO, error)
	ListCheckouts(ctx context.Context, memberProfileID int64, params pagination.Params) (types.Page[CheckoutDTO], error)
}

// PreviewInput selects cart items by order id and names an optional voucher.
type PreviewInput struct {
	ProductOrderIDs      []int64
	InstallationOrderIDs []int64
	CleaningOrderIDs     []int64
	VoucherCode          string
}

func (in PreviewInput) refs() lineitem.RefSet {
	return lineitem.RefSetFromIDs(in.ProductOrderIDs, in.InstallationOrderIDs, in.CleaningOrderIDs)
}

func (in PreviewInput) selection() models.Selection {
	refs := in.refs()
	return models.Selection{
		ProductOrderIDs:      refs.IDs(enums.ItemTypeProduct),
		InstallationOrderIDs: refs.IDs(enums.ItemTypeInstallation),
		CleaningOrderIDs:     refs.IDs(enums.ItemTypeCleaning),
	}
}

type ConfirmInput struct {
	PreviewInput
	PaymentMethod enums.PaymentMethod
	PaymentDetail map[string]any
}

// Preview is a priced selection that has not been committed.
type Preview struct {
	Items       lineitem.Entries      `json:"items"`
	Pricing     types.CheckoutPricing `json:"pricing"`
	VoucherCode *string               `json:"voucher_code,omitempty"`
	Currency    string                `json:"currency"`
}

type service struct {
	repo    Repository
	carts   cartStore
	tx      txRunner
	outbox  outboxPublisher
	cfg     config.CheckoutConfig
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the checkout service.
func NewService(
	repo Repository,
	carts cartStore,
	tx txRunner,
	publisher outboxPublisher,
	cfg config.CheckoutConfig,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if cfg.VoucherRetries <= 0 {
		cfg.VoucherRetries = 3
	}
	return &service{
		repo:    repo,
		carts:   carts,
		tx:      tx,
		outbox:  publisher,
		cfg:     cfg,
		metrics: checkoutMetrics,
		logg:    logg,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) PreviewCheckout(ctx context.Context, memberProfileID int64, input PreviewInput) (*Preview, error) {
	refs := input.refs()
	if refs.Len() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptySelection, "select at least one order")
	}
	view, err := s.carts.GetCart(ctx, memberProfileID)
	if err != nil {
		return nil, emptyIfNoCart(err)
	}
	selected, err := cart.SelectByRefs(view.Items, refs)
	if err != nil {
		return nil, err
	}

	code := normalizeCode(input.VoucherCode)
	var voucher *models.Voucher
	if code != nil {
		voucher, err = s.lookupVoucher(ctx, s.repo, *code)
		if err != nil {
			return nil, err
		}
	}
	return &Preview{
		Items:       selected,
		Pricing:     Summarize(selected.Items(), voucher, s.cfg.ShippingCost, s.now()),
		VoucherCode: code,
		Currency:    s.cfg.Currency,
	}, nil
}

func (s *service) ConfirmCheckout(ctx context.Context, memberProfileID int64, input ConfirmInput) (*CheckoutDTO, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.Field("payment_method", "unsupported payment method")
	}
	refs := input.refs()
	if refs.Len() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptySelection, "select at least one order")
	}
	code := normalizeCode(input.VoucherCode)

	var (
		record   *models.Checkout
		redeemed *models.Voucher
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := s.now()

		var selected lineitem.Entries
		view, err := s.carts.Mutate(ctx, tx, memberProfileID, func(_ *models.Cart, entries lineitem.Entries) (lineitem.Entries, error) {
			picked, err := cart.SelectByRefs(entries, refs)
			if err != nil {
				return nil, err
			}
			selected = picked
			return cart.EvictByRefs(entries, refs), nil
		})
		if err != nil {
			return emptyIfNoCart(err)
		}

		subtotal := ItemsSubtotal(selected.Items())
		var discount int64
		if code != nil {
			discount, redeemed, err = s.redeem(ctx, repo, *code, subtotal, now)
			if err != nil {
				return err
			}
		}

		record = &models.Checkout{
			Reference:       uuid.New(),
			MemberProfileID: memberProfileID,
			CartSnapshot: models.CartSnapshot{
				CartID:    view.ID,
				Selection: input.selection(),
				Items:     selected.Raw(),
			},
			Pricing:       price(subtotal, s.cfg.ShippingCost, discount),
			VoucherCode:   code,
			PaymentMethod: input.PaymentMethod,
			PaymentDetail: input.PaymentDetail,
			PaymentStatus: enums.PaymentStatusWaiting,
			ExpiredAt:     now.Add(s.cfg.ExpiryWindow()).UTC(),
			Status:        enums.RecordStatusActive,
		}
		if err := repo.Create(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create checkout")
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCheckoutConfirmed,
			AggregateType: enums.AggregateCheckout,
			AggregateID:   record.ID,
			Actor:         &outbox.ActorRef{MemberProfileID: memberProfileID},
			Data: payloads.CheckoutConfirmedEvent{
				CheckoutID:      record.ID,
				Reference:       record.Reference.String(),
				MemberProfileID: memberProfileID,
				GrandTotal:      record.Pricing.GrandTotal,
				Discount:        discount,
				VoucherCode:     code,
				PaymentMethod:   record.PaymentMethod,
				ExpiredAt:       record.ExpiredAt,
			},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit checkout event")
		}
		if redeemed != nil {
			if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventVoucherRedeemed,
				AggregateType: enums.AggregateCheckout,
				AggregateID:   record.ID,
				Actor:         &outbox.ActorRef{MemberProfileID: memberProfileID},
				Data: payloads.VoucherRedeemedEvent{
					VoucherID:  redeemed.ID,
					Code:       redeemed.Code,
					CheckoutID: record.ID,
					Discount:   discount,
				},
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "emit voucher event")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncConfirmed(string(record.PaymentMethod))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"checkout_id": record.ID,
		"grand_total": record.Pricing.GrandTotal,
		"items":       len(record.CartSnapshot.Items),
	}), "checkout confirmed")
	return newCheckoutDTO(record, s.now()), nil
}

// redeem applies the voucher under the guarded quota increment. A lost race
// reloads the voucher and re-checks eligibility; an exhausted quota then
// yields no discount.
func (s *service) redeem(ctx context.Context, repo Repository, code string, subtotal int64, now time.Time) (int64, *models.Voucher, error) {
	for attempt := 1; attempt <= s.cfg.VoucherRetries; attempt++ {
		voucher, err := s.lookupVoucher(ctx, repo, code)
		if err != nil {
			return 0, nil, err
		}
		if !Eligible(voucher, subtotal, now) {
			s.metrics.IncVoucher(voucherOutcome(voucher))
			return 0, nil, nil
		}
		discount := Discount(voucher, subtotal)
		if discount == 0 {
			s.metrics.IncVoucher(metrics.VoucherIneligible)
			return 0, nil, nil
		}
		ok, err := repo.RedeemVoucher(ctx, voucher.ID)
		if err != nil {
			return 0, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "redeem voucher")
		}
		if ok {
			s.metrics.IncVoucher(metrics.VoucherApplied)
			return discount, voucher, nil
		}
		s.metrics.IncConflict("voucher")
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"voucher_id": voucher.ID,
			"attempt":    attempt,
		}), "voucher quota race lost, retrying")
	}
	return 0, nil, pkgerrors.New(pkgerrors.CodeConflict, "voucher is being redeemed concurrently, please retry")
}

// lookupVoucher returns nil for an unknown code so it prices as ineligible.
func (s *service) lookupVoucher(ctx context.Context, repo Repository, code string) (*models.Voucher, error) {
	voucher, err := repo.FindVoucherByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load voucher")
	}
	return voucher, nil
}

func (s *service) GetPaymentStatus(ctx context.Context, memberProfileID, checkoutID int64) (*PaymentView, error) {
	record, err := s.find(ctx, memberProfileID, checkoutID)
	if err != nil {
		return nil, err
	}
	return newPaymentView(record, s.now()), nil
}

func (s *service) GetCheckout(ctx context.Context, memberProfileID, checkoutID int64) (*CheckoutDTO, error) {
	record, err := s.find(ctx, memberProfileID, checkoutID)
	if err != nil {
		return nil, err
	}
	return newCheckoutDTO(record, s.now()), nil
}

func (s *service) ListCheckouts(ctx context.Context, memberProfileID int64, params pagination.Params) (types.Page[CheckoutDTO], error) {
	rows, total, err := s.repo.ListByMember(ctx, memberProfileID, params.Offset(), params.PageSize)
	if err != nil {
		return types.Page[CheckoutDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list checkouts")
	}
	now := s.now()
	items := make([]CheckoutDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *newCheckoutDTO(&rows[i], now))
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *service) find(ctx context.Context, memberProfileID, checkoutID int64) (*models.Checkout, error) {
	if checkoutID <= 0 {
		return nil, pkgerrors.Field("checkout_id", "must be a positive integer")
	}
	record, err := s.repo.FindByMember(ctx, memberProfileID, checkoutID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout not found").
			WithDetails(map[string]any{"entity": "checkout", "id": checkoutID})
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load checkout")
	}
	return record, nil
}

func normalizeCode(code string) *string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func voucherOutcome(v *models.Voucher) string {
	if v != nil && v.Quota > 0 && v.Used >= v.Quota {
		return metrics.VoucherExhausted
	}
	return metrics.VoucherIneligible
}

// emptyIfNoCart reports a missing cart as an empty selection.
func emptyIfNoCart(err error) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return pkgerrors.New(pkgerrors.CodeEmptySelection, "no cart items match the selection")
	}
	return err
}
