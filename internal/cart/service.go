package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/internal/catalog"
	"github.com/angelmondragon/homeservices-backend/internal/lineitem"
	"github.com/angelmondragon/homeservices-backend/pkg/config"
	"github.com/angelmondragon/homeservices-backend/pkg/db"
	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
)

type orderResolver interface {
	ResolveOrder(ctx context.Context, memberProfileID int64, itemType enums.ItemType, id int64) (catalog.ResolvedOrder, error)
}

// MutateFunc rewrites the entries of a loaded cart. It may run more than once
// when a concurrent writer wins the version race.
type MutateFunc func(cart *models.Cart, entries lineitem.Entries) (lineitem.Entries, error)

// Service exposes cart operations.
type Service interface {
	AddToCart(ctx context.Context, memberProfileID int64, ref lineitem.OrderRef) (lineitem.LineItem, error)
	RemoveFromCart(ctx context.Context, memberProfileID int64, refs lineitem.RefSet) (*View, error)
	GetCart(ctx context.Context, memberProfileID int64) (*View, error)
	// EvictOrders strips refs from the member's cart inside tx. A member
	// without a cart is not an error.
	EvictOrders(ctx context.Context, tx *gorm.DB, memberProfileID int64, refs lineitem.RefSet) error
	// Mutate applies fn to the member's open cart inside tx under the version
	// check and returns the cart as written.
	Mutate(ctx context.Context, tx *gorm.DB, memberProfileID int64, fn MutateFunc) (*View, error)
}

type service struct {
	repo     CartRepository
	resolver orderResolver
	cfg      config.CartConfig
	logg     *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, resolver orderResolver, cfg config.CartConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("order resolver required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &service{repo: repo, resolver: resolver, cfg: cfg, logg: logg}, nil
}

// View is the cart as returned to clients.
type View struct {
	ID              int64              `json:"id"`
	MemberProfileID int64              `json:"member_profile_id"`
	Status          enums.RecordStatus `json:"status"`
	Items           lineitem.Entries   `json:"items"`
	Subtotal        int64              `json:"subtotal"`
	Version         int64              `json:"version"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func newView(cart *models.Cart, entries lineitem.Entries) *View {
	return &View{
		ID:              cart.ID,
		MemberProfileID: cart.MemberProfileID,
		Status:          cart.Status,
		Items:           entries,
		Subtotal:        Total(entries),
		Version:         cart.Version,
		CreatedAt:       cart.CreatedAt,
		UpdatedAt:       cart.UpdatedAt,
	}
}

func (s *service) AddToCart(ctx context.Context, memberProfileID int64, ref lineitem.OrderRef) (lineitem.LineItem, error) {
	if !ref.Type.IsValid() {
		return lineitem.LineItem{}, pkgerrors.Field("item_type", "must be product, installation or cleaning")
	}
	resolved, err := s.resolver.ResolveOrder(ctx, memberProfileID, ref.Type, ref.ID)
	if err != nil {
		return lineitem.LineItem{}, err
	}
	item, err := lineitem.Build(resolved)
	if err != nil {
		return lineitem.LineItem{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build cart item")
	}

	upsert := func(_ *models.Cart, entries lineitem.Entries) (lineitem.Entries, error) {
		return Upsert(entries, item)
	}
	if _, err := s.mutate(ctx, s.repo, memberProfileID, upsert, true); err != nil {
		return lineitem.LineItem{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"item_type": ref.Type,
		"order_id":  ref.ID,
	}), "cart item upserted")
	return item, nil
}

func (s *service) RemoveFromCart(ctx context.Context, memberProfileID int64, refs lineitem.RefSet) (*View, error) {
	if refs.Len() == 0 {
		return nil, pkgerrors.Field("order_ids", "at least one order id is required")
	}
	evict := func(_ *models.Cart, entries lineitem.Entries) (lineitem.Entries, error) {
		return EvictByRefs(entries, refs), nil
	}
	return s.mutate(ctx, s.repo, memberProfileID, evict, false)
}

func (s *service) GetCart(ctx context.Context, memberProfileID int64) (*View, error) {
	cart, err := s.repo.FindOpenByMember(ctx, memberProfileID)
	if err != nil {
		return nil, cartLookupError(err)
	}
	return newView(cart, lineitem.DecodeEntries(cart.Items)), nil
}

func (s *service) EvictOrders(ctx context.Context, tx *gorm.DB, memberProfileID int64, refs lineitem.RefSet) error {
	if refs.Len() == 0 {
		return nil
	}
	evict := func(_ *models.Cart, entries lineitem.Entries) (lineitem.Entries, error) {
		return EvictByRefs(entries, refs), nil
	}
	_, err := s.mutate(ctx, s.repo.WithTx(tx), memberProfileID, evict, false)
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return nil
	}
	return err
}

func (s *service) Mutate(ctx context.Context, tx *gorm.DB, memberProfileID int64, fn MutateFunc) (*View, error) {
	return s.mutate(ctx, s.repo.WithTx(tx), memberProfileID, fn, false)
}

// mutate runs the read-modify-write cycle under an optimistic version check,
// retrying a bounded number of times before surfacing CONFLICT.
func (s *service) mutate(ctx context.Context, repo CartRepository, memberProfileID int64, fn MutateFunc, create bool) (*View, error) {
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		cart, err := repo.FindOpenByMember(ctx, memberProfileID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound) && create:
			view, created, err := s.createWith(ctx, repo, memberProfileID, fn)
			if err != nil {
				return nil, err
			}
			if created {
				return view, nil
			}
			continue
		case err != nil:
			return nil, cartLookupError(err)
		}

		entries, err := fn(cart, lineitem.DecodeEntries(cart.Items))
		if err != nil {
			return nil, err
		}
		ok, err := repo.UpdateItems(ctx, cart.ID, cart.Version, entries.Raw())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart items")
		}
		if ok {
			cart.Items = entries.Raw()
			cart.Version++
			return newView(cart, entries), nil
		}
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"cart_id": cart.ID,
			"attempt": attempt,
		}), "cart version conflict, retrying")
	}
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart was modified concurrently, please retry")
}

// createWith inserts the member's first cart. A unique violation means a
// concurrent request created it first; the caller then retries as an update.
func (s *service) createWith(ctx context.Context, repo CartRepository, memberProfileID int64, fn MutateFunc) (*View, bool, error) {
	cart := &models.Cart{MemberProfileID: memberProfileID, Status: enums.RecordStatusActive}
	entries, err := fn(cart, nil)
	if err != nil {
		return nil, false, err
	}
	cart.Items = entries.Raw()
	if err := repo.Create(ctx, cart); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, false, nil
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	return newView(cart, entries), true, nil
}

func cartLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found").
			WithDetails(map[string]any{"entity": "cart"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
}
