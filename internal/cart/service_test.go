package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/internal/catalog"
	"github.com/angelmondragon/homeservices-backend/internal/lineitem"
	"github.com/angelmondragon/homeservices-backend/pkg/config"
	pkgdb "github.com/angelmondragon/homeservices-backend/pkg/db"
	"github.com/angelmondragon/homeservices-backend/pkg/db/dbtest"
	"github.com/angelmondragon/homeservices-backend/pkg/db/models"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

// stubResolver serves product orders priced at id*1000.
type stubResolver struct {
	calls int
	err   error
}

func (s *stubResolver) ResolveOrder(_ context.Context, _ int64, itemType enums.ItemType, id int64) (catalog.ResolvedOrder, error) {
	s.calls++
	if s.err != nil {
		return catalog.ResolvedOrder{}, s.err
	}
	total := id*1000 + int64(s.calls)
	switch itemType {
	case enums.ItemTypeCleaning:
		return catalog.ResolvedOrder{Cleaning: &models.CleaningOrder{
			ID: id, Qty: 1, Pricing: types.CleaningPricing{TotalPerUnit: float64(total), GrandTotal: total},
		}}, nil
	default:
		item := types.ProductOrderItem{ProductVariantID: 1, Name: "Split AC", Qty: 1, Price: float64(total)}
		return catalog.ResolvedOrder{Product: &catalog.ResolvedProduct{
			Order: models.ProductOrder{
				ID:             id,
				Items:          []types.ProductOrderItem{item},
				PricingSummary: types.OrderPricingSummary{Subtotal: total, GrandTotal: total},
			},
			Item: item,
		}}, nil
	}
}

func newTestService(t *testing.T, repo CartRepository, resolver orderResolver) Service {
	t.Helper()
	svc, err := NewService(repo, resolver, config.CartConfig{MaxRetries: 3}, logger.Nop())
	require.NoError(t, err)
	return svc
}

func openCartDB(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Open(t, &models.Cart{})
}

func TestAddToCartCreatesCart(t *testing.T) {
	t.Parallel()
	db := openCartDB(t)
	svc := newTestService(t, NewRepository(db), &stubResolver{})
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, 42, lineitem.OrderRef{Type: enums.ItemTypeProduct, ID: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(9), item.OrderID)

	view, err := svc.GetCart(ctx, 42)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, enums.RecordStatusActive, view.Status)
	assert.Equal(t, int64(9001), view.Subtotal)
}

func TestAddToCartUpsertDoesNotDuplicate(t *testing.T) {
	t.Parallel()
	db := openCartDB(t)
	resolver := &stubResolver{}
	svc := newTestService(t, NewRepository(db), resolver)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 42, lineitem.OrderRef{Type: enums.ItemTypeProduct, ID: 9})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, 42, lineitem.OrderRef{Type: enums.ItemTypeCleaning, ID: 5})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, 42, lineitem.OrderRef{Type: enums.ItemTypeProduct, ID: 9})
	require.NoError(t, err)

	view, err := svc.GetCart(ctx, 42)
	require.NoError(t, err)
	items := view.Items.Items()
	require.Len(t, items, 2)
	assert.Equal(t, lineitem.OrderRef{Type: enums.ItemTypeCleaning, ID: 5}, items[0].Ref())
	assert.Equal(t, lineitem.OrderRef{Type: enums.ItemTypeProduct, ID: 9}, items[1].Ref())
	// newest pricing wins
	assert.Equal(t, int64(9003), items[1].PricingSummary.Total())
	assert.Equal(t, int64(2), view.Version)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("member_profile_id = ?", 42).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddToCartPropagatesResolverError(t *testing.T) {
	t.Parallel()
	db := openCartDB(t)
	notFound := pkgerrors.New(pkgerrors.CodeNotFound, "product_order not found")
	svc := newTestService(t, NewRepository(db), &stubResolver{err: notFound})

	_, err := svc.AddToCart(context.Background(), 42, lineitem.OrderRef{Type: enums.ItemTypeProduct, ID: 9})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAddToCartRejectsUnknownType(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, NewRepository(openCartDB(t)), &stubResolver{})

	_, err := svc.AddToCart(context.Background(), 42, lineitem.OrderRef{Type: "voucher", ID: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestRemoveFromCartPreservesMalformedEntries(t *testing.T) {
	t.Parallel()
	db := openCartDB(t)
	svc := newTestService(t, NewRepository(db), &stubResolver{})
	ctx := context.Background()

	legacy := json.RawMessage(`{"legacy":true}`)
	cart := models.Cart{MemberProfileID: 42, Status: enums.RecordStatusDraft, Items: []json.RawMessage{legacy}}
	require.NoError(t, db.Create(&cart).Error)

	_, err := svc.AddToCart(ctx, 42, lineitem.OrderRef{Type: enums.ItemTypeCleaning, ID: 5})
	require.NoError(t, err)

	view, err := svc.RemoveFromCart(ctx, 42, lineitem.RefSetFromIDs(nil, nil, []int64{5}))
	require.NoError(t, err)
	assert.Equal(t, cart.ID, view.ID)
	require.Len(t, view.Items, 1)
	assert.JSONEq(t, string(legacy), string(view.Items[0].Raw()))
}

func TestRemoveFromCartWithoutCart(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, NewRepository(openCartDB(t)), &stubResolver{})

	_, err := svc.RemoveFromCart(context.Background(), 42, lineitem.RefSetFromIDs([]int64{1}, nil, nil))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.RemoveFromCart(context.Background(), 42, lineitem.RefSetFromIDs(nil, nil, nil))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestEvictOrdersToleratesMissingCart(t *testing.T) {
	t.Parallel()
	db := openCartDB(t)
	svc := newTestService(t, NewRepository(db), &stubResolver{})

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.EvictOrders(context.Background(), tx, 42, lineitem.RefSetFromIDs([]int64{1}, nil, nil))
	})
	assert.NoError(t, err)
}

// racingRepo reports a lost version race on every update.
type racingRepo struct {
	cart    models.Cart
	updates int
}

func (r *racingRepo) WithTx(*gorm.DB) CartRepository { return r }

func (r *racingRepo) FindOpenByMember(context.Context, int64) (*models.Cart, error) {
	cart := r.cart
	return &cart, nil
}

func (r *racingRepo) Create(context.Context, *models.Cart) error { return nil }

func (r *racingRepo) UpdateItems(context.Context, int64, int64, []json.RawMessage) (bool, error) {
	r.updates++
	return false, nil
}

func TestMutateSurfacesConflictAfterRetries(t *testing.T) {
	t.Parallel()
	repo := &racingRepo{cart: models.Cart{ID: 1, MemberProfileID: 42, Status: enums.RecordStatusActive}}
	svc := newTestService(t, repo, &stubResolver{})

	_, err := svc.AddToCart(context.Background(), 42, lineitem.OrderRef{Type: enums.ItemTypeProduct, ID: 9})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, 3, repo.updates)
}

func TestUpdateItemsRejectsStaleVersion(t *testing.T) {
	t.Parallel()
	db := openCartDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	cart := &models.Cart{MemberProfileID: 7}
	require.NoError(t, repo.Create(ctx, cart))

	ok, err := repo.UpdateItems(ctx, cart.ID, cart.Version, []json.RawMessage{json.RawMessage(`{"a":1}`)})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateItems(ctx, cart.ID, cart.Version, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.FindOpenByMember(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	require.Len(t, stored.Items, 1)
}

func TestCreateEnforcesOneOpenCartPerMember(t *testing.T) {
	t.Parallel()
	db := openCartDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := &models.Cart{MemberProfileID: 7, Status: enums.RecordStatusActive}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &models.Cart{MemberProfileID: 7, Status: enums.RecordStatusDraft})
	require.Error(t, err)
	assert.True(t, pkgdb.IsUniqueViolation(err, ""))

	// a closed cart is outside the partial index
	require.NoError(t, db.Model(&models.Cart{}).Where("id = ?", first.ID).Update("status", enums.RecordStatusDeleted).Error)
	require.NoError(t, repo.Create(ctx, &models.Cart{MemberProfileID: 7, Status: enums.RecordStatusActive}))
	require.NoError(t, repo.Create(ctx, &models.Cart{MemberProfileID: 8, Status: enums.RecordStatusActive}))
}

// lateRepo hides the member's cart from the first lookup, as if a concurrent
// request created it between the read and the insert.
type lateRepo struct {
	*Repository
	lookups int
}

func (r *lateRepo) WithTx(*gorm.DB) CartRepository { return r }

func (r *lateRepo) FindOpenByMember(ctx context.Context, memberProfileID int64) (*models.Cart, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.Repository.FindOpenByMember(ctx, memberProfileID)
}

func TestAddToCartFallsBackToUpdateWhenCreateLosesRace(t *testing.T) {
	t.Parallel()
	db := openCartDB(t)
	ctx := context.Background()
	resolver := &stubResolver{}

	_, err := newTestService(t, NewRepository(db), resolver).AddToCart(ctx, 42, lineitem.OrderRef{Type: enums.ItemTypeProduct, ID: 9})
	require.NoError(t, err)

	late := &lateRepo{Repository: NewRepository(db)}
	_, err = newTestService(t, late, resolver).AddToCart(ctx, 42, lineitem.OrderRef{Type: enums.ItemTypeCleaning, ID: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, late.lookups)

	var carts []models.Cart
	require.NoError(t, db.Where("member_profile_id = ?", 42).Find(&carts).Error)
	require.Len(t, carts, 1)
	assert.Equal(t, int64(1), carts[0].Version)

	entries := lineitem.DecodeEntries(carts[0].Items)
	items := entries.Items()
	require.Len(t, items, 2)
	assert.Equal(t, lineitem.OrderRef{Type: enums.ItemTypeProduct, ID: 9}, items[0].Ref())
	assert.Equal(t, lineitem.OrderRef{Type: enums.ItemTypeCleaning, ID: 5}, items[1].Ref())
}
