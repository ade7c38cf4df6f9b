package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/angelmondragon/homeservices-backend/api/middleware"
	cartsvc "github.com/angelmondragon/homeservices-backend/internal/cart"
	"github.com/angelmondragon/homeservices-backend/internal/lineitem"
	"github.com/angelmondragon/homeservices-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
)

type stubCartService struct {
	view       *cartsvc.View
	item       lineitem.LineItem
	err        error
	lastMember int64
	lastRef    lineitem.OrderRef
	lastRefs   lineitem.RefSet
}

func (s *stubCartService) AddToCart(_ context.Context, memberProfileID int64, ref lineitem.OrderRef) (lineitem.LineItem, error) {
	s.lastMember = memberProfileID
	s.lastRef = ref
	return s.item, s.err
}

func (s *stubCartService) RemoveFromCart(_ context.Context, memberProfileID int64, refs lineitem.RefSet) (*cartsvc.View, error) {
	s.lastMember = memberProfileID
	s.lastRefs = refs
	return s.view, s.err
}

func (s *stubCartService) GetCart(_ context.Context, memberProfileID int64) (*cartsvc.View, error) {
	s.lastMember = memberProfileID
	return s.view, s.err
}

func (s *stubCartService) EvictOrders(context.Context, *gorm.DB, int64, lineitem.RefSet) error {
	return nil
}

func (s *stubCartService) Mutate(context.Context, *gorm.DB, int64, cartsvc.MutateFunc) (*cartsvc.View, error) {
	return s.view, s.err
}

func memberRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(middleware.WithMemberProfileID(req.Context(), 9))
}

func TestCartFetchSuccess(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{ID: 3, MemberProfileID: 9, Status: enums.RecordStatusActive}}

	resp := httptest.NewRecorder()
	CartFetch(svc, nil).ServeHTTP(resp, memberRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != 3 || svc.lastMember != 9 {
		t.Fatalf("unexpected cart %d for member %d", envelope.Data.ID, svc.lastMember)
	}
}

func TestCartFetchNotFound(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")}

	resp := httptest.NewRecorder()
	CartFetch(svc, nil).ServeHTTP(resp, memberRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartFetchRequiresMember(t *testing.T) {
	resp := httptest.NewRecorder()
	CartFetch(&stubCartService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItem(t *testing.T) {
	svc := &stubCartService{}

	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, memberRequest(http.MethodPost, "/api/v1/cart/items", `{"item_type":"Installation","order_id":12}`))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	want := lineitem.OrderRef{Type: enums.ItemTypeInstallation, ID: 12}
	if svc.lastRef != want {
		t.Fatalf("expected ref %+v got %+v", want, svc.lastRef)
	}
}

func TestCartAddItemValidation(t *testing.T) {
	tests := map[string]string{
		"unknown type":  `{"item_type":"voucher","order_id":1}`,
		"missing order": `{"item_type":"product"}`,
		"unknown field": `{"item_type":"product","order_id":1,"qty":2}`,
	}
	for name, body := range tests {
		svc := &stubCartService{}
		resp := httptest.NewRecorder()
		CartAddItem(svc, nil).ServeHTTP(resp, memberRequest(http.MethodPost, "/api/v1/cart/items", body))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", name, resp.Code)
		}
		if svc.lastMember != 0 {
			t.Fatalf("%s: service should not be called", name)
		}
	}
}

func TestCartRemoveItems(t *testing.T) {
	svc := &stubCartService{view: &cartsvc.View{ID: 3}}

	resp := httptest.NewRecorder()
	body := `{"product_order_ids":[1,2],"cleaning_order_ids":[5]}`
	CartRemoveItems(svc, nil).ServeHTTP(resp, memberRequest(http.MethodPost, "/api/v1/cart/items/remove", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastRefs.Len() != 3 || !svc.lastRefs.Contains(lineitem.OrderRef{Type: enums.ItemTypeCleaning, ID: 5}) {
		t.Fatalf("unexpected refs %+v", svc.lastRefs)
	}
}

func TestCartRemoveItemsRequiresSelection(t *testing.T) {
	resp := httptest.NewRecorder()
	CartRemoveItems(&stubCartService{}, nil).ServeHTTP(resp, memberRequest(http.MethodPost, "/api/v1/cart/items/remove", `{}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
