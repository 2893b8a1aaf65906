package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/industrialpartner/storefront-backend/api/middleware"
	"github.com/industrialpartner/storefront-backend/pkg/session"
)

type stubCartService struct {
	data session.Data
	err  error

	added   []string
	removed []string
}

func (s *stubCartService) Add(ctx context.Context, sessionID, itemID string) (session.Data, error) {
	s.added = append(s.added, itemID)
	return s.data, s.err
}

func (s *stubCartService) Remove(ctx context.Context, sessionID, itemID string) (session.Data, error) {
	s.removed = append(s.removed, itemID)
	return s.data, s.err
}

func (s *stubCartService) Get(ctx context.Context, sessionID string) (session.Data, error) {
	return s.data, s.err
}

func (s *stubCartService) Count(ctx context.Context, sessionID string) (int, error) {
	return s.data.CartCount(), s.err
}

func (s *stubCartService) Clear(ctx context.Context, sessionID string) error {
	return s.err
}

func cartRouter(svc *stubCartService) http.Handler {
	r := chi.NewRouter()
	r.Get("/cart", ViewCart(svc, nil))
	r.Get("/cart/count", CartCount(svc, nil))
	r.Post("/cart/add/{itemID}", AddToCart(svc, nil))
	r.Post("/cart/remove/{itemID}", RemoveFromCart(svc, nil))
	return r
}

func withSession(r *http.Request) *http.Request {
	return r.WithContext(middleware.WithSessionID(r.Context(), "sess-1"))
}

func TestAddToCartReturnsUpdatedCart(t *testing.T) {
	svc := &stubCartService{data: session.Data{Cart: map[string]session.Line{
		"7": {PartNumber: "PN-7", Description: "ball valve", Quantity: 2},
	}}}

	req := withSession(httptest.NewRequest(http.MethodPost, "/cart/add/7", nil))
	rec := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if len(svc.added) != 1 || svc.added[0] != "7" {
		t.Fatalf("added = %v, want [7]", svc.added)
	}

	var envelope struct {
		Data struct {
			CartCount int `json:"cart_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CartCount != 2 {
		t.Fatalf("cart_count = %d, want 2", envelope.Data.CartCount)
	}
}

func TestRemoveFromCartPassesItemID(t *testing.T) {
	svc := &stubCartService{data: session.Data{Cart: map[string]session.Line{}}}

	req := withSession(httptest.NewRequest(http.MethodPost, "/cart/remove/9", nil))
	rec := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if len(svc.removed) != 1 || svc.removed[0] != "9" {
		t.Fatalf("removed = %v, want [9]", svc.removed)
	}
}

func TestCartCountEndpoint(t *testing.T) {
	svc := &stubCartService{data: session.Data{Cart: map[string]session.Line{
		"7": {Quantity: 2},
		"9": {Quantity: 1},
	}}}

	req := withSession(httptest.NewRequest(http.MethodGet, "/cart/count", nil))
	rec := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(rec, req)

	var envelope struct {
		Data struct {
			CartCount int `json:"cart_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CartCount != 3 {
		t.Fatalf("cart_count = %d, want 3", envelope.Data.CartCount)
	}
}

func TestCartHandlersRequireSession(t *testing.T) {
	svc := &stubCartService{}

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without session context, got %d", rec.Code)
	}
}
