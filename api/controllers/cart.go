package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/industrialpartner/storefront-backend/api/middleware"
	"github.com/industrialpartner/storefront-backend/api/responses"
	cartsvc "github.com/industrialpartner/storefront-backend/internal/cart"
	pkgerrors "github.com/industrialpartner/storefront-backend/pkg/errors"
	"github.com/industrialpartner/storefront-backend/pkg/logger"
)

// AddToCart inserts an item into the session cart, or bumps its quantity.
func AddToCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionID(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		data, err := svc.Add(ctx, sessionID, chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"cart":       data.Cart,
			"cart_count": data.CartCount(),
		})
	}
}

// RemoveFromCart deletes an item from the session cart. Removing an item that
// is not there succeeds quietly.
func RemoveFromCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionID(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		data, err := svc.Remove(ctx, sessionID, chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"cart":       data.Cart,
			"cart_count": data.CartCount(),
		})
	}
}

// ViewCart returns the session cart contents.
func ViewCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionID(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		data, err := svc.Get(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"cart":       data.Cart,
			"cart_count": data.CartCount(),
		})
	}
}

// CartCount returns the total quantity across the session cart.
func CartCount(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionID(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		count, err := svc.Count(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"cart_count": count})
	}
}
