package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/industrialpartner/storefront-backend/api/responses"
	"github.com/industrialpartner/storefront-backend/internal/catalog"
	pkgerrors "github.com/industrialpartner/storefront-backend/pkg/errors"
	"github.com/industrialpartner/storefront-backend/pkg/logger"
)

// ProductDetail serves one product page. The request slug must match the
// remote record's canonical slug, and a product whose canonical manufacturer
// differs from the current host redirects to that manufacturer's subdomain
// before anything renders.
func ProductDetail(browser catalog.Browser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		itemID := chi.URLParam(r, "itemID")
		slug := chi.URLParam(r, "slug")

		record, err := browser.ItemDetail(ctx, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if target := catalog.SubdomainRedirect(r.URL, r.Host, record.ManufacturerLookup()); target != "" {
			http.Redirect(w, r, target, http.StatusFound)
			return
		}

		if slug != record.Slug() {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "invalid slug"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"item_data": record})
	}
}
