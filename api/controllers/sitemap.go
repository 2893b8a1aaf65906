package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/industrialpartner/storefront-backend/api/responses"
	"github.com/industrialpartner/storefront-backend/api/validators"
	sitemapsvc "github.com/industrialpartner/storefront-backend/internal/sitemap"
	"github.com/industrialpartner/storefront-backend/pkg/logger"
)

// SitemapManufacturers serves the fully crawled manufacturer feed for a brand
// letter. Partial crawls still render what was gathered.
func SitemapManufacturers(svc sitemapsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		brandName := r.URL.Query().Get("brand_name")

		feed, err := svc.Manufacturers(ctx, brandName)
		if err != nil {
			if len(feed.Manufacturers) == 0 {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if logg != nil {
				logg.Error(ctx, "manufacturer sitemap crawl incomplete", err)
			}
		}

		responses.WriteSuccess(w, feed)
	}
}

// SitemapManufacturersPage serves one page of the incremental manufacturer
// feed used by the progressive loader.
func SitemapManufacturersPage(svc sitemapsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		brandName := r.URL.Query().Get("brand_name")
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		feed, err := svc.ManufacturersPage(ctx, brandName, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, feed)
	}
}

// SitemapProducts serves the fully crawled item feed for one manufacturer.
func SitemapProducts(svc sitemapsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		manufacturerID := chi.URLParam(r, "manufacturerID")

		feed, err := svc.Products(ctx, manufacturerID)
		if err != nil {
			if len(feed.Items) == 0 {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if logg != nil {
				logg.Error(ctx, "product sitemap crawl incomplete", err)
			}
		}

		responses.WriteSuccess(w, feed)
	}
}
