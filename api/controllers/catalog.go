package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/industrialpartner/storefront-backend/api/responses"
	"github.com/industrialpartner/storefront-backend/internal/catalog"
	featuredsvc "github.com/industrialpartner/storefront-backend/internal/featured"
	"github.com/industrialpartner/storefront-backend/pkg/logger"
	"github.com/industrialpartner/storefront-backend/pkg/pagination"
)

const (
	defaultBrandName        = "A"
	unknownManufacturerName = "Unknown Manufacturer"
)

// Home serves the storefront index: the manufacturer directory for a brand
// letter plus the locally curated featured products. A manufacturer subdomain
// scopes the view to that manufacturer's items, falling back to the directory
// when the code matches nothing.
func Home(browser catalog.Browser, featured featuredsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		page := pagination.ParsePage(r.URL.Query().Get("page"))

		if code := catalog.ResolveSubdomain(r.Host); code != "" {
			listing, err := browser.Items(ctx, catalog.ItemsQuery{ManufacturerLookup: code, Page: page})
			if err == nil && len(listing.Items) > 0 {
				responses.WriteSuccess(w, map[string]any{
					"manufacturer_lookup": code,
					"items":               listing.Items,
					"pagination":          pagination.MetaFromRemote(listing.Pages, page, listing.Size, listing.Total),
				})
				return
			}
		}

		brandName := r.URL.Query().Get("brand_name")
		if brandName == "" {
			brandName = defaultBrandName
		}

		listing, err := browser.Manufacturers(ctx, brandName, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var picks any
		if featured != nil {
			products, err := featured.List(ctx)
			if err != nil {
				if logg != nil {
					logg.Warn(ctx, "featured products unavailable")
				}
			} else {
				picks = products
			}
		}

		responses.WriteSuccess(w, map[string]any{
			"brand_name":    brandName,
			"manufacturers": listing.Items,
			"products":      picks,
			"pagination":    pagination.MetaFromRemote(listing.Pages, page, listing.Size, listing.Total),
		})
	}
}

// ManufacturerProducts lists a manufacturer's items by numeric id, optionally
// narrowed by part number.
func ManufacturerProducts(browser catalog.Browser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		manufacturerID := chi.URLParam(r, "manufacturerID")
		page := pagination.ParsePage(r.URL.Query().Get("page"))
		partNumber := r.URL.Query().Get("part_number")

		listing, err := browser.Items(ctx, catalog.ItemsQuery{
			ManufacturerID: manufacturerID,
			PartNumber:     partNumber,
			Page:           page,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		name := unknownManufacturerName
		synopsis := ""
		if len(listing.Items) > 0 {
			if got := listing.Items[0].Child("Manufacturer").Field("Manufacturer"); got != "" {
				name = got
			}
			synopsis = listing.Items[0].Child("Manufacturer").Field("Synopsis")
		}

		responses.WriteSuccess(w, map[string]any{
			"manufacturer_id":   manufacturerID,
			"manufacturer_name": name,
			"manufacturer_info": synopsis,
			"items":             listing.Items,
			"part_number":       partNumber,
			"pagination":        pagination.MetaFromRemote(listing.Pages, page, listing.Size, listing.Total),
		})
	}
}

// ManufacturerCatalog lists items for a manufacturer addressed by name.
func ManufacturerCatalog(browser catalog.Browser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		manufacturer := chi.URLParam(r, "manufacturer")
		page := pagination.ParsePage(r.URL.Query().Get("page"))

		listing, err := browser.Items(ctx, catalog.ItemsQuery{Manufacturer: manufacturer, Page: page})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"manufacturer": manufacturer,
			"items":        listing.Items,
			"pagination":   pagination.MetaFromRemote(listing.Pages, page, listing.Size, listing.Total),
		})
	}
}

// AllProducts lists the unfiltered item catalog.
func AllProducts(browser catalog.Browser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		page := pagination.ParsePage(r.URL.Query().Get("page"))

		listing, err := browser.Items(ctx, catalog.ItemsQuery{Page: page})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"items":      listing.Items,
			"pagination": pagination.MetaFromRemote(listing.Pages, page, listing.Size, listing.Total),
		})
	}
}

// FilterProducts lists items narrowed by manufacturer name and simple type.
func FilterProducts(browser catalog.Browser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		manufacturer := r.URL.Query().Get("manufacturer")
		simpleType := r.URL.Query().Get("simpletype")
		page := pagination.ParsePage(r.URL.Query().Get("page"))

		listing, err := browser.Items(ctx, catalog.ItemsQuery{
			Manufacturer: manufacturer,
			SimpleType:   simpleType,
			Page:         page,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"items":                 listing.Items,
			"selected_manufacturer": manufacturer,
			"selected_simpletype":   simpleType,
			"pagination":            pagination.MetaFromRemote(listing.Pages, page, listing.Size, listing.Total),
		})
	}
}

// SearchProducts looks items up by part number. An empty query returns an
// empty result set without touching the remote API.
func SearchProducts(browser catalog.Browser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		partNumber := r.URL.Query().Get("part_number")
		if partNumber == "" {
			responses.WriteSuccess(w, map[string]any{"items": []catalog.Record{}, "part_number": ""})
			return
		}

		listing, err := browser.Items(ctx, catalog.ItemsQuery{PartNumber: partNumber, Page: 1})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"items":       listing.Items,
			"part_number": partNumber,
		})
	}
}
