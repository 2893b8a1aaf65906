package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/industrialpartner/storefront-backend/api/controllers"
	"github.com/industrialpartner/storefront-backend/api/middleware"
	"github.com/industrialpartner/storefront-backend/internal/cart"
	"github.com/industrialpartner/storefront-backend/internal/catalog"
	"github.com/industrialpartner/storefront-backend/internal/featured"
	"github.com/industrialpartner/storefront-backend/internal/quotes"
	"github.com/industrialpartner/storefront-backend/internal/sitemap"
	"github.com/industrialpartner/storefront-backend/pkg/config"
	"github.com/industrialpartner/storefront-backend/pkg/db"
	"github.com/industrialpartner/storefront-backend/pkg/logger"
	"github.com/industrialpartner/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	browser catalog.Browser,
	cartService cart.Service,
	quoteService quotes.Service,
	featuredService featured.Service,
	sitemapService sitemap.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(dbP, redisClient, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, logg))

		r.Get("/", controllers.Home(browser, featuredService, logg))
		r.Get("/products", controllers.AllProducts(browser, logg))
		r.Get("/products/filter", controllers.FilterProducts(browser, logg))
		r.Get("/search", controllers.SearchProducts(browser, logg))
		r.Get("/manufacturer/{manufacturer}", controllers.ManufacturerCatalog(browser, logg))
		r.Get("/manufacturer/id/{manufacturerID}", controllers.ManufacturerProducts(browser, logg))
		r.Get("/product/{itemID}/{slug}", controllers.ProductDetail(browser, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.ViewCart(cartService, logg))
			r.Get("/count", controllers.CartCount(cartService, logg))
			r.Post("/add/{itemID}", controllers.AddToCart(cartService, logg))
			r.Post("/remove/{itemID}", controllers.RemoveFromCart(cartService, logg))
		})

		r.Route("/quote", func(r chi.Router) {
			r.Post("/request", controllers.QuoteRequest(quoteService, logg))
			r.Post("/request/cart", controllers.QuoteRequestCart(quoteService, logg))
			r.Post("/addon", controllers.QuoteAddon(quoteService, logg))
			r.Get("/confirmation", controllers.QuoteConfirmation(quoteService, logg))
		})
	})

	r.Group(func(r chi.Router) {
		manufacturersCache := middleware.ResponseCache(redisClient, "sitemap:manufacturers", cfg.Cache.SitemapManufacturersTTL, logg)
		productsCache := middleware.ResponseCache(redisClient, "sitemap:products", cfg.Cache.SitemapProductsTTL, logg)

		r.With(manufacturersCache).Get("/sitemap", controllers.SitemapManufacturers(sitemapService, logg))
		r.Get("/sitemap/page", controllers.SitemapManufacturersPage(sitemapService, logg))
		r.With(productsCache).Get("/sitemap/products/{manufacturerID}", controllers.SitemapProducts(sitemapService, logg))
	})

	return r
}
