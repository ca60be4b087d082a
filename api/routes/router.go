package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harvestlane/farmbasket-backend/api/controllers"
	"github.com/harvestlane/farmbasket-backend/api/middleware"
	basketsvc "github.com/harvestlane/farmbasket-backend/internal/basket"
	cartsvc "github.com/harvestlane/farmbasket-backend/internal/cart"
	"github.com/harvestlane/farmbasket-backend/internal/catalog"
	checkoutsvc "github.com/harvestlane/farmbasket-backend/internal/checkout"
	"github.com/harvestlane/farmbasket-backend/pkg/config"
	"github.com/harvestlane/farmbasket-backend/pkg/db"
	"github.com/harvestlane/farmbasket-backend/pkg/logger"
	"github.com/harvestlane/farmbasket-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	cartService cartsvc.Service,
	basketService basketsvc.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	generatePolicy := middleware.NewRateLimitPolicy(
		"basket_generate",
		cfg.Basket.GenerateWindow,
		0,
		cfg.Basket.GenerateLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CustomerContext(logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))
		})
		r.Get("/farms/{farmId}", controllers.FarmDetail(catalogService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Put("/", controllers.CartReplace(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Route("/basket", func(r chi.Router) {
			r.Get("/", controllers.BasketFetch(basketService, logg))
			r.With(middleware.RateLimit(generatePolicy, redisClient, logg)).Post("/generate", controllers.BasketGenerate(basketService, logg))
			r.Post("/toggle", controllers.BasketToggle(basketService, logg))
			r.Post("/commit", controllers.BasketCommit(basketService, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/options", controllers.CheckoutOptions(checkoutService, logg))
			r.Post("/totals", controllers.CheckoutTotals(checkoutService, logg))
		})
	})

	return r
}
