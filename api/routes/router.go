package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mgolesberg/api-example/api/controllers"
	"github.com/mgolesberg/api-example/api/middleware"
	ordersvc "github.com/mgolesberg/api-example/internal/orders"
	prefsvc "github.com/mgolesberg/api-example/internal/preferences"
	productsvc "github.com/mgolesberg/api-example/internal/products"
	usersvc "github.com/mgolesberg/api-example/internal/users"
	"github.com/mgolesberg/api-example/pkg/config"
	"github.com/mgolesberg/api-example/pkg/logger"
	"github.com/mgolesberg/api-example/pkg/metrics"
	pkgredis "github.com/mgolesberg/api-example/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	idempotencyStore pkgredis.IdempotencyStore,
	httpMetrics *metrics.HTTPMetrics,
	userService usersvc.Service,
	productService productsvc.Service,
	preferenceService prefsvc.Service,
	orderService ordersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if idempotencyStore != nil {
			r.Use(middleware.Idempotency(idempotencyStore, logg))
		}

		r.Route("/v1/users", func(r chi.Router) {
			r.Post("/", controllers.UserCreate(userService, logg))
			r.Get("/", controllers.UsersList(userService, logg))
			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", controllers.UserGet(userService, logg))
				r.Put("/", controllers.UserUpdate(userService, logg))
				r.Patch("/", controllers.UserUpdate(userService, logg))
				r.Delete("/", controllers.UserDeactivate(userService, logg))
				r.Post("/deactivate", controllers.UserDeactivate(userService, logg))
				r.Post("/mark-for-deletion", controllers.UserMarkForDeletion(userService, logg))

				r.Route("/allergies", func(r chi.Router) {
					r.Get("/", controllers.UserAllergiesList(preferenceService, logg))
					r.Post("/", controllers.UserAllergyAdd(preferenceService, logg))
					r.Delete("/{name}", controllers.UserAllergyRemove(preferenceService, logg))
				})
				r.Route("/interests", func(r chi.Router) {
					r.Get("/", controllers.InterestsList(preferenceService, logg))
					r.Post("/", controllers.InterestCreate(preferenceService, logg))
					r.Put("/{prefID}", controllers.InterestUpdate(preferenceService, logg))
					r.Delete("/{prefID}", controllers.InterestDelete(preferenceService, logg))
				})
				r.Route("/dislikes", func(r chi.Router) {
					r.Get("/", controllers.DislikesList(preferenceService, logg))
					r.Post("/", controllers.DislikeCreate(preferenceService, logg))
					r.Put("/{prefID}", controllers.DislikeUpdate(preferenceService, logg))
					r.Delete("/{prefID}", controllers.DislikeDelete(preferenceService, logg))
				})
			})
		})

		r.Route("/v1/allergies", func(r chi.Router) {
			r.Get("/", controllers.AllergiesList(preferenceService, logg))
			r.Post("/", controllers.AllergyCreate(preferenceService, logg))
			r.Put("/{name}", controllers.AllergyUpdate(preferenceService, logg))
			r.Delete("/{name}", controllers.AllergyDelete(preferenceService, logg))
		})

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(productService, logg))
			r.Post("/", controllers.ProductCreate(productService, logg))
			r.Get("/{productID}", controllers.ProductGet(productService, logg))
			r.Put("/{productID}", controllers.ProductUpdate(productService, logg))
			r.Patch("/{productID}", controllers.ProductUpdate(productService, logg))
			r.Delete("/{productID}", controllers.ProductDelete(productService, logg))
		})

		r.Route("/v1/cart", func(r chi.Router) {
			r.Post("/items", controllers.CartAddItem(orderService, logg))
			r.Put("/items", controllers.CartUpdateItem(orderService, logg))
			r.Delete("/items", controllers.CartRemoveItem(orderService, logg))
		})

		r.Get("/v1/orders/{userID}", controllers.OrdersList(orderService, logg))
		r.Post("/v1/checkout/{userID}", controllers.Checkout(orderService, logg))
	})

	return r
}
