package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aryansdevstudios/toppers-toolkit-backend/api/controllers"
	"github.com/aryansdevstudios/toppers-toolkit-backend/api/middleware"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/auth"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/cart"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/catalog"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/orders"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/config"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	gatherer prometheus.Gatherer,
	catalogService catalog.Service,
	cartService cart.Service,
	ordersService orders.Service,
	authService auth.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisP,
		}, logg))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/subjects", controllers.CatalogListSubjects(catalogService, logg))
		r.Get("/subjects/{subjectId}", controllers.CatalogGetSubject(catalogService, logg))
		r.Get("/subjects/{subjectId}/{subcategoryId}/chapters", controllers.CatalogListChapters(catalogService, logg))
		r.Get("/notes/recent", controllers.CatalogRecentNotes(catalogService, cfg.Catalog.RecentLimit, logg))

		r.Post("/orders", controllers.OrdersPlace(ordersService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.CartToken(cfg.Cart, cfg.Session.CookieSecure, logg))
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{itemId}", controllers.CartSelectFormat(cartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
			r.Post("/checkout", controllers.CartCheckout(cartService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminLogin(authService, cfg.Session, logg))
		r.Post("/auth/logout", controllers.AdminLogout(authService, cfg.Session, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cfg.Session, authService, logg))

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", controllers.AdminListNotes(catalogService, logg))
				r.Post("/", controllers.AdminCreateNote(catalogService, logg))
				r.Get("/{noteId}", controllers.AdminGetNote(catalogService, logg))
				r.Patch("/{noteId}", controllers.AdminUpdateNote(catalogService, logg))
				r.Delete("/{noteId}", controllers.AdminDeleteNote(catalogService, logg))
				r.Post("/{noteId}/toggle-status", controllers.AdminToggleNoteStatus(catalogService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(ordersService, logg))
				r.Get("/{orderId}", controllers.AdminGetOrder(ordersService, logg))
				r.Post("/{orderId}/complete", controllers.AdminCompleteOrder(ordersService, logg))
			})
		})
	})

	return r
}
