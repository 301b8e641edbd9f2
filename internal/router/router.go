package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/tastehub/api/internal/config"
	"github.com/tastehub/api/internal/database"
	"github.com/tastehub/api/internal/enum"
	"github.com/tastehub/api/internal/handler"
	"github.com/tastehub/api/internal/mail"
	mw "github.com/tastehub/api/internal/middleware"
	"github.com/tastehub/api/internal/payment"
	"github.com/tastehub/api/internal/service"
	"github.com/tastehub/api/internal/storage"
	"github.com/tastehub/api/internal/ws"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Config  *config.Config
	Queries *database.Queries
	Pool    service.TxBeginner
	Hub     *ws.Hub
	Files   storage.FileStore
	Mailer  mail.Mailer
	Gateway payment.Gateway
	Logger  logrus.FieldLogger
}

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(d Deps) chi.Router {
	cfg, queries := d.Config, d.Queries

	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if _, ok := d.Files.(*storage.Local); ok {
		prefix := strings.TrimRight(cfg.PublicUploadPath, "/")
		fs := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(cfg.UploadDir)))
		r.Handle(prefix+"/*", fs)
	}

	// Order event feed; authenticates from the token query param.
	if d.Hub != nil {
		r.Method(http.MethodGet, "/ws/orders", ws.NewHandler(d.Hub, cfg.JWTSecret, queries, cfg.AllowedOrigins))
	}

	authenticate := mw.Authenticate(cfg.JWTSecret, queries)
	optionalAuth := mw.OptionalAuthenticate(cfg.JWTSecret, queries)
	adminOnly := mw.RequireRole(enum.UserRoleAdmin)

	// Users
	authHandler := handler.NewAuthHandler(queries, handler.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	userHandler := handler.NewUserHandler(queries, d.Files)
	r.Route("/users", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			userHandler.RegisterProfileRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				userHandler.RegisterAdminRoutes(r)
			})
		})
	})

	// Menu
	menuHandler := handler.NewMenuHandler(queries, d.Files)
	r.Route("/menu", func(r chi.Router) {
		menuHandler.RegisterRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			menuHandler.RegisterAdminRoutes(r)
		})
	})

	// Cart
	r.Route("/cart", handler.NewCartHandler(queries).RegisterRoutes)

	// Orders
	newOrderStore := func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}
	orderService := service.NewOrderService(d.Pool, newOrderStore, d.Gateway)
	var events handler.OrderEvents
	if d.Hub != nil {
		events = d.Hub
	}
	orderHandler := handler.NewOrderHandler(orderService, queries, events)
	r.Route("/orders", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			orderHandler.RegisterPublicRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			orderHandler.RegisterCustomerRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				orderHandler.RegisterAdminRoutes(r)
			})
		})
	})

	// Reservations
	reservationHandler := handler.NewReservationHandler(queries, d.Mailer)
	r.Route("/reservations", func(r chi.Router) {
		r.Use(authenticate)
		reservationHandler.RegisterCustomerRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			reservationHandler.RegisterAdminRoutes(r)
		})
	})

	// Reviews
	reviewHandler := handler.NewReviewHandler(queries)
	r.Route("/reviews", func(r chi.Router) {
		reviewHandler.RegisterPublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			reviewHandler.RegisterCustomerRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				reviewHandler.RegisterAdminRoutes(r)
			})
		})
	})

	// Contact
	contactHandler := handler.NewContactHandler(queries, d.Mailer)
	r.Route("/contact", func(r chi.Router) {
		contactHandler.RegisterPublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			contactHandler.RegisterAdminRoutes(r)
		})
	})

	// Reports
	r.Group(func(r chi.Router) {
		r.Use(authenticate, adminOnly)
		r.Route("/reports", handler.NewReportsHandler(queries).RegisterRoutes)
	})

	d.Logger.Info("router initialized with all handlers")
	return r
}
