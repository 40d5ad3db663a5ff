package router

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/csrf"

	"github.com/easyshoppingzone/orderdesk/internal/auth"
	"github.com/easyshoppingzone/orderdesk/internal/config"
	"github.com/easyshoppingzone/orderdesk/internal/dispatch"
	"github.com/easyshoppingzone/orderdesk/internal/enum"
	"github.com/easyshoppingzone/orderdesk/internal/handler"
	"github.com/easyshoppingzone/orderdesk/internal/logging"
	mw "github.com/easyshoppingzone/orderdesk/internal/middleware"
	"github.com/easyshoppingzone/orderdesk/internal/service"
	"github.com/easyshoppingzone/orderdesk/internal/session"
	"github.com/easyshoppingzone/orderdesk/internal/view"
	"github.com/easyshoppingzone/orderdesk/internal/ws"
)

// Deps are the long-lived collaborators the routes are built from.
type Deps struct {
	Orders        *service.OrderService
	Printer       *dispatch.Dispatcher
	Authenticator auth.Authenticator
	Views         *view.Cache
	Sessions      *session.Manager
	Hub           *ws.Hub
}

// New creates a Chi router with all application routes wired up.
// Pages are guarded by the session cookie and CSRF tokens, the JSON API by
// bearer tokens.
func New(cfg *config.Config, deps Deps) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.SecurityHeaders)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	authHandler := handler.NewAuthHandler(deps.Authenticator, deps.Views, deps.Sessions, cfg.JWTSecret)
	orderHandler := handler.NewOrderHandler(deps.Orders, deps.Printer, deps.Views, deps.Sessions)
	reportsHandler := handler.NewReportsHandler(deps.Orders, deps.Views, deps.Sessions)
	bookingHandler := handler.NewBookingHandler(deps.Orders, deps.Views, deps.Sessions)

	// WebSocket route (session cookie or ?token=)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(deps.Hub, wsAuthorizer(cfg.JWTSecret, deps.Sessions), w, r)
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))

		authHandler.RegisterAPIRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))
			r.Use(mw.RequireRole(enum.UserRoleAdmin, enum.UserRoleStaff))

			orderHandler.RegisterAPIRoutes(r)
			bookingHandler.RegisterAPIRoutes(r)
			reportsHandler.RegisterAPIRoutes(r)
		})
	})

	// Staff pages
	r.Group(func(r chi.Router) {
		if !cfg.CookieSecure {
			r.Use(mw.PlaintextHTTP)
		}
		r.Use(csrf.Protect(
			[]byte(cfg.CSRFKey),
			csrf.Secure(cfg.CookieSecure),
			csrf.Path("/"),
			csrf.TrustedOrigins(trustedOrigins(cfg)),
		))

		authHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireSession(deps.Sessions))

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			})
			reportsHandler.RegisterRoutes(r)
			orderHandler.RegisterRoutes(r)
			bookingHandler.RegisterRoutes(r)
		})
	})

	logging.GetLogger().Info("Router initialized with all handlers")
	return r
}

// wsAuthorizer accepts a logged-in session or a bearer token in ?token=.
func wsAuthorizer(jwtSecret string, sessions *session.Manager) ws.Authorizer {
	return func(r *http.Request) (auth.User, bool) {
		if user, ok := sessions.CurrentUser(r); ok {
			return user, true
		}
		token := r.URL.Query().Get("token")
		if token == "" {
			return auth.User{}, false
		}
		claims, err := auth.ValidateToken(jwtSecret, token)
		if err != nil {
			return auth.User{}, false
		}
		return claims.User(), true
	}
}

// trustedOrigins lists the hosts the CSRF check accepts besides the request's own.
func trustedOrigins(cfg *config.Config) []string {
	hosts := []string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port}
	for _, origin := range cfg.AllowedOrigins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}
