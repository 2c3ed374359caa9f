package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rinsrhq/console-backend/api/controllers"
	"github.com/rinsrhq/console-backend/api/middleware"
	"github.com/rinsrhq/console-backend/internal/admins"
	"github.com/rinsrhq/console-backend/internal/auth"
	"github.com/rinsrhq/console-backend/internal/guard"
	"github.com/rinsrhq/console-backend/internal/notifications"
	"github.com/rinsrhq/console-backend/internal/permissions"
	"github.com/rinsrhq/console-backend/internal/realtime"
	"github.com/rinsrhq/console-backend/internal/unread"
	"github.com/rinsrhq/console-backend/pkg/auth/session"
	"github.com/rinsrhq/console-backend/pkg/config"
	"github.com/rinsrhq/console-backend/pkg/enums"
	"github.com/rinsrhq/console-backend/pkg/logger"
	"github.com/rinsrhq/console-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. The worker shares none of
// this; it wires its own consumer directly.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             controllers.Pinger
	Redis          *redis.Client
	SessionManager session.AccessSessionChecker
	AuthService    auth.Service
	AdminsService  admins.Service
	Notifications  notifications.Service
	Resolver       *permissions.Resolver
	Guard          *guard.Guard
	Hub            *realtime.Hub
	Tracker        *unread.Tracker
	Metrics        prometheus.Gatherer
}

// NewRouter assembles the console API.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	refreshPolicy := middleware.NewAuthRateLimitPolicy(
		"refresh",
		cfg.AuthRateLimit.RefreshWindow,
		cfg.AuthRateLimit.RefreshIPLimit,
		0,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, d.Redis, logg))
	})

	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.With(middleware.AuthRateLimit(refreshPolicy, d.Redis, logg)).Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Post("/v1/auth/logout", controllers.AuthLogout(d.AuthService, logg))
		r.Get("/v1/me", controllers.AuthMe(d.AuthService, logg))

		r.Route("/v1/permissions", func(r chi.Router) {
			r.Get("/{role}", controllers.GetRolePermissions(d.Resolver, logg))
			r.With(middleware.RequireRole(string(enums.AdminRoleSuperAdmin), logg)).
				Post("/{role}/refresh", controllers.RefreshRolePermissions(d.Resolver, logg))
		})

		r.Get("/v1/guard/evaluate", controllers.EvaluateGuard(d.Guard, logg))

		r.Route("/v1/admins", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.AdminRoleSuperAdmin), logg))
			r.Post("/", controllers.CreateAdmin(d.AdminsService, logg))
			r.Get("/", controllers.ListAdmins(d.AdminsService, logg))
			r.Get("/{adminID}", controllers.GetAdmin(d.AdminsService, logg))
			r.Put("/{adminID}/pages", controllers.UpdateAdminPages(d.AdminsService, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(d.Notifications, logg))
			r.Get("/unread-groups", controllers.UnreadNotificationGroups(d.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(d.Notifications, logg))
			r.Post("/read-group", controllers.MarkNotificationGroupRead(d.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(d.Notifications, d.Tracker, logg))
		})

		// The live unread badge belongs to the vendor orders page, so the
		// page gate applies here.
		r.Route("/v1/unread-orders", func(r chi.Router) {
			r.Use(middleware.RequirePage(d.Resolver, "/dashboard/vendor-orders", logg))
			r.Get("/", controllers.UnreadOrderCount(d.Tracker, logg))
			r.Post("/reset", controllers.ResetUnreadOrders(d.Tracker, logg))
			r.Post("/{orderID}/ack", controllers.AcknowledgeUnreadOrder(d.Tracker, logg))
		})

		r.Get("/v1/realtime/ws", controllers.RealtimeSocket(d.Hub, cfg.Realtime, logg))
	})

	return r
}
