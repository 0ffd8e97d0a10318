package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/reporthub/reporthub-backend-go/internal/handler/http/middleware"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	frontendURL string,
	authHandler AuthHandler,
	reportHandler ReportHandler,
	notificationHandler NotificationHandler,
	userHandler UserHandler,
	superadminHandler SuperadminHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "reporthub"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.Route("/login/oauth", func(r chi.Router) {
				r.Get("/google", authHandler.LoginWithGoogle)
			})
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", authHandler.OAuthCallbackGoogle)
			})
		})

		// SSE stream authenticates with its own short-lived query token.
		r.Get("/events", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/auth/profile", authHandler.Profile)

			r.Route("/reports", func(r chi.Router) {
				r.Post("/", reportHandler.Create)
				r.Get("/", reportHandler.List)

				// Reviewer only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Patch("/{id}/status", reportHandler.DecideStatus)
					r.Put("/{id}/summary", reportHandler.AnnotateSummary)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Patch("/{id}/read", notificationHandler.MarkAsRead)
				r.Delete("/", notificationHandler.ClearAll)
				r.Get("/sse-token", notificationHandler.GetSSEToken)
			})

			r.Post("/users/request-admin", userHandler.RequestAdminAccess)

			// Superadmin only
			r.Route("/superadmin", func(r chi.Router) {
				r.Use(middleware.RequireSuperadmin)
				r.Get("/users", superadminHandler.ListUsers)
				r.Put("/users/{id}/role", superadminHandler.UpdateRole)
				r.Get("/overview", superadminHandler.Overview)
				r.Get("/admin-requests", superadminHandler.ListAdminRequests)
				r.Post("/admin-requests/decision", superadminHandler.DecideAdminRequest)
				r.Post("/notifications", superadminHandler.SendNotification)
			})
		})
	})
	return r
}
