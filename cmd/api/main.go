package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/reporthub/reporthub-backend-go/internal/config"
	appHTTP "github.com/reporthub/reporthub-backend-go/internal/handler/http"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/database"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/jwt"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/oauth"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/sse"
	"github.com/reporthub/reporthub-backend-go/internal/repository/postgresql"
	authService "github.com/reporthub/reporthub-backend-go/internal/service/auth"
	notificationService "github.com/reporthub/reporthub-backend-go/internal/service/notification"
	reportService "github.com/reporthub/reporthub-backend-go/internal/service/report"
	useradminService "github.com/reporthub/reporthub-backend-go/internal/service/useradmin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	ctx := context.Background()

	dsn := cfg.DatabaseURL()
	if err := database.RunMigrations(dsn); err != nil {
		log.Fatal("Error running migrations: ", err)
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}

	userRepo := postgresql.NewUserRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	hub := sse.NewHub()

	notificationSvc := notificationService.NewNotificationService(notificationRepo, userRepo, hub)
	reportSvc := reportService.NewReportService(reportRepo, userRepo, notificationSvc, hub)
	adminSvc := useradminService.NewAdminService(userRepo, reportRepo, notificationSvc)
	authSvc := authService.NewAuthService(userRepo, jwtService, cfg.App.FrontendURL)

	if cfg.Superadmin.Email != "" && cfg.Superadmin.Password != "" {
		if err := adminSvc.EnsureInitialSuperadmin(ctx, cfg.Superadmin.Name, cfg.Superadmin.Email, cfg.Superadmin.Password); err != nil {
			log.Fatal("Error seeding superadmin: ", err)
		}
	}

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc, googleService, cfg.App.FrontendURL)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notificationSvc, jwtService, hub)
	userHandler := appHTTP.NewUserHandler(adminSvc)
	superadminHandler := appHTTP.NewSuperadminHandler(adminSvc)

	router := appHTTP.NewRouter(
		jwtService,
		cfg.App.FrontendURL,
		authHandler,
		reportHandler,
		notificationHandler,
		userHandler,
		superadminHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
