package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"smartCampaign/app/echo-server/router"
	"smartCampaign/business/activity"
	campaignService "smartCampaign/business/campaign"
	"smartCampaign/business/product"
	"smartCampaign/business/targeting"
	userService "smartCampaign/business/user"
	"smartCampaign/internal/middleware"
	"smartCampaign/internal/repository/mlserver"
	"smartCampaign/internal/repository/notification"
	psqlRepo "smartCampaign/internal/repository/postgres"
	redisRepo "smartCampaign/internal/repository/redis"
	"smartCampaign/internal/rest"
	"smartCampaign/pkg/config"
	"smartCampaign/pkg/database"
	redisDB "smartCampaign/pkg/database/redis"
	"smartCampaign/pkg/logger"
	"smartCampaign/pkg/utils"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Smart Campaign", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisDB.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redisDB.CloseRedisClient(redisClient)

	logger.Info("Redis connected successfully")

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	// Init the campaign model client
	classifier := mlserver.NewModelServerRepository(
		mlserver.ModelServerConfig{
			BaseURL: cfg.Classifier.ModelServerUrl,
			Timeout: time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	activityRepo := psqlRepo.NewActivityRepository(db)
	campaignRepo := psqlRepo.NewCampaignRepository(db)
	assignmentRepo := psqlRepo.NewAssignmentRepository(db)
	eventRepo := psqlRepo.NewTargetingEventRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	sessionRepo := redisRepo.NewSessionRepository(redisClient)
	launchGuard := redisRepo.NewLaunchGuardRepository(redisClient)

	// Init service
	activitySvc := activity.NewActivityService(activityRepo)
	targetingSvc := targeting.NewTargetingService(activityRepo, assignmentRepo, eventRepo, classifier, targeting.Config{
		ClassifierTimeout: time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second,
	})
	campaignSvc := campaignService.NewCampaignService(campaignRepo, assignmentRepo, targetingSvc, launchGuard, mailjetEmail, activitySvc, cfg.App.AdminName, cfg.App.AdminEmail)
	userSvc := userService.NewUserService(userRepo, sessionRepo, mailjetEmail, activitySvc, validate, cfg.App.AdminName, cfg.App.AdminEmail)
	productSvc := product.NewProductService(productRepo, activitySvc)

	// Init handler
	userHandler := rest.NewUserHandler(userSvc)
	campaignHandler := rest.NewCampaignHandler(campaignSvc, targetingSvc)
	productHandler := rest.NewProductHandler(productSvc)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(userSvc)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly)
	router.SetupProductRoutes(api, productHandler, authRequired, adminOnly)
	router.SetupCampaignRoutes(api, campaignHandler, authRequired, adminOnly)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
