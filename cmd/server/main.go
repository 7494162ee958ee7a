package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crumbworks/bakeops/internal/api"
	"github.com/crumbworks/bakeops/internal/cache"
	"github.com/crumbworks/bakeops/internal/config"
	"github.com/crumbworks/bakeops/internal/docai"
	"github.com/crumbworks/bakeops/internal/pos"
	"github.com/crumbworks/bakeops/internal/report"
	"github.com/crumbworks/bakeops/internal/repository/postgres"
	"github.com/crumbworks/bakeops/internal/service"
	"github.com/crumbworks/bakeops/internal/storage"
	"github.com/crumbworks/bakeops/internal/vision"
	"github.com/crumbworks/bakeops/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	services := buildServices(cfg, db)

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// buildServices wires repositories, external clients and services. Optional
// integrations degrade to disabled clients when unconfigured.
func buildServices(cfg *config.Config, db *postgres.DB) *api.Services {
	ingredientRepo := postgres.NewIngredientRepository(db)
	supplierRepo := postgres.NewSupplierRepository(db)
	recipeRepo := postgres.NewRecipeRepository(db)
	salesRepo := postgres.NewSalesRepository(db)
	usageRepo := postgres.NewUsageRepository(db)
	profitRepo := postgres.NewProfitHistoryRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)

	limiter, err := cache.NewSyncLimiter(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("redis unavailable, sync rate limiting falls back to database checkpoint")
		limiter = cache.NewNoopSyncLimiter()
	}

	var archive storage.ObjectStorage
	if cfg.Archive.Endpoint != "" {
		client, err := storage.NewMinioClient(cfg.Archive)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("receipt archive unavailable, uploads will not be retained")
		} else {
			archive = client
		}
	}

	var ocr *vision.Service
	if cfg.Vision.CredentialsJSON != "" {
		ocr, err = vision.NewService(cfg.Vision.CredentialsJSON)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("vision OCR unavailable, image receipts fall back to raw text")
		}
	}

	var docAI *docai.Client
	if cfg.DocAI.Endpoint != "" {
		docAI = docai.NewClient(cfg.DocAI.Endpoint, cfg.DocAI.APIKey)
	}

	var converter *report.Client
	if cfg.Report.GotenbergURL != "" {
		converter = report.NewClient(cfg.Report.GotenbergURL)
	}

	posClient := pos.NewClient(cfg.POS.BaseURL, cfg.POS.AccessToken, cfg.POS.LocationID)
	if !posClient.Enabled() {
		logger.Log.Info().Msg("pos integration not configured, sales sync disabled")
	}

	inventoryService := service.NewInventoryService(ingredientRepo, supplierRepo)
	catalogService := service.NewCatalogService(recipeRepo, ingredientRepo)
	alertsService := service.NewAlertsService(ingredientRepo, supplierRepo, usageRepo, orderRepo)
	usageService := service.NewUsageService(salesRepo, recipeRepo, usageRepo)
	profitService := service.NewProfitService(recipeRepo, salesRepo, profitRepo)
	recommendationService := service.NewRecommendationService(profitService, alertsService)
	syncService := service.NewSyncService(posClient, salesRepo, recipeRepo, settingsRepo, usageService, profitService, limiter)
	receiptService := service.NewReceiptService(docAI, ocr, archive, ingredientRepo, orderRepo, supplierRepo)
	reportService := service.NewReportService(converter, alertsService, profitService)
	dashboardService := service.NewDashboardService(syncService, profitService, recommendationService, alertsService)

	return &api.Services{
		Inventory: inventoryService,
		Catalog:   catalogService,
		Alerts:    alertsService,
		Profit:    profitService,
		Sync:      syncService,
		Receipts:  receiptService,
		Reports:   reportService,
		Dashboard: dashboardService,
	}
}
