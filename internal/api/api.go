package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/crumbworks/bakeops/internal/api/handlers"
	"github.com/crumbworks/bakeops/internal/api/middleware"
	"github.com/crumbworks/bakeops/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Inventory *service.InventoryService
	Catalog   *service.CatalogService
	Alerts    *service.AlertsService
	Profit    *service.ProfitService
	Sync      *service.SyncService
	Receipts  *service.ReceiptService
	Reports   *service.ReportService
	Dashboard *service.DashboardService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services == nil {
		return router
	}

	if services.Dashboard != nil {
		dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
		apiGroup.GET("/dashboard", dashboardHandler.GetDashboard)
	}

	if services.Alerts != nil {
		alertsHandler := handlers.NewAlertsHandler(services.Alerts)
		alertsGroup := apiGroup.Group("/alerts")
		{
			alertsGroup.GET("/low-stock", alertsHandler.GetLowStock)
			alertsGroup.GET("/overview", alertsHandler.GetOverview)
			alertsGroup.GET("/orders/plan", alertsHandler.GetOrderPlan)
			alertsGroup.POST("/orders", alertsHandler.CreateOrders)
		}

		ordersGroup := apiGroup.Group("/orders")
		{
			ordersGroup.GET("", alertsHandler.ListOrders)
			ordersGroup.GET("/:id", alertsHandler.GetOrder)
			ordersGroup.POST("/:id/deliver", alertsHandler.ConfirmDelivery)
			ordersGroup.POST("/:id/cancel", alertsHandler.CancelOrder)
		}
	}

	if services.Inventory != nil {
		inventoryHandler := handlers.NewInventoryHandler(services.Inventory)
		ingredientsGroup := apiGroup.Group("/ingredients")
		{
			ingredientsGroup.GET("", inventoryHandler.ListIngredients)
			ingredientsGroup.POST("", inventoryHandler.CreateIngredient)
			ingredientsGroup.GET("/:id", inventoryHandler.GetIngredient)
			ingredientsGroup.PUT("/:id", inventoryHandler.UpdateIngredient)
			ingredientsGroup.DELETE("/:id", inventoryHandler.DeleteIngredient)
			ingredientsGroup.PUT("/:id/stock", inventoryHandler.SetStock)
		}

		suppliersGroup := apiGroup.Group("/suppliers")
		{
			suppliersGroup.GET("", inventoryHandler.ListSuppliers)
			suppliersGroup.POST("", inventoryHandler.CreateSupplier)
			suppliersGroup.GET("/:id", inventoryHandler.GetSupplier)
			suppliersGroup.PUT("/:id", inventoryHandler.UpdateSupplier)
			suppliersGroup.DELETE("/:id", inventoryHandler.DeleteSupplier)
		}
	}

	if services.Catalog != nil {
		catalogHandler := handlers.NewCatalogHandler(services.Catalog)
		recipesGroup := apiGroup.Group("/recipes")
		{
			recipesGroup.GET("", catalogHandler.ListRecipes)
			recipesGroup.POST("", catalogHandler.CreateRecipe)
			recipesGroup.GET("/:id", catalogHandler.GetRecipe)
			recipesGroup.PUT("/:id", catalogHandler.UpdateRecipe)
			recipesGroup.DELETE("/:id", catalogHandler.DeleteRecipe)
		}
	}

	if services.Profit != nil {
		profitHandler := handlers.NewProfitHandler(services.Profit)
		profitGroup := apiGroup.Group("/profit")
		{
			profitGroup.GET("/overview", profitHandler.GetProfitability)
			profitGroup.GET("/history", profitHandler.GetHistory)
			profitGroup.POST("/backfill", profitHandler.Backfill)
		}

		salesGroup := apiGroup.Group("/sales")
		{
			salesGroup.GET("/summary", profitHandler.GetSalesSummary)
			salesGroup.GET("/trend", profitHandler.GetDailyTrend)
			salesGroup.GET("/top-sellers", profitHandler.GetTopSellers)
		}
	}

	if services.Sync != nil {
		syncHandler := handlers.NewSyncHandler(services.Sync)
		apiGroup.POST("/sync", syncHandler.SyncSales)
		apiGroup.POST("/sync/catalog", syncHandler.SyncCatalog)
	}

	if services.Receipts != nil {
		receiptHandler := handlers.NewReceiptHandler(services.Receipts)
		receiptsGroup := apiGroup.Group("/receipts")
		{
			receiptsGroup.POST("/parse", receiptHandler.Parse)
			receiptsGroup.POST("/confirm", receiptHandler.Confirm)
		}
	}

	if services.Reports != nil {
		reportHandler := handlers.NewReportHandler(services.Reports)
		reportsGroup := apiGroup.Group("/reports")
		{
			reportsGroup.GET("/inventory", reportHandler.InventoryPDF)
			reportsGroup.GET("/profit", reportHandler.ProfitPDF)
			reportsGroup.GET("/sales", reportHandler.SalesPDF)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
