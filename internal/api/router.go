package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/pvhub/internal/api/handler"
	"github.com/timmy/pvhub/internal/api/middleware"
	"github.com/timmy/pvhub/internal/config"
	"github.com/timmy/pvhub/internal/logger"
	"github.com/timmy/pvhub/internal/service"
)

// Dependencies are the services the HTTP layer serves.
type Dependencies struct {
	Content   *service.ContentService
	Catalog   *service.CatalogService
	Summary   *service.SummaryService
	Runner    handler.Runner
	Scheduler handler.SchedulerReporter // nil when the timer is disabled
	DB        handler.Pinger            // nil skips the health check ping
}

// SetupRouter configures the Gin router with all routes.
func SetupRouter(deps Dependencies, cfg *config.ServerConfig) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(logger.GetDefault()))
	r.Use(middleware.CORS(cfg.CORS))

	healthHandler := handler.NewHealthHandler(deps.DB)
	contentHandler := handler.NewContentHandler(deps.Content, deps.Summary)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	adminHandler := handler.NewAdminHandler(deps.Runner, deps.Scheduler, deps.Content)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		// News
		v1.GET("/news", contentHandler.ListNews)
		v1.GET("/news/latest", contentHandler.LatestNews)
		v1.GET("/news/:id", contentHandler.GetNews)
		v1.POST("/news/summary", contentHandler.GenerateSummary)

		// Tenders
		v1.GET("/tenders", contentHandler.ListTenders)
		v1.GET("/tenders/latest", contentHandler.LatestTenders)
		v1.GET("/tenders/:id", contentHandler.GetTender)

		// Manufacturers
		v1.GET("/manufacturers", catalogHandler.ListManufacturers)
		v1.GET("/manufacturers/:id", catalogHandler.GetManufacturer)

		// Efficiency records
		v1.GET("/efficiency", catalogHandler.ListEfficiency)
		v1.GET("/efficiency/current", catalogHandler.CurrentEfficiency)
		v1.GET("/efficiency/chart", catalogHandler.EfficiencyChart)

		// Technology
		v1.GET("/tech/papers", catalogHandler.ListPapers)
		v1.GET("/tech/papers/:id", catalogHandler.GetPaper)
		v1.GET("/tech/patents", catalogHandler.ListPatents)
		v1.GET("/tech/patents/:id", catalogHandler.GetPatent)

		// Search and stats
		v1.GET("/search", contentHandler.Search)
		v1.GET("/stats", contentHandler.Stats)
	}

	admin := v1.Group("/admin", middleware.AdminAuth(cfg.AdminToken))
	{
		admin.POST("/fetch", adminHandler.TriggerFetch)
		admin.GET("/jobs", adminHandler.ListJobs)
		admin.GET("/scheduler", adminHandler.SchedulerStatus)

		admin.POST("/news", adminHandler.CreateNews)
		admin.PUT("/news/:id", adminHandler.UpdateNews)
		admin.DELETE("/news/:id", adminHandler.DeleteNews)

		admin.POST("/tenders", adminHandler.CreateTender)
		admin.PUT("/tenders/:id", adminHandler.UpdateTender)
		admin.DELETE("/tenders/:id", adminHandler.DeleteTender)

		admin.POST("/efficiency/seed", catalogHandler.SeedEfficiency)
	}

	return r
}
