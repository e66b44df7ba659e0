package router

import (
	"time"

	"github.com/haque51/lumina-finance-backend/internal/config"
	"github.com/haque51/lumina-finance-backend/internal/handler"
	"github.com/haque51/lumina-finance-backend/internal/middleware"
	"github.com/haque51/lumina-finance-backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, snapshots *service.SnapshotService) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	txSvc := service.NewTransactionService(db)
	recurringSvc := service.NewRecurringService(db, txSvc)
	rates := service.NewDBRateProvider(db)

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours, cfg.App.BaseCurrency)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)
	protected.PUT("/me", handler.UpdateMe(db))
	protected.PUT("/me/password", handler.ChangePassword(db))

	accountHandler := handler.NewAccountHandler(db, rates)
	protected.POST("/accounts", accountHandler.Create)
	protected.GET("/accounts", accountHandler.List)
	protected.GET("/accounts/summary", accountHandler.Summary)
	protected.GET("/accounts/:id", accountHandler.Get)
	protected.PUT("/accounts/:id", accountHandler.Update)
	protected.DELETE("/accounts/:id", accountHandler.Delete)

	txHandler := handler.NewTransactionHandler(db, txSvc, cfg.App.PageSize)
	protected.POST("/transactions", txHandler.Create)
	protected.GET("/transactions", txHandler.List)
	protected.POST("/transactions/bulk", txHandler.Bulk)
	protected.GET("/transactions/:id", txHandler.Get)
	protected.PUT("/transactions/:id", txHandler.Update)
	protected.DELETE("/transactions/:id", txHandler.Delete)
	protected.PUT("/transactions/:id/reconcile", txHandler.Reconcile)

	categoryHandler := handler.NewCategoryHandler(db)
	protected.POST("/categories", categoryHandler.Create)
	protected.GET("/categories", categoryHandler.List)
	protected.GET("/categories/:id", categoryHandler.Get)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	budgetHandler := handler.NewBudgetHandler(db)
	protected.POST("/budgets", budgetHandler.Create)
	protected.GET("/budgets", budgetHandler.List)
	protected.GET("/budgets/:id", budgetHandler.Get)
	protected.PUT("/budgets/:id", budgetHandler.Update)
	protected.DELETE("/budgets/:id", budgetHandler.Delete)

	goalHandler := handler.NewGoalHandler(db)
	protected.POST("/goals", goalHandler.Create)
	protected.GET("/goals", goalHandler.List)
	protected.GET("/goals/:id", goalHandler.Get)
	protected.PUT("/goals/:id", goalHandler.Update)
	protected.DELETE("/goals/:id", goalHandler.Delete)

	recurringHandler := handler.NewRecurringHandler(db, recurringSvc)
	protected.POST("/recurring", recurringHandler.Create)
	protected.GET("/recurring", recurringHandler.List)
	protected.GET("/recurring/:id", recurringHandler.Get)
	protected.PUT("/recurring/:id", recurringHandler.Update)
	protected.DELETE("/recurring/:id", recurringHandler.Delete)
	protected.POST("/recurring/:id/process", recurringHandler.Process)

	rateHandler := handler.NewRateHandler(db, rates)
	protected.POST("/rates", rateHandler.Create)
	protected.GET("/rates", rateHandler.List)

	analyticsHandler := handler.NewAnalyticsHandler(db, snapshots)
	protected.GET("/analytics/monthly", analyticsHandler.Monthly)
	protected.GET("/analytics/snapshots", analyticsHandler.ListSnapshots)
	protected.POST("/analytics/snapshots", analyticsHandler.BuildSnapshot)

	logHandler := handler.NewLogHandler(db)
	protected.GET("/audit", logHandler.List)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
