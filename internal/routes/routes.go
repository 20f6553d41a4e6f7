package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nauticare/internal/controllers"
	"nauticare/internal/repositories"
	"nauticare/internal/services"
	"nauticare/pkg/config"
	"nauticare/pkg/middleware"
	"nauticare/pkg/service"
)

// Init wires repositories, services and controllers onto the echo instance.
func Init(e *echo.Echo, pool *pgxpool.Pool, redisClient *redis.Client, cfg *config.Config, logger *zap.Logger) {
	txManager := repositories.NewTxManager(pool)
	requestRepo := repositories.NewRequestRepository(pool)
	quoteRepo := repositories.NewQuoteRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	appointmentRepo := repositories.NewAppointmentRepository(pool)
	historyRepo := repositories.NewRequestHistoryRepository(pool)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	jwtService := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger)
	billingService := services.NewBillingService(cacheRepo, requestRepo, cfg.Billing, logger)
	flagService := services.NewActivityFlagService(cacheRepo, logger)
	requestService := services.NewRequestService(
		txManager, requestRepo, quoteRepo, invoiceRepo, appointmentRepo, historyRepo,
		billingService, flagService, logger,
	)
	summaryService := services.NewSummaryService(requestRepo, logger)
	reportService := services.NewReportService(invoiceRepo, logger)

	requestController := controllers.NewRequestController(requestService, logger)
	summaryController := controllers.NewSummaryController(summaryService, logger)
	reportController := controllers.NewReportController(reportService, logger)

	authMW := middleware.NewAuthMiddleware(jwtService, logger)

	api := e.Group("/api/v1", authMW.Auth)

	requests := api.Group("/requests")
	requests.GET("", requestController.GetRequests)
	requests.POST("", requestController.CreateRequest)
	requests.GET("/:id", requestController.FindRequest)
	requests.POST("/:id/transitions", requestController.AttemptTransition)
	requests.PATCH("/:id/urgency", requestController.SetUrgency)
	requests.GET("/:id/history", requestController.GetHistory)

	api.GET("/summary", summaryController.GetSummary)
	api.GET("/reports/billing", reportController.GetBillingReport)
}
