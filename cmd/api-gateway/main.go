package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/pa-ews-api/api/swagger"
	"github.com/noah-isme/pa-ews-api/internal/handler"
	"github.com/noah-isme/pa-ews-api/internal/middleware"
	"github.com/noah-isme/pa-ews-api/internal/repository"
	"github.com/noah-isme/pa-ews-api/internal/service"
	"github.com/noah-isme/pa-ews-api/pkg/cache"
	"github.com/noah-isme/pa-ews-api/pkg/config"
	"github.com/noah-isme/pa-ews-api/pkg/database"
	"github.com/noah-isme/pa-ews-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/pa-ews-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/pa-ews-api/pkg/middleware/requestid"
)

// @title PA EWS API
// @version 0.1.0
// @description Academic early-warning dashboard backend
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, report caching disabled", zap.Error(err))
		redisClient = nil
	}

	// Repositories.
	studentRepo := repository.NewStudentRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	thresholdRepo := repository.NewThresholdRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	anonRepo := repository.NewAnonRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Risk.CacheTTL, logr, cfg.Risk.CacheEnabled && redisClient != nil)
	thresholdSvc := service.NewThresholdService(thresholdRepo, cacheSvc, nil, logr)
	ingestSvc := service.NewIngestService(studentRepo, scoreRepo, cacheSvc, metricsSvc, logr)
	riskSvc := service.NewRiskService(scoreRepo, studentRepo, thresholdSvc, cacheSvc, metricsSvc, logr, service.RiskServiceConfig{
		CacheTTL:        cfg.Risk.CacheTTL,
		RedRunLength:    cfg.Risk.RedRunLength,
		YellowRunLength: cfg.Risk.YellowRunLength,
	})
	dashboardSvc := service.NewDashboardService(scoreRepo, studentRepo, thresholdSvc, cacheSvc, logr, cfg.Risk.CacheTTL)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, studentRepo, nil, logr)
	exportSvc := service.NewExportService(scoreRepo, studentRepo, thresholdSvc, anonRepo, nil, nil, logr, cfg.Exports.PDFTitle)
	studentSvc := service.NewStudentService(studentRepo, logr)

	// Handlers.
	systemHandler := handler.NewSystemHandler(db, redisClient, metricsSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, ingestSvc, cfg.Uploads.MaxFileSizeBytes)
	scoreHandler := handler.NewScoreHandler(ingestSvc, dashboardSvc, cfg.Uploads.MaxFileSizeBytes)
	thresholdHandler := handler.NewThresholdHandler(thresholdSvc)
	riskHandler := handler.NewRiskHandler(riskSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", systemHandler.Health)
	r.GET("/ready", systemHandler.Ready)
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/students/upload", studentHandler.Upload)
		api.GET("/students", studentHandler.List)
		api.GET("/students/:id", studentHandler.Get)
		api.GET("/programs", studentHandler.Programs)

		api.POST("/scores/upload", scoreHandler.Upload)
		api.GET("/scores", scoreHandler.List)

		api.GET("/thresholds", thresholdHandler.Get)
		api.PUT("/thresholds", thresholdHandler.Update)

		api.GET("/risk/consecutive", riskHandler.Consecutive)
		api.GET("/risk/windows", riskHandler.Windows)
		api.GET("/risk/divergence", riskHandler.Divergence)

		api.GET("/dashboard/weekly", dashboardHandler.Weekly)
		api.GET("/dashboard/scatter", dashboardHandler.Scatter)
		api.GET("/dashboard/pivot", dashboardHandler.Pivot)

		api.POST("/feedbacks", feedbackHandler.Create)
		api.GET("/feedbacks/:studentId", feedbackHandler.ListByStudent)

		api.GET("/exports/scores.csv", exportHandler.ScoresCSV)
		api.GET("/exports/anonymized.csv", exportHandler.AnonymizedCSV)
		api.GET("/exports/risk.pdf", exportHandler.RiskPDF)

		api.GET("/system/metrics", systemHandler.Snapshot)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
