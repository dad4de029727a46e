package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/lawfirm-bo-api/api/swagger"
	"github.com/noah-isme/lawfirm-bo-api/internal/handler"
	"github.com/noah-isme/lawfirm-bo-api/internal/middleware"
	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	"github.com/noah-isme/lawfirm-bo-api/internal/repository"
	"github.com/noah-isme/lawfirm-bo-api/internal/service"
	"github.com/noah-isme/lawfirm-bo-api/pkg/cache"
	"github.com/noah-isme/lawfirm-bo-api/pkg/config"
	"github.com/noah-isme/lawfirm-bo-api/pkg/database"
	"github.com/noah-isme/lawfirm-bo-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lawfirm-bo-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lawfirm-bo-api/pkg/middleware/requestid"
)

// @title Law Firm Back Office API
// @version 1.0.0
// @description Multi-tenant back office: approval workflow, consultation board, usage counters
// @BasePath /
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, stats caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	postRepo := repository.NewPostRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "lawfirm-bo-api",
		SingleSession:      cfg.JWT.SingleSession,
	})
	usageSvc := service.NewUsageService(userRepo, logr)
	postSvc := service.NewPostService(postRepo, userRepo, usageSvc, userRepo, logr)
	approvalSvc := service.NewApprovalService(approvalRepo, userRepo, postSvc, userRepo, logr,
		service.WithApprovalMetrics(metricsSvc))
	userSvc := service.NewUserService(userRepo, logr)
	caseSvc := service.NewCaseService(caseRepo, validate, logr)
	leaveSvc := service.NewLeaveService(leaveRepo, validate, logr)
	expenseSvc := service.NewExpenseService(expenseRepo, validate, logr)
	billingSvc := service.NewBillingService(billingRepo, cacheRepo, cfg.Billing.StatsCacheTTL, validate, logr)
	billingSvc.SetMetrics(metricsSvc)

	authHandler := handler.NewAuthHandler(authSvc)
	approvalHandler := handler.NewApprovalHandler(approvalSvc, cfg.Approvals.BulkMaxItems)
	postHandler := handler.NewPostHandler(postSvc, cfg.Posts.DefaultPageSize)
	userHandler := handler.NewUserHandler(userSvc)
	caseHandler := handler.NewCaseHandler(caseSvc)
	leaveHandler := handler.NewLeaveHandler(leaveSvc)
	expenseHandler := handler.NewExpenseHandler(expenseSvc)
	billingHandler := handler.NewBillingHandler(billingSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	approvals := api.Group("/approvals", middleware.JWT(authSvc))
	{
		approvals.POST("", approvalHandler.Submit)
		approvals.GET("", approvalHandler.List)
		approvals.GET("/:id", approvalHandler.Get)
		approvals.POST("/:id/approve", approvalHandler.Approve)
		approvals.POST("/:id/reject", approvalHandler.Reject)
		approvals.POST("/bulk-approve", approvalHandler.BulkApprove)
		approvals.DELETE("/:id", approvalHandler.Delete)
	}

	posts := api.Group("/posts", middleware.JWT(authSvc))
	{
		posts.POST("", postHandler.Create)
		posts.GET("", postHandler.List)
		posts.GET("/:id", postHandler.Get)
		posts.POST("/:id/answer", middleware.RequireElevated(), postHandler.Answer)
		posts.DELETE("/:id", postHandler.Delete)
	}

	users := api.Group("/users", middleware.JWT(authSvc))
	{
		users.GET("", userHandler.List)
		users.GET("/company/:bizNum", userHandler.ListCompany)
		users.GET("/:id", userHandler.Get)
		users.PATCH("/:id", userHandler.Update)
	}

	cases := api.Group("/cases", middleware.JWT(authSvc))
	{
		cases.POST("", caseHandler.Create)
		cases.GET("", caseHandler.List)
		cases.GET("/:id", caseHandler.Get)
		cases.PATCH("/:id", caseHandler.Update)
		cases.DELETE("/:id", caseHandler.Delete)
	}

	leaves := api.Group("/leaves", middleware.JWT(authSvc))
	{
		leaves.POST("", leaveHandler.Submit)
		leaves.GET("", leaveHandler.List)
		leaves.POST("/:id/process", leaveHandler.Process)
	}

	expenses := api.Group("/expenses", middleware.JWT(authSvc))
	{
		expenses.POST("", expenseHandler.Create)
		expenses.GET("", expenseHandler.List)
		expenses.GET("/export/csv", expenseHandler.ExportCSV)
		expenses.GET("/export/pdf", expenseHandler.ExportPDF)
	}

	billing := api.Group("/billing", middleware.JWT(authSvc), middleware.RequireRoles(models.ElevatedRoles...))
	{
		billing.POST("", middleware.Audit(userRepo, "BILLING_CREATE", "billing"), billingHandler.Create)
		billing.GET("", billingHandler.List)
		billing.GET("/my", billingHandler.MyLogs)
		billing.GET("/stats", billingHandler.Stats)
		billing.GET("/export/csv", billingHandler.ExportCSV)
		billing.GET("/export/pdf", billingHandler.ExportPDF)
	}

	api.GET("/metrics/snapshot", middleware.JWT(authSvc), middleware.RequireElevated(), metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
