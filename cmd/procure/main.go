package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitfantasy/procure/internal/config"
	"github.com/bitfantasy/procure/internal/middleware"
	"github.com/bitfantasy/procure/internal/procurement/entity"
	"github.com/bitfantasy/procure/internal/procurement/handler"
	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/bitfantasy/procure/internal/procurement/service"
	"github.com/bitfantasy/procure/internal/shared/storage"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting procure service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// AutoMigrate 采购实体
	if err := db.AutoMigrate(
		&entity.Engineer{},
		&entity.Package{},
		&entity.Item{},
		&entity.Supplier{},
		&entity.Quote{},
		&entity.Approval{},
		&entity.PurchaseOrder{},
		&entity.POLine{},
		&entity.SupplierEvaluation{},
		&entity.ExportDeclaration{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	// Seed: 默认采购工程师
	seedEngineers(db)

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 初始化对象存储（可选，未配置则报价附件只存元数据）
	var store *storage.Client
	if cfg.MinIO.Endpoint != "" {
		store, err = storage.New(context.Background(), storage.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			zapLogger.Warn("MinIO unavailable, quote documents disabled", zap.Error(err))
			store = nil
		}
	}

	// 初始化依赖
	repos := repository.NewRepositories(db)

	pkgSvc := service.NewPackageService(repos.Package, repos.Item, repos.Quote, repos.Engineer)
	itemSvc := service.NewItemService(repos.Item, repos.Package, repos.Quote)
	supplierSvc := service.NewSupplierService(repos.Supplier, repos.Item, repos.Quote)
	quoteSvc := service.NewQuoteService(repos.Quote, repos.Item, repos.Supplier)
	quoteSvc.SetStorage(store)
	approvalSvc := service.NewApprovalService(repos.Approval, repos.Package, repos.Quote)
	poSvc := service.NewPOService(repos.PO, repos.Package, repos.Item, repos.Quote)
	evalSvc := service.NewEvaluationService(repos.Evaluation, repos.Supplier)
	declSvc := service.NewDeclarationService(repos.Declaration, repos.Package)
	exportSvc := service.NewExportService(repos.Package, repos.Item, repos.Quote)
	dashboardSvc := service.NewDashboardService(db, repos.PO, rdb)

	handlers := handler.NewHandlers(pkgSvc, itemSvc, supplierSvc, quoteSvc,
		approvalSvc, poSvc, evalSvc, declSvc, exportSvc, dashboardSvc)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 注册路由
	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func seedEngineers(db *gorm.DB) {
	engineerSeeds := []struct{ ID, Name, Email string }{
		{"eng-default-001", "采购一组", "procurement1@example.com"},
		{"eng-default-002", "采购二组", "procurement2@example.com"},
	}
	for _, es := range engineerSeeds {
		db.Exec(`INSERT INTO proc_engineers (id, name, email, created_at)
			VALUES (?, ?, ?, NOW())
			ON CONFLICT (id) DO NOTHING`, es.ID, es.Name, es.Email)
	}
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")

	authorized := v1.Group("/procurement")
	authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))

	// 审批、BOD批准、订单签发等关键动作要求approver角色
	approver := middleware.RequireRole("approver")
	{
		// 采购包
		packages := authorized.Group("/packages")
		{
			packages.GET("", h.Package.List)
			packages.POST("", h.Package.Create)
			packages.GET("/:id", h.Package.Get)
			packages.PUT("/:id", h.Package.Update)
			packages.POST("/:id/status", h.Package.ChangeStatus)
			packages.POST("/:id/bod-approve", approver, h.Package.BODApprove)
			packages.GET("/:id/summary", h.Package.Summary)
			packages.GET("/:id/cbe-export", h.Package.ExportCBE)

			// 明细
			packages.GET("/:id/items", h.Item.List)
			packages.POST("/:id/items", h.Item.Create)

			// 审批
			packages.GET("/:id/approvals", h.Approval.List)
			packages.GET("/:id/approvals/:supplierId", h.Approval.Status)
			packages.PUT("/:id/approvals/:supplierId", approver, h.Approval.Submit)
			packages.GET("/:id/approval-status", h.Approval.PackageStatus)

			// 开单资格
			packages.GET("/:id/eligible-suppliers", h.PO.EligibleSuppliers)
			packages.GET("/:id/eligible-items", h.PO.EligibleItems)

			// 报关填报会话
			packages.POST("/:id/declaration-sessions", h.Declaration.StartSession)
		}

		// 明细
		items := authorized.Group("/items")
		{
			items.GET("/:id", h.Item.Get)
			items.PUT("/:id", h.Item.Update)
			items.POST("/:id/deliver", h.Item.Deliver)
			items.GET("/:id/quotes", h.Quote.List)
			items.POST("/:id/quotes", h.Quote.Create)
			items.GET("/:id/best-quote", h.Quote.BestQuote)
		}

		// 报价
		quotes := authorized.Group("/quotes")
		{
			quotes.GET("/:id", h.Quote.Get)
			quotes.PUT("/:id", h.Quote.Update)
			quotes.POST("/:id/prefer", h.Quote.Prefer)
			quotes.POST("/:id/bod-approve", approver, h.Quote.BODApprove)
			quotes.POST("/:id/documents", h.Quote.UploadDocument)
			quotes.GET("/:id/documents/download", h.Quote.DownloadDocument)
		}

		// 供应商
		suppliers := authorized.Group("/suppliers")
		{
			suppliers.GET("", h.Supplier.List)
			suppliers.POST("", h.Supplier.Create)
			suppliers.GET("/:id", h.Supplier.Get)
			suppliers.PUT("/:id", h.Supplier.Update)
			suppliers.GET("/:id/rollup", h.Supplier.Rollup)
		}

		// 采购订单
		pos := authorized.Group("/purchase-orders")
		{
			pos.GET("", h.PO.List)
			pos.POST("", h.PO.Create)
			pos.POST("/preview", h.PO.Preview)
			pos.GET("/:id", h.PO.Get)
			pos.POST("/:id/status", approver, h.PO.ChangeStatus)
		}

		// 供应商评价
		evals := authorized.Group("/evaluations")
		{
			evals.GET("", h.Evaluation.List)
			evals.POST("", h.Evaluation.Create)
			evals.GET("/:id", h.Evaluation.Get)
			evals.PUT("/:id", h.Evaluation.Update)
			evals.POST("/:id/submit", h.Evaluation.Submit)
			evals.POST("/:id/approve", approver, h.Evaluation.Approve)
		}

		// 报关填报会话
		declSessions := authorized.Group("/declaration-sessions")
		{
			declSessions.GET("/:id", h.Declaration.Progress)
			declSessions.PUT("/:id/fields", h.Declaration.SetFields)
			declSessions.POST("/:id/advance", h.Declaration.Advance)
			declSessions.POST("/:id/retreat", h.Declaration.Retreat)
			declSessions.POST("/:id/finalize", h.Declaration.Finalize)
		}

		// 报关单
		declarations := authorized.Group("/declarations")
		{
			declarations.GET("", h.Declaration.List)
			declarations.GET("/:id", h.Declaration.Get)
			declarations.POST("/:id/status", h.Declaration.ChangeStatus)
		}

		// 看板
		authorized.GET("/dashboard/summary", h.Dashboard.Summary)
	}
}
