package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/auth"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/config"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/middleware"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/handler"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/repository"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/service"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/shared/tally"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
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
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting ramexpoin service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	rdb := initRedis(cfg.Redis)

	tallyClient := tally.NewClient(cfg.Tally.Endpoint, zapLogger)
	if cfg.Tally.Endpoint == "" {
		zapLogger.Warn("Tally endpoint not configured, voucher posting disabled")
	}

	if cfg.MinIO.Endpoint != "" {
		minioClient, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			zapLogger.Warn("Failed to init minio client, voucher archiving disabled", zap.Error(err))
		} else {
			tallyClient.SetArchive(minioClient, cfg.MinIO.Bucket)
			zapLogger.Info("Voucher archiving enabled", zap.String("bucket", cfg.MinIO.Bucket))
		}
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, rdb, tallyClient, zapLogger)
	authSvc := auth.NewService(repos.User, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services, authSvc)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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
		Logger: logger.Default.LogMode(logger.Warn),
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

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.POST("/auth/register", middleware.RequireAdmin(), h.Auth.Register)

			authorized.GET("/dashboard/summary", h.Dashboard.Summary)

			suppliers := authorized.Group("/suppliers")
			{
				suppliers.GET("", h.Master.ListSuppliers)
				suppliers.POST("", h.Master.CreateSupplier)
				suppliers.GET("/:id", h.Master.GetSupplier)
				suppliers.PUT("/:id", h.Master.UpdateSupplier)
				suppliers.DELETE("/:id", middleware.RequireAdmin(), h.Master.DeleteSupplier)
			}

			items := authorized.Group("/items")
			{
				items.GET("", h.Master.ListItems)
				items.POST("", h.Master.CreateItem)
				items.GET("/:id", h.Master.GetItem)
				items.PUT("/:id", h.Master.UpdateItem)
				items.DELETE("/:id", middleware.RequireAdmin(), h.Master.DeleteItem)
			}

			gapItems := authorized.Group("/gap-items")
			{
				gapItems.GET("", h.Master.ListGapItems)
				gapItems.POST("", h.Master.CreateGapItem)
				gapItems.PUT("/:id", h.Master.UpdateGapItem)
				gapItems.DELETE("/:id", middleware.RequireAdmin(), h.Master.DeleteGapItem)
			}

			customers := authorized.Group("/customers")
			{
				customers.GET("", h.Master.ListCustomers)
				customers.POST("", h.Master.CreateCustomer)
				customers.PUT("/:id", h.Master.UpdateCustomer)
				customers.DELETE("/:id", middleware.RequireAdmin(), h.Master.DeleteCustomer)
			}

			pos := authorized.Group("/purchase-orders")
			{
				pos.GET("", h.PO.List)
				pos.POST("", h.PO.Create)
				pos.GET("/export", h.PO.Export)
				pos.GET("/:id", h.PO.Get)
				pos.PUT("/:id", h.PO.Update)
				pos.DELETE("/:id", middleware.RequireAdmin(), h.PO.Delete)
				pos.POST("/:id/close", middleware.RequireAdmin(), h.PO.Close)
				pos.POST("/:id/post-voucher", h.PO.PostVoucher)
			}

			preGR := authorized.Group("/pre-gr")
			{
				preGR.GET("", h.PreGR.List)
				preGR.POST("", h.PreGR.Create)
				preGR.GET("/:id", h.PreGR.Get)
				preGR.PUT("/:id", h.PreGR.Update)
				preGR.DELETE("/:id", middleware.RequireAdmin(), h.PreGR.Delete)
				preGR.POST("/:id/approve", middleware.RequireAdmin(), h.PreGR.Approve)
			}

			gqr := authorized.Group("/gqr")
			{
				gqr.GET("", h.GQR.List)
				gqr.POST("", h.GQR.Create)
				gqr.GET("/available-pre-grs", h.GQR.ListAvailablePreGRs)
				gqr.GET("/export", h.GQR.Export)
				gqr.GET("/:id", h.GQR.Get)
				gqr.PUT("/:id", h.GQR.Update)
				gqr.GET("/:id/settlement", h.GQR.Settlement)
				gqr.GET("/:id/snapshots", h.GQR.Snapshots)
				gqr.POST("/:id/finalize", middleware.RequireAdmin(), h.GQR.Finalize)
				gqr.POST("/:id/reverse-request", middleware.RequireAdmin(), h.GQR.RequestReverse)
				gqr.POST("/:id/reverse-confirm", middleware.RequireAdmin(), h.GQR.ConfirmReverse)
			}
		}
	}
}
