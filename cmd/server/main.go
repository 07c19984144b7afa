package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	syncapp "github.com/tecbunny/backend/internal/application/sync"
	"github.com/tecbunny/backend/internal/infrastructure/auth"
	"github.com/tecbunny/backend/internal/infrastructure/cache"
	"github.com/tecbunny/backend/internal/infrastructure/config"
	"github.com/tecbunny/backend/internal/infrastructure/erp"
	"github.com/tecbunny/backend/internal/infrastructure/logger"
	"github.com/tecbunny/backend/internal/infrastructure/persistence"
	"github.com/tecbunny/backend/internal/infrastructure/telemetry"
	"github.com/tecbunny/backend/internal/interfaces/http/handler"
	"github.com/tecbunny/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)

	zohoCfg := &erp.ZohoConfig{
		ClientID:        cfg.Zoho.ClientID,
		ClientSecret:    cfg.Zoho.ClientSecret,
		RedirectURI:     cfg.Zoho.RedirectURI,
		OrganizationID:  cfg.Zoho.OrganizationID,
		AccessToken:     cfg.Zoho.AccessToken,
		RefreshToken:    cfg.Zoho.RefreshToken,
		AccountsBaseURL: cfg.Zoho.AccountsBaseURL,
		APIBaseURL:      cfg.Zoho.APIBaseURL,
		TimeoutSeconds:  cfg.Zoho.TimeoutSeconds,
		PageSize:        cfg.Zoho.PageSize,
	}

	tokenManager, err := erp.NewTokenManager(settingRepo, zohoCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize token manager", zap.Error(err))
	}
	if err := tokenManager.SeedFromConfig(ctx); err != nil {
		log.Warn("Seeding integration credentials failed", zap.Error(err))
	}

	zohoClient, err := erp.NewZohoClient(zohoCfg, tokenManager, log)
	if err != nil {
		log.Fatal("Failed to initialize platform client", zap.Error(err))
	}

	syncService := syncapp.NewService(
		customerRepo,
		productRepo,
		orderRepo,
		zohoClient,
		tokenManager,
		syncapp.Config{
			BatchSize:  cfg.Zoho.BatchSize,
			BatchDelay: cfg.Zoho.BatchDelay,
		},
		log,
	)

	// The Redis lock is optional: without it sync runs are only serialized
	// within this process by the platform's own rate limits.
	var syncLock handler.SyncLock
	redisLock, err := cache.NewRedisSyncLock(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Zoho.LockTTL)
	if err != nil {
		log.Warn("Redis unavailable, sync runs will not be serialized", zap.Error(err))
	} else {
		syncLock = redisLock
		defer func() {
			_ = redisLock.Close()
		}()
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	syncHandler := handler.NewSyncHandler(syncService, syncLock, log)

	engine := router.New(router.Options{
		Config:     cfg,
		Logger:     log,
		JWTService: jwtService,
		Registrars: []router.RouteRegistrar{syncHandler},
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
