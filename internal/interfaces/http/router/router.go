package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/tecbunny/backend/internal/domain/integration"
	"github.com/tecbunny/backend/internal/infrastructure/auth"
	"github.com/tecbunny/backend/internal/infrastructure/config"
	"github.com/tecbunny/backend/internal/infrastructure/logger"
	"github.com/tecbunny/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Options holds router construction dependencies
type Options struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
	Registrars []RouteRegistrar
}

// New builds the gin engine with the standard middleware chain and all
// registered routes mounted under /api/v1. Sync routes sit behind JWT auth
// when a secret is configured.
func New(opts Options) *gin.Engine {
	if opts.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	registerValidators()

	engine := gin.New()
	if len(opts.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(opts.Config.HTTP.TrustedProxies)
	}

	engine.Use(logger.Recovery(opts.Logger))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(opts.Logger))
	engine.Use(otelgin.Middleware(opts.Config.Telemetry.ServiceName))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	if opts.Config.JWT.Secret != "" {
		api.Use(middleware.JWTAuthMiddleware(opts.JWTService, opts.Logger))
	}

	for _, registrar := range opts.Registrars {
		registrar.RegisterRoutes(api)
	}

	return engine
}

// registerValidators installs custom binding rules
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("syncdirection", func(fl validator.FieldLevel) bool {
		return integration.SyncDirection(fl.Field().String()).IsValid()
	})
}
