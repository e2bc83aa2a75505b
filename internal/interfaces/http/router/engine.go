package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EngineConfig holds what the HTTP engine needs besides the handlers
type EngineConfig struct {
	HTTP           config.HTTPConfig
	ServiceName    string
	TracingEnabled bool
	TracerProvider trace.TracerProvider
	Tokens         middleware.TokenVerifier
	Logger         *zap.Logger

	// ProfilingEnabled adds per-route pprof labels for the continuous profiler
	ProfilingEnabled bool
}

// NewEngine builds the gin engine with the middleware stack, the health
// probe and every API route.
//
// Middleware order:
//  1. RequestID, so every later layer can tag its output
//  2. Recovery and request logging
//  3. Tracing, span error marking and profiling labels
//  4. Security headers, CORS and the body limit
//  5. JWT authentication and span enrichment (API routes only)
func NewEngine(cfg EngineConfig, system *handler.SystemHandler, handlers Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName:    cfg.ServiceName,
			Enabled:        cfg.TracingEnabled,
			TracerProvider: cfg.TracerProvider,
		}),
		middleware.SpanErrorMarker(),
		middleware.Profiling(cfg.ProfilingEnabled),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", system.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(
		middleware.JWTAuth(middleware.JWTMiddlewareConfig{Verifier: cfg.Tokens, Logger: log}),
		middleware.TracingAttributeInjector(),
	)
	for _, group := range APIRoutes(handlers) {
		r.Register(group)
	}
	r.Setup()

	return engine
}
