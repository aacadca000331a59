package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"awardfinder/cfg"
	"awardfinder/internal/award"
	"awardfinder/pkg/awardclient"
	"awardfinder/pkg/cache"
	"awardfinder/pkg/idgen"
	"awardfinder/pkg/llm"
	"awardfinder/pkg/logger"
	"awardfinder/pkg/loyalty"
	"awardfinder/pkg/narrative"
	"awardfinder/pkg/resolver"

	_ "awardfinder/cmd/awardfinder/docs" // swagger docs

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// @title           Award Finder API
// @version         1.0
// @description     Finds award round trips and one-way options that a credit card point balance can book.
// @BasePath        /
// @schemes         http
func main() {
	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============
	// Otel
	// ============
	shutdownOtel, err := initOtel(ctx, &config.Observability, zlogger)
	if err != nil {
		zlogger.Warn("failed to initialize OpenTelemetry, continuing without tracing/metrics",
			logger.Field{Key: "err", Value: err})
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOtel(ctx); err != nil {
				zlogger.Error("failed to shutdown OpenTelemetry", logger.Field{Key: "err", Value: err})
			}
		}()
	}

	// ============
	// Cache
	// ============
	var responseCache cache.Cache
	if config.RedisConfig.Enabled() {
		responseCache = cache.NewRedisCache(config.RedisConfig.Addr(), config.RedisConfig.Password)
	} else {
		zlogger.Info("REDIS_HOST not set, caching provider responses in memory")
		responseCache = cache.NewMemoryCache()
	}

	// ============
	// Reference data
	// ============
	tables, err := loyalty.Default()
	if err != nil {
		log.Fatal(err)
	}

	ids, err := idgen.NewSnowflakeGenerator(config.NodeID)
	if err != nil {
		log.Fatal(err)
	}

	// ============
	// External Service
	// ============
	httpClient := &http.Client{
		Timeout: time.Duration(config.HTTPTimeoutSeconds) * time.Second,
	}
	providerClient := awardclient.NewClient(httpClient, config.ProviderConfig.BaseURL, config.ProviderConfig.APIKey,
		zlogger.With(logger.Field{Key: "component", Value: "provider"}))

	llmClient := llm.NewClient(httpClient, config.LLMConfig.BaseURL, config.LLMConfig.APIKey, config.LLMConfig.Model,
		zlogger.With(logger.Field{Key: "component", Value: "llm"}))
	if !llmClient.Enabled() {
		zlogger.Info("LLM_API_KEY not set, destinations pass through and highlights use the fallback line")
	}
	destinationResolver := resolver.New(llmClient, zlogger.With(logger.Field{Key: "component", Value: "resolver"}))
	summaries := narrative.NewSummaryCache(narrative.NewGenerator(llmClient),
		zlogger.With(logger.Field{Key: "component", Value: "narrative"}))

	// ============
	// Internal Service
	// ============
	awardSvc := award.NewService(award.Dependencies{
		Availability: providerClient,
		Trips:        providerClient,
		Resolver:     destinationResolver,
		Highlights:   summaries,
		Cards:        tables,
		Programs:     tables.Programs(),
		Cache:        responseCache,
		CacheTTL:     time.Duration(config.CacheTTLMinutes) * time.Minute,
		IDs:          ids,
		Logger:       zlogger.With(logger.Field{Key: "component", Value: "award"}),
	})
	awardHandler := award.NewAwardHandler(awardSvc, tables)

	// ============
	// HTTP
	// ============
	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(config.Observability.ServiceName))
	r.Use(TraceLoggerMiddleware(zlogger))

	awardHandler.RegisterRoutes(r)
	initSwagger(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.AppPort),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	zlogger.Info("award finder listening", logger.Field{Key: "addr", Value: srv.Addr})

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlogger.Error("failed to start server", logger.Field{Key: "err", Value: err})
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zlogger.Error("failed to shutdown http server", logger.Field{Key: "err", Value: err})
		}
	}
}

func initSwagger(r *gin.Engine) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		html := `<!DOCTYPE html>
<html>
<head>
    <title>Award Finder API</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
    <script id="api-reference" data-url="/swagger/doc.json"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`
		c.String(http.StatusOK, html)
	})
}
