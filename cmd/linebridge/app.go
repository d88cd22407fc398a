package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"linebridge/internal/config"
	"linebridge/internal/constants"
	"linebridge/internal/lineapi"
	"linebridge/internal/logger"
	"linebridge/internal/mcp"
	"linebridge/internal/resource"
	"linebridge/internal/store"
	"linebridge/internal/webhook"
	"linebridge/pkg/circuitbreaker"
	"linebridge/pkg/health"
	"linebridge/pkg/metrics"
	"linebridge/pkg/middleware"
	"linebridge/pkg/ratelimit"
	"linebridge/pkg/retry"
)

const (
	serviceName    = "linebridge"
	serviceVersion = "1.0.0"
)

type App struct {
	config     *config.Config
	logger     logger.Logger
	store      *store.FileStore
	lineClient *lineapi.Client
	server     *http.Server
	router     *gin.Engine
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		config: cfg,
		logger: log,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initStore(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	if err := a.initLineClient(ctx); err != nil {
		return fmt.Errorf("failed to initialize LINE client: %w", err)
	}

	if err := a.initRouter(); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	if err := a.initServer(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	return nil
}

func (a *App) initStore(ctx context.Context) error {
	a.store = store.NewFileStore(a.config.Storage.Path)

	// Probe the document once so a corrupt file is visible at startup. The
	// store never repairs it; the process still serves the catalog and
	// rejects reads until an operator intervenes.
	if err := a.store.Ping(ctx); err != nil {
		a.logger.ErrorwCtx(ctx, "Persisted message document is unreadable, reads will fail until repaired",
			"path", a.config.Storage.Path, "error", err)
	} else {
		records, _ := a.store.LoadAll(ctx)
		a.logger.InfowCtx(ctx, "Message store ready", "path", a.config.Storage.Path, "records", len(records))
	}

	return nil
}

func (a *App) initLineClient(ctx context.Context) error {
	var breaker *circuitbreaker.Wrapper
	if a.config.CircuitBreaker.Enabled {
		cbCfg := circuitbreaker.DefaultConfig("line_api")
		if a.config.CircuitBreaker.MaxRequests > 0 {
			cbCfg.MaxRequests = a.config.CircuitBreaker.MaxRequests
		}
		if a.config.CircuitBreaker.Interval > 0 {
			cbCfg.Interval = a.config.CircuitBreaker.Interval * time.Second
		}
		if a.config.CircuitBreaker.Timeout > 0 {
			cbCfg.Timeout = a.config.CircuitBreaker.Timeout * time.Second
		}
		if a.config.CircuitBreaker.FailureRatio > 0 && a.config.CircuitBreaker.MinRequests > 0 {
			cbCfg.ReadyToTrip = circuitbreaker.ReadyToTripRatio(a.config.CircuitBreaker.FailureRatio, a.config.CircuitBreaker.MinRequests)
		}
		breaker = circuitbreaker.NewWrapper(cbCfg)
	}

	policy := retry.DefaultPolicy()
	if a.config.Line.Retry.MaxAttempts > 0 {
		policy.MaxAttempts = a.config.Line.Retry.MaxAttempts
	}
	if a.config.Line.Retry.InitialInterval > 0 {
		policy.InitialInterval = a.config.Line.Retry.InitialInterval * time.Second
	}
	if a.config.Line.Retry.MaxInterval > 0 {
		policy.MaxInterval = a.config.Line.Retry.MaxInterval * time.Second
	}
	if a.config.Line.Retry.Multiplier > 0 {
		policy.Multiplier = a.config.Line.Retry.Multiplier
	}

	a.lineClient = lineapi.NewClient(a.config.Line.APIEndpoint, a.config.Line.ChannelAccessToken, policy, breaker, a.logger)

	if a.config.Line.VerifyTokenOnStart {
		probeCtx, cancel := context.WithTimeout(ctx, constants.DefaultHTTPTimeout)
		defer cancel()

		info, err := a.lineClient.BotInfo(probeCtx)
		if err != nil {
			a.logger.WarnwCtx(ctx, "LINE access token verification failed, continuing", "error", err)
		} else {
			a.logger.InfowCtx(ctx, "LINE access token verified", "bot", info.DisplayName)
		}
	}

	return nil
}

func (a *App) initRouter() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(a.logger))
	router.Use(middleware.LoggerMiddleware(a.logger))
	router.Use(middleware.RequestIDMiddleware())

	webhookGroup := router.Group("/")
	if a.config.RateLimit.Enabled {
		rateLimitConfig := ratelimit.RateLimitConfig{
			RPS:             a.config.RateLimit.RPS,
			Burst:           a.config.RateLimit.Burst,
			CleanupInterval: time.Duration(a.config.RateLimit.CleanupInterval) * time.Second,
			MaxAge:          time.Duration(a.config.RateLimit.MaxAge) * time.Second,
		}
		webhookGroup.Use(ratelimit.RateLimitMiddleware(rateLimitConfig))
		a.logger.Infow("Rate limiting enabled", "rps", rateLimitConfig.RPS, "burst", rateLimitConfig.Burst)
	}

	webhookService := webhook.NewService(a.store, a.config.Line.ChannelSecret, a.logger)
	webhookHandler := webhook.NewHandler(webhookService, a.logger)
	webhookHandler.RegisterRoutes(webhookGroup)

	reader := resource.NewReader(a.store)
	mcpHandler := mcp.NewHandler(reader, serviceName, serviceVersion, a.logger)
	mcpHandler.RegisterRoutes(router)

	metrics.RegisterBridgeMetrics()
	if a.config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewStorageChecker(a.store))
	healthRegistry.Register(health.NewLineAPIChecker(a.lineClient))

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "running",
			"service": serviceName,
			"version": serviceVersion,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.router = router
	return nil
}

func (a *App) initServer() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeoutSeconds * time.Second,
		WriteTimeout: a.config.Server.WriteTimeoutSeconds * time.Second,
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.InfowCtx(ctx, "Server listening", "port", a.config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return a.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.InfowCtx(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if a.server != nil {
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	a.logger.InfowCtx(ctx, "Server exited successfully")
	return nil
}
