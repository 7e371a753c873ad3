package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/sumanshinde/cloth-pos/api/swagger" // swagger docs
	"github.com/sumanshinde/cloth-pos/internal/config"
	"github.com/sumanshinde/cloth-pos/internal/handler"
	"github.com/sumanshinde/cloth-pos/internal/logger"
	"github.com/sumanshinde/cloth-pos/internal/middleware"
	"github.com/sumanshinde/cloth-pos/internal/repository"
	"github.com/sumanshinde/cloth-pos/internal/service"
	"github.com/sumanshinde/cloth-pos/internal/websocket"
)

// @title           Cloth POS Terminal API
// @version         1.0
// @description     Till-side API for checkout, inventory editing, returns and sales analytics.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.Server.GinMode)
	secret := cfg.JWTSecret()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log, cfg.Server.CORSOrigins)
	go wsHub.Run(ctx)

	// Set up dependencies (Repository -> Service -> Handler)
	httpClient := &http.Client{Timeout: cfg.Backend.Timeout}
	anonymous := repository.NewClient(cfg.Backend, "", httpClient)
	newBackend := func(token string) *repository.Backend {
		return repository.NewBackend(anonymous.WithToken(token))
	}

	sessions := service.NewSessionStore(cfg.Server.SessionTTL)
	authService := service.NewAuthService(repository.NewAuthRepository(anonymous), newBackend, sessions, secret, log)
	checkoutService := service.NewCheckoutService(sessions, wsHub, log)
	inventoryService := service.NewInventoryService(sessions, log)
	dashboardService := service.NewDashboardService(sessions, log)
	analyticsService := service.NewAnalyticsService(sessions, log)
	returnService := service.NewReturnService(sessions, wsHub, log)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, cfg.IsRelease())
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	returnHandler := handler.NewReturnHandler(returnService)

	// Expired sessions are swept in the background
	scheduler := gocron.NewScheduler(time.Local)
	if _, err := scheduler.Every(cfg.Server.SweepInterval).Do(func() {
		if n := sessions.Sweep(); n > 0 {
			log.Info("expired sessions removed", zap.Int("count", n))
		}
	}); err != nil {
		log.Fatal("failed to schedule session sweep", zap.Error(err))
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	middleware.InitMetrics(prometheus.DefaultRegisterer, service.Collectors()...)

	// Set up Gin Router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.PrometheusMiddleware())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "sessions": sessions.Count()})
	})

	// WebSocket endpoint for the customer display
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, func(token string) (string, error) {
			claims, err := middleware.ParseSessionToken(token, secret)
			if err != nil {
				return "", err
			}
			if _, err := sessions.Get(claims.SessionID); err != nil {
				return "", err
			}
			return claims.SessionID, nil
		})
	})

	// API Routing
	public := router.Group("/api")
	protected := router.Group("/api", middleware.RequireSession(secret))
	authHandler.RegisterRoutes(public, protected)
	checkoutHandler.RegisterRoutes(protected)
	inventoryHandler.RegisterRoutes(protected)
	dashboardHandler.RegisterRoutes(protected)
	analyticsHandler.RegisterRoutes(protected)
	returnHandler.RegisterRoutes(protected)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("backend", cfg.Backend.BaseURL),
			zap.String("env", cfg.Server.AppEnv),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
