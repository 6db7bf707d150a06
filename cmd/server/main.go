package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("store_backend", cfg.Store.Backend),
		zap.String("cart_store", cfg.Cart.Store),
	)

	// Connect the document store
	selector := persistence.NewSelector(cfg.Store, log)
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.Store.ConnectTimeout)
	store, err := selector.Connect(connectCtx)
	cancelConnect()
	if err != nil {
		log.Fatal("Failed to connect document store", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := selector.Disconnect(ctx); err != nil {
			log.Error("Error closing document store", zap.Error(err))
		}
	}()
	log.Info("Document store connected", zap.String("backend", store.Backend()))

	// Select the cart store. Redis keeps carts out of the document store
	// and expires abandoned ones via TTL; the fallback shares the
	// document store's cart collection.
	var cartStore cart.Store
	if cfg.Cart.Store == "redis" {
		redisStore, err := cache.NewRedisCartStore(cfg.Redis, cfg.Cart.TTL)
		if err != nil {
			log.Fatal("Failed to connect Redis cart store", zap.Error(err))
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing Redis cart store", zap.Error(err))
			}
		}()
		cartStore = redisStore
		log.Info("Redis cart store connected",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Duration("ttl", cfg.Cart.TTL),
		)
	} else {
		cartStore = store.Carts()
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	orderActivityLogger := orderapp.NewOrderActivityLogger(log)
	eventBus.Subscribe(orderActivityLogger)
	log.Info("Event handlers registered",
		zap.Strings("order_activity_events", orderActivityLogger.EventTypes()),
	)

	// Initialize application services
	productService := catalogapp.NewProductService(store.Products())
	userService := identityapp.NewUserService(store.Users())
	cartService := cartapp.NewCartService(cartStore, store.Products())
	orderService := orderapp.NewOrderService(store.Orders(), cartStore, store.Users(), eventBus, log)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	userHandler := handler.NewUserHandler(userService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService, cartService)
	systemHandler := handler.NewSystemHandler(selector, cfg.App.Name)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Report validation failures by json field names
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID first so recovery and request logs
	// carry it, then panic recovery, logging, CORS.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSFromConfig(cfg.HTTP))

	// Health and system endpoints live outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/system/info", systemHandler.GetSystemInfo)

	// Register domain routes under /api/v1
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(productHandler).
		Register(userHandler).
		Register(cartHandler).
		Register(orderHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
