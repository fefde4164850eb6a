package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/userdeck/userdeck/internal/config"
	"github.com/userdeck/userdeck/internal/console"
	"github.com/userdeck/userdeck/internal/listview"
	"github.com/userdeck/userdeck/internal/notify"
	"github.com/userdeck/userdeck/internal/users"
	"github.com/userdeck/userdeck/internal/view"
)

// AppState holds all application services
type AppState struct {
	Logger      *zap.Logger
	Config      *config.Config
	DB          *bun.DB
	UserService users.UserService
	Actions     *users.Actions
	Handlers    *users.UserHandlers
	ViewCache   *view.PathCache
	Console     *console.ConsoleService
}

func main() {
	// Load configuration
	config.Load()

	// Initialize logger with config
	logger := initLogger()
	logger.Info("Configuration loaded", zap.String("source", "config.Load()"))

	// Initialize application state
	as, err := newAppState(logger)
	if err != nil {
		logger.Fatal("Failed to initialize application state", zap.Error(err))
	}

	// Create HTTP server
	router := setupRouter(as)

	addr := fmt.Sprintf("%s:%d", config.Http().Host, config.Http().Port)

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Setup graceful shutdown
	done := setupSignalHandler(as, server, logger)

	// Start server
	logger.Info("Starting userdeck server", zap.String("address", addr))

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
}

// newAppState creates and initializes the application state
func newAppState(logger *zap.Logger) (*AppState, error) {
	var store users.UserStore
	var db *bun.DB

	switch driver := config.Storage().Driver; driver {
	case "memory":
		logger.Info("Using in-memory user store")
		store = users.NewMemoryUserStore()
	case "postgres":
		pgConfig := config.Postgres()
		logger.Info("Database configuration",
			zap.String("host", pgConfig.Host),
			zap.Int("port", pgConfig.Port),
			zap.String("database", pgConfig.Database),
			zap.String("user", pgConfig.User))

		var err error
		db, err = users.OpenDatabase(pgConfig.DSN(), pgConfig.MaxOpenConnections)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := users.CreateTables(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}

		store = users.NewPostgresUserStore(db)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}

	userService := users.NewUserService(store)
	viewCache := view.NewPathCache(0)
	actions := users.NewActions(userService, viewCache, logger)
	handlers := users.NewUserHandlers(actions, userService, logger)

	notifier := notify.NewLogNotifier(logger)
	page := listview.NewPage(userService, actions, viewCache, notifier, logger)
	consoleService := console.NewConsoleService(page, logger)

	return &AppState{
		Logger:      logger,
		Config:      config.Get(),
		DB:          db,
		UserService: userService,
		Actions:     actions,
		Handlers:    handlers,
		ViewCache:   viewCache,
		Console:     consoleService,
	}, nil
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var cfg zap.Config
	if logConfig.Format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	// Set log level
	switch logConfig.Level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func setupRouter(as *AppState) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Add CORS middleware
	router.Use(cors.Default())

	// Add logging middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health endpoint
	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()

		if err := as.UserService.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": time.Now().Format(time.RFC3339),
				"error":     err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"services": gin.H{
				"database": "healthy",
			},
		})
	})

	api := router.Group("/api/v1")
	as.Handlers.RegisterRoutes(api)

	// Server-rendered users console
	as.Console.SetupRoutes(router)

	return router
}

func setupSignalHandler(as *AppState, server *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		// Create context with timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Shutdown server
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		// Close database
		if as.DB != nil {
			if err := as.DB.Close(); err != nil {
				logger.Error("Error closing database", zap.Error(err))
			}
		}

		done <- struct{}{}
	}()

	return done
}
