// Package main runs the college event-management HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iconnectlink/backend/config"
	"github.com/iconnectlink/backend/internal/auth"
	"github.com/iconnectlink/backend/internal/events"
	"github.com/iconnectlink/backend/internal/middleware"
	"github.com/iconnectlink/backend/internal/models"
	"github.com/iconnectlink/backend/internal/payments"
	"github.com/iconnectlink/backend/internal/registrations"
	"github.com/iconnectlink/backend/internal/users"
	"github.com/iconnectlink/backend/pkg/database"
	"github.com/iconnectlink/backend/pkg/redis"
	"github.com/iconnectlink/backend/pkg/response"
	"github.com/iconnectlink/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			PostersBucket:   cfg.AWS.PostersBucket,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Auth and users
	userRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(userRepo, jwtService, logger)
	userHandler := users.NewHandler(userRepo, logger)

	// Events
	eventRepo := events.NewRepository(pool)
	var posterStorage events.PosterStorage
	if s3Client != nil {
		posterStorage = s3Client
	}
	eventHandler := events.NewHandler(eventRepo, posterStorage, logger)

	// Demo payments. The demo verifier approves every booking; swap in
	// payments.NewIntentVerifier(paymentStore) to require a confirmed intent.
	paymentStore := payments.NewStore(rdb.Client)
	paymentHandler := payments.NewHandler(paymentStore, eventRepo, logger)
	var verifier payments.Verifier = payments.DemoVerifier{}

	// Registrations
	registrationRepo := registrations.NewRepository(pool)
	registrationHandler := registrations.NewHandler(registrationRepo, eventRepo, verifier, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	authRequired := middleware.JWT(jwtService)
	clubOnly := middleware.RequireRole(string(models.RoleClub))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, "ok", nil) })

	api := router.Group("/api")
	{
		// Auth (public)
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)

		// Users
		api.POST("/users/change-password", authRequired, userHandler.ChangePassword)

		// Events
		api.GET("/events", eventHandler.List)
		api.GET("/events/my-events", authRequired, eventHandler.ListMine)
		api.GET("/events/:id", eventHandler.GetByID)
		api.POST("/events", authRequired, clubOnly, eventHandler.Create)
		api.PUT("/events/:id", authRequired, eventHandler.Update)
		api.DELETE("/events/:id", authRequired, eventHandler.Delete)
		api.POST("/events/:id/poster", authRequired, eventHandler.UploadPoster)

		// Registrations
		api.POST("/registrations", authRequired, registrationHandler.Create)
		api.GET("/registrations", registrationHandler.ListAll)
		api.GET("/registrations/my-bookings", authRequired, registrationHandler.ListMine)
		api.GET("/registrations/event/:id", registrationHandler.ListByEvent)

		// Demo payment intents
		api.POST("/payments/intents", authRequired, paymentHandler.CreateIntent)
		api.POST("/payments/intents/:id/confirm", authRequired, paymentHandler.ConfirmIntent)
		api.GET("/payments/intents/:id", authRequired, paymentHandler.GetIntent)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
