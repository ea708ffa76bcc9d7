package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SergeiKhy/shorturl-service/internal/auth"
	"github.com/SergeiKhy/shorturl-service/internal/config"
	"github.com/SergeiKhy/shorturl-service/internal/handler"
	"github.com/SergeiKhy/shorturl-service/internal/middleware"
	"github.com/SergeiKhy/shorturl-service/internal/repository"
	"github.com/SergeiKhy/shorturl-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Загрузка конфига
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, err := newLogger(cfg.App)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Миграции схемы
	if err := repository.Migrate(cfg.DB); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	logger.Info("Migrations applied")

	// Подключение к БД (postgres)
	db, err := repository.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	// Подключение к Redis
	redis, err := repository.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redis.Close()
	logger.Info("Connected to Redis")

	// Инициализация репозиториев
	linkRepo := repository.NewLinkRepository(db)
	cacheRepo := repository.NewCacheRepository(redis)
	clickRepo := repository.NewClickRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Инициализация сервисов
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	linkService := service.NewLinkService(linkRepo, clickRepo, cacheRepo, logger,
		service.WithOwnerOnlyStats(cfg.Stats.OwnerOnly),
	)
	clickRecorder := service.NewClickRecorder(linkService, clickRepo, logger)
	identityService := service.NewIdentityService(userRepo, tokens, logger)

	if cfg.Stats.OwnerOnly {
		logger.Info("Statistics restricted to link owners")
	}

	// Настройка роутера
	bearerAuth := middleware.NewBearerAuth(tokens, logger)
	router := handler.NewRouter(handler.Services{
		Links:    linkService,
		Clicks:   clickRecorder,
		Identity: identityService,
		DB:       db,
	}, bearerAuth.Middleware(), cfg.App.BaseURL, logger)

	// Запуск сервера
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск в горутине
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
