package handler

import (
	"github.com/SergeiKhy/shorturl-service/internal/middleware"
	"github.com/SergeiKhy/shorturl-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services собирает зависимости HTTP-слоя
type Services struct {
	Links    service.LinkService
	Clicks   service.ClickRecorder
	Identity service.IdentityService
	DB       Pinger
}

func NewRouter(
	services Services,
	authMiddleware gin.HandlerFunc,
	baseURL string,
	logger *zap.Logger,
) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	// Маршрутизация по экранированному пути: код "a/b" приходит как /r/a%2Fb
	router.UseRawPath = true
	router.Use(gin.Recovery())

	// Middleware для логгирования
	router.Use(middleware.RequestLogger(logger))

	// Инициализация обработчиков
	linkHandler := NewLinkHandler(services.Links, services.Clicks, baseURL, logger)
	identityHandler := NewIdentityHandler(services.Identity, logger)

	router.GET("/health", HealthCheck(services.DB, logger))

	// Регистрация и выдача токенов без аутентификации
	evaluation := router.Group("/evaluation-service")
	{
		evaluation.POST("/register", identityHandler.Register)
		evaluation.POST("/auth", identityHandler.IssueToken)
	}

	// Создание ссылок и статистика только с bearer-токеном
	links := router.Group("/shorturls")
	{
		if authMiddleware != nil {
			links.Use(authMiddleware)
		}

		links.POST("", linkHandler.CreateLink)
		links.GET("/:shortcode", linkHandler.GetStats)
	}

	// Редирект публичный
	router.GET(redirectPrefix+":shortcode", linkHandler.Redirect)

	// Swagger документация (без аутентификации)
	AddSwaggerRoutes(router)

	return router
}
