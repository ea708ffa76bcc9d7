package middleware

import (
	"net/http"
	"strings"

	"github.com/SergeiKhy/shorturl-service/internal/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	claimsContextKey = "auth_claims"
	bearerPrefix     = "Bearer "
)

// TokenVerifier проверяет подпись и срок действия bearer-токена
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// BearerAuth middleware для аутентификации по bearer-токену
type BearerAuth struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewBearerAuth создаёт новый middleware аутентификации
func NewBearerAuth(verifier TokenVerifier, logger *zap.Logger) *BearerAuth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BearerAuth{verifier: verifier, logger: logger}
}

// Middleware возвращает Gin middleware handler. Отсутствующий заголовок,
// пустой токен и невалидный токен дают один и тот же ответ 401;
// причина различается только в логах.
func (ba *BearerAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			ba.reject(c, "missing authorization header", nil)
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			ba.reject(c, "authorization scheme is not Bearer", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if token == "" {
			ba.reject(c, "missing bearer token", nil)
			return
		}

		claims, err := ba.verifier.Verify(token)
		if err != nil {
			ba.reject(c, "invalid bearer token", err)
			return
		}

		// Claims доступны только в рамках текущего запроса
		c.Set(claimsContextKey, claims)

		c.Next()
	}
}

func (ba *BearerAuth) reject(c *gin.Context, reason string, err error) {
	fields := []zap.Field{
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
		zap.String("ip", c.ClientIP()),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	ba.logger.Debug("Запрос отклонён аутентификацией", fields...)

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": "Требуется валидный токен: Authorization: Bearer <token>",
	})
}

// ClaimsFromContext извлекает claims аутентифицированного вызывающего
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}
