package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SergeiKhy/shorturl-service/internal/auth"
	"github.com/SergeiKhy/shorturl-service/internal/config"
	"github.com/SergeiKhy/shorturl-service/internal/handler"
	"github.com/SergeiKhy/shorturl-service/internal/middleware"
	"github.com/SergeiKhy/shorturl-service/internal/repository"
	"github.com/SergeiKhy/shorturl-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

// setupStack собирает сервис на реальных PostgreSQL и Redis контейнерах
func setupStack(t *testing.T) *testApp {
	t.Helper()
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}
	gin.SetMode(gin.TestMode)

	ctx := t.Context()

	// Запускаем контейнер PostgreSQL
	dbContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("shortener"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, dbContainer)
	require.NoError(t, err)

	// Запускаем контейнер Redis
	redisContainer, err := redis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, redisContainer)
	require.NoError(t, err)

	dbHost, err := dbContainer.Host(ctx)
	require.NoError(t, err)
	dbPort, err := dbContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	redisHost, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	dbCfg := config.DBConfig{
		Host:     dbHost,
		Port:     dbPort.Port(),
		User:     "user",
		Password: "password",
		Name:     "shortener",
	}
	require.NoError(t, repository.Migrate(dbCfg))

	db, err := repository.NewPostgresDB(dbCfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	redisClient, err := repository.NewRedisClient(config.RedisConfig{
		Host: redisHost,
		Port: redisPort.Port(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { redisClient.Close() })

	linkRepo := repository.NewLinkRepository(db)
	clickRepo := repository.NewClickRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)
	userRepo := repository.NewUserRepository(db)

	tokens := auth.NewTokenManager("integration-secret", 24*time.Hour)
	linkService := service.NewLinkService(linkRepo, clickRepo, cacheRepo, nil)
	recorder := service.NewClickRecorder(linkService, clickRepo, nil)
	identity := service.NewIdentityService(userRepo, tokens, nil, service.WithBcryptCost(bcrypt.MinCost))

	router := handler.NewRouter(handler.Services{
		Links:    linkService,
		Clicks:   recorder,
		Identity: identity,
		DB:       db,
	}, middleware.NewBearerAuth(tokens, nil).Middleware(), "", nil)

	return &testApp{router: router}
}

// TestIntegration_FullFlow проверяет путь регистрация -> токен -> ссылка -> клики -> статистика
func TestIntegration_FullFlow(t *testing.T) {
	app := setupStack(t)

	w := app.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	token := app.login(t, "a@x.com", "R1")

	// Повторная регистрация отклоняется
	w = app.do(t, http.MethodPost, "/evaluation-service/register", registration("a@x.com", "R1"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/shorturls", gin.H{"url": "https://example.com/integration", "shortcode": "int01"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created createBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "http://example.com/r/int01", created.ShortLink)

	w = app.do(t, http.MethodPost, "/shorturls", gin.H{"url": "https://example.com/other", "shortcode": "int01"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Клики записываются синхронно, статистика видна сразу
	for i := 0; i < 5; i++ {
		w := app.do(t, http.MethodGet, "/r/int01", nil, "", "Referer", fmt.Sprintf("https://ref%d.example", i))
		require.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "https://example.com/integration", w.Header().Get("Location"))
	}

	w = app.do(t, http.MethodGet, "/shorturls/int01", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var stats statsBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, "https://example.com/integration", stats.URL)
	assert.Equal(t, 30, stats.Validity)
	assert.Equal(t, 5, stats.TotalClicks)
	require.Len(t, stats.Clicks, 5)
	for i, click := range stats.Clicks {
		assert.Equal(t, fmt.Sprintf("https://ref%d.example", i), click.Referrer)
	}

	w = app.do(t, http.MethodGet, "/r/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestIntegration_GeneratedCodes проверяет уникальность сгенерированных кодов
func TestIntegration_GeneratedCodes(t *testing.T) {
	app := setupStack(t)
	token := app.login(t, "a@x.com", "R1")

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		w := app.do(t, http.MethodPost, "/shorturls", gin.H{"url": fmt.Sprintf("https://example.com/%d", i)}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var body createBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, seen[body.ShortLink], "короткая ссылка выдана повторно")
		seen[body.ShortLink] = true
	}
}
