package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SergeiKhy/shorturl-service/internal/middleware"
	"github.com/SergeiKhy/shorturl-service/internal/models"
	"github.com/SergeiKhy/shorturl-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const redirectPrefix = "/r/"

type LinkHandler struct {
	service  service.LinkService
	recorder service.ClickRecorder
	baseURL  string
	logger   *zap.Logger
}

func NewLinkHandler(service service.LinkService, recorder service.ClickRecorder, baseURL string, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{
		service:  service,
		recorder: recorder,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

type CreateLinkRequest struct {
	URL       string `json:"url" binding:"required"`
	Validity  *int   `json:"validity,omitempty"`
	Shortcode string `json:"shortcode,omitempty"`
}

type CreateLinkResponse struct {
	ShortLink string    `json:"shortLink"`
	Expiry    time.Time `json:"expiry"`
}

// CreateLink godoc
// @Summary Create a short link
// @Description Create a new shortened URL owned by the authenticated caller
// @Tags links
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLinkRequest true "Link creation request"
// @Success 201 {object} CreateLinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shorturls [post]
func (h *LinkHandler) CreateLink(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	input := &models.CreateLinkInput{
		OriginalURL: req.URL,
		Validity:    req.Validity,
	}

	if req.Shortcode != "" {
		input.CustomCode = &req.Shortcode
	}

	link, err := h.service.CreateLink(c.Request.Context(), claims.Subject, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, CreateLinkResponse{
		ShortLink: h.shortLink(c, link.ShortCode),
		Expiry:    link.ExpiresAt,
	})
}

// Redirect godoc
// @Summary Redirect to original URL
// @Description Redirect to the original URL by short code and record the click
// @Tags links
// @Param shortcode path string true "Short code"
// @Success 307 {object} nil
// @Failure 404 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /r/{shortcode} [get]
func (h *LinkHandler) Redirect(c *gin.Context) {
	code := c.Param("shortcode")

	// Клик записывается синхронно: редирект отдаётся только после записи
	target, err := h.recorder.Resolve(c.Request.Context(), &models.ClickEvent{
		ShortCode: code,
		Referrer:  c.Request.Referer(),
		SourceIP:  c.ClientIP(),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, target)
}

// GetStats godoc
// @Summary Get click statistics for a short link
// @Description Get link metadata, total click count and the ordered click log
// @Tags links
// @Produce json
// @Security BearerAuth
// @Param shortcode path string true "Short code"
// @Success 200 {object} models.LinkStats
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /shorturls/{shortcode} [get]
func (h *LinkHandler) GetStats(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), c.Param("shortcode"), claims.Subject)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// shortLink собирает абсолютный URL: scheme + host + /r/ + code
func (h *LinkHandler) shortLink(c *gin.Context, code string) string {
	path := redirectPrefix + url.PathEscape(code)
	if h.baseURL != "" {
		return h.baseURL + path
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}

	return scheme + "://" + c.Request.Host + path
}
