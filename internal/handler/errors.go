package handler

import (
	"errors"
	"net/http"

	"github.com/SergeiKhy/shorturl-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError переводит ошибку сервиса в HTTP-ответ
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, body := classifyError(err)

	fields := []zap.Field{
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", fields...)
	} else {
		logger.Warn("Request rejected", fields...)
	}

	c.JSON(status, body)
}

func classifyError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, service.ErrInvalidURL):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_url",
			Message: "url must be an absolute http(s) URL",
		}
	case errors.Is(err, service.ErrInvalidValidity):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_validity",
			Message: "validity must be a number of minutes not exceeding one year",
		}
	case errors.Is(err, service.ErrShortCodeTaken):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "shortcode_conflict",
			Message: "Shortcode already in use",
		}
	case errors.Is(err, service.ErrLinkNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Shortcode not found",
		}
	case errors.Is(err, service.ErrLinkExpired):
		return http.StatusGone, ErrorResponse{
			Error:   "expired",
			Message: "Short link has expired",
		}
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "Statistics are available to the link owner only",
		}
	case errors.Is(err, service.ErrInvalidRegistration):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "email, name, mobileNo, githubUsername, rollNo and accessCode are required",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
		}
	}
}
