package handler

import (
	"errors"
	"net/http"

	"github.com/SergeiKhy/shorturl-service/internal/models"
	"github.com/SergeiKhy/shorturl-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgAlreadyRegistered  = "You can register only once."
	msgInvalidCredentials = "Invalid credentials."
)

type IdentityHandler struct {
	service service.IdentityService
	logger  *zap.Logger
}

func NewIdentityHandler(service service.IdentityService, logger *zap.Logger) *IdentityHandler {
	return &IdentityHandler{
		service: service,
		logger:  logger,
	}
}

type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Name           string `json:"name" binding:"required"`
	MobileNo       string `json:"mobileNo" binding:"required"`
	GithubUsername string `json:"githubUsername" binding:"required"`
	RollNo         string `json:"rollNo" binding:"required"`
	AccessCode     string `json:"accessCode" binding:"required"`
}

type RegisterResponse struct {
	AccessCode   string `json:"accessCode"`
	ClientID     string `json:"clientID"`
	ClientSecret string `json:"clientSecret"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	RollNo       string `json:"rollNo"`
}

// AlreadyRegisteredResponse повторяет публичные поля существующей записи
type AlreadyRegisteredResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	RollNo  string `json:"rollNo"`
}

type TokenRequest struct {
	ClientID     string `json:"clientID"`
	ClientSecret string `json:"clientSecret"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	RollNo       string `json:"rollNo"`
	AccessCode   string `json:"accessCode"`
}

type TokenResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Register godoc
// @Summary Register an API client
// @Description Register once and receive clientID and clientSecret
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} AlreadyRegisteredResponse
// @Failure 500 {object} ErrorResponse
// @Router /evaluation-service/register [post]
func (h *IdentityHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid registration body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	registration, err := h.service.Register(c.Request.Context(), &models.RegisterInput{
		Email:          req.Email,
		Name:           req.Name,
		MobileNo:       req.MobileNo,
		GithubUsername: req.GithubUsername,
		RollNo:         req.RollNo,
		AccessCode:     req.AccessCode,
	})
	if err != nil {
		var existing *service.AlreadyRegisteredError
		if errors.As(err, &existing) {
			c.JSON(http.StatusBadRequest, AlreadyRegisteredResponse{
				Message: msgAlreadyRegistered,
				Email:   existing.User.Email,
				Name:    existing.User.Name,
				RollNo:  existing.User.RollNo,
			})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	user := registration.User
	c.JSON(http.StatusCreated, RegisterResponse{
		AccessCode:   user.AccessCode,
		ClientID:     user.ID,
		ClientSecret: registration.ClientSecret,
		Email:        user.Email,
		Name:         user.Name,
		RollNo:       user.RollNo,
	})
}

// IssueToken godoc
// @Summary Issue an access token
// @Description Exchange registration credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} MessageResponse
// @Router /evaluation-service/auth [post]
func (h *IdentityHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid token request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	// Незаполненные поля не совпадут ни с одной записью и дадут 401
	token, err := h.service.IssueToken(c.Request.Context(), &models.TokenInput{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		Email:        req.Email,
		Name:         req.Name,
		RollNo:       req.RollNo,
		AccessCode:   req.AccessCode,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Warn("Token request rejected", zap.String("client_id", req.ClientID))
			c.JSON(http.StatusUnauthorized, MessageResponse{Message: msgInvalidCredentials})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		TokenType:   token.TokenType,
		AccessToken: token.AccessToken,
		ExpiresIn:   token.ExpiresAt.Unix(),
	})
}
