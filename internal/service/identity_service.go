package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SergeiKhy/shorturl-service/internal/models"
	"github.com/SergeiKhy/shorturl-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	clientSecretBytes = 16 // 32 hex-символа
	tokenTypeBearer   = "Bearer"
)

// TokenIssuer подписывает токен доступа для пользователя
type TokenIssuer interface {
	Issue(user *models.User) (string, time.Time, error)
}

// IdentityService интерфейс регистрации и выдачи токенов
type IdentityService interface {
	Register(ctx context.Context, input *models.RegisterInput) (*models.Registration, error)
	IssueToken(ctx context.Context, input *models.TokenInput) (*models.IssuedToken, error)
}

// IdentityOption настраивает identityService
type IdentityOption func(*identityService)

// WithBcryptCost задаёт стоимость bcrypt для хэша секрета
func WithBcryptCost(cost int) IdentityOption {
	return func(s *identityService) {
		s.bcryptCost = cost
	}
}

type identityService struct {
	userRepo   repository.UserRepository
	tokens     TokenIssuer
	logger     *zap.Logger
	bcryptCost int
}

// NewIdentityService создаёт новый экземпляр сервиса идентификации
func NewIdentityService(
	userRepo repository.UserRepository,
	tokens TokenIssuer,
	logger *zap.Logger,
	opts ...IdentityOption,
) IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &identityService{
		userRepo:   userRepo,
		tokens:     tokens,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register регистрирует пользователя один раз. Повторная попытка с тем же
// email или rollNo возвращает AlreadyRegisteredError с существующей записью.
func (s *identityService) Register(ctx context.Context, input *models.RegisterInput) (*models.Registration, error) {
	if !allPresent(input.Email, input.Name, input.MobileNo, input.GithubUsername, input.RollNo, input.AccessCode) {
		return nil, ErrInvalidRegistration
	}

	existing, err := s.userRepo.FindByEmailOrRollNo(ctx, input.Email, input.RollNo)
	if err == nil {
		return nil, &AlreadyRegisteredError{User: existing}
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	secret, err := generateClientSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate client secret: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash client secret: %w", err)
	}

	user := &models.User{
		ID:               uuid.NewString(),
		Email:            input.Email,
		Name:             input.Name,
		MobileNo:         input.MobileNo,
		GithubUsername:   input.GithubUsername,
		RollNo:           input.RollNo,
		AccessCode:       input.AccessCode,
		ClientSecretHash: string(hash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			// Параллельная регистрация успела раньше
			existing, findErr := s.userRepo.FindByEmailOrRollNo(ctx, input.Email, input.RollNo)
			if findErr != nil {
				return nil, fmt.Errorf("failed to load existing user: %w", findErr)
			}
			return nil, &AlreadyRegisteredError{User: existing}
		}
		return nil, err
	}

	s.logger.Info("Пользователь зарегистрирован", zap.String("client_id", user.ID))

	return &models.Registration{User: user, ClientSecret: secret}, nil
}

// IssueToken выдаёт bearer-токен, если все шесть полей совпадают с сохранённой записью
func (s *identityService) IssueToken(ctx context.Context, input *models.TokenInput) (*models.IssuedToken, error) {
	if _, err := uuid.Parse(input.ClientID); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !equal(user.Email, input.Email) ||
		!equal(user.Name, input.Name) ||
		!equal(user.RollNo, input.RollNo) ||
		!equal(user.AccessCode, input.AccessCode) {
		s.logger.Debug("Поля учётных данных не совпали", zap.String("client_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.ClientSecretHash), []byte(input.ClientSecret)); err != nil {
		s.logger.Debug("Неверный client secret", zap.String("client_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &models.IssuedToken{
		TokenType:   tokenTypeBearer,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// generateClientSecret возвращает 16 случайных байт в hex
func generateClientSecret() (string, error) {
	buf := make([]byte, clientSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// equal сравнивает строки за постоянное время
func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func allPresent(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
