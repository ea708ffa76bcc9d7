package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeiKhy/shorturl-service/internal/models"
	"github.com/jackc/pgx/v5"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type UserRepository interface {
	// Create inserts the user; ErrUserExists if the email or roll number is taken.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// FindByEmailOrRollNo returns the first user matching either key.
	FindByEmailOrRollNo(ctx context.Context, email, rollNo string) (*models.User, error)
}

type userRepository struct {
	db *PostgresDB
}

func NewUserRepository(db *PostgresDB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id::text, email, name, mobile_no, github_username, roll_no, access_code, client_secret_hash, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, mobile_no, github_username, roll_no, access_code, client_secret_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.MobileNo,
		user.GithubUsername,
		user.RollNo,
		user.AccessCode,
		user.ClientSecretHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *userRepository) FindByEmailOrRollNo(ctx context.Context, email, rollNo string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR roll_no = $2 ORDER BY created_at LIMIT 1`
	return r.scanOne(ctx, query, email, rollNo)
}

func (r *userRepository) scanOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}
	err := r.db.Pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.MobileNo,
		&user.GithubUsername,
		&user.RollNo,
		&user.AccessCode,
		&user.ClientSecretHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
