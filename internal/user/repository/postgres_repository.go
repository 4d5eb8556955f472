package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/database"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	"github.com/ridloal/meoris-storefront/internal/user/domain"
)

var (
	ErrUserNotFound = apperr.NotFound("user not found")
	ErrUserConflict = apperr.Conflict("user with this email already exists")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id, nama string) (*domain.User, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, password_hash, nama, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6)`

	user.ID = uuid.NewString()
	user.CreatedAt = database.Now()
	user.UpdatedAt = user.CreatedAt

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.Nama, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			logger.Error("CreateUser: unique violation", err, logger.Fields{"email": user.Email})
			return ErrUserConflict
		}
		logger.Error("CreateUser: failed to insert user", err)
		return err
	}
	return nil
}

func (r *postgresUserRepository) getUserBy(ctx context.Context, field, value string) (*domain.User, error) {
	query := `SELECT id, email, password_hash, nama, created_at, updated_at FROM users WHERE ` + field + ` = $1`
	user := &domain.User{}

	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Nama, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("GetUserBy"+field+": query failed", err)
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUserBy(ctx, "email", email)
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUserBy(ctx, "id", id)
}

func (r *postgresUserRepository) UpdateUser(ctx context.Context, id, nama string) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET nama = $1, updated_at = $2 WHERE id = $3`, nama, database.Now(), id)
	if err != nil {
		logger.Error("UpdateUser: update failed", err, logger.Fields{"user_id": id})
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrUserNotFound
	}
	return r.GetUserByID(ctx, id)
}
