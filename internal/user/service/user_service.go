package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ridloal/meoris-storefront/internal/platform/apperr"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	"github.com/ridloal/meoris-storefront/internal/user/domain"
	"github.com/ridloal/meoris-storefront/internal/user/repository"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var (
	ErrInvalidCredentials = apperr.Unauthorized("invalid email or password")
	ErrUserAlreadyExists  = apperr.Conflict("user with this email already exists")
	ErrInvalidToken       = apperr.Unauthorized("invalid or missing token")
)

type UserService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
	ParseToken(token string) (*domain.Identity, error)
}

type userService struct {
	repo      repository.UserRepository
	jwtSecret []byte
}

func NewUserService(repo repository.UserRepository, jwtSecret []byte) UserService {
	return &userService{repo: repo, jwtSecret: jwtSecret}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Nama = strings.TrimSpace(req.Nama)
	if req.Email == "" || req.Nama == "" || req.Password == "" {
		return nil, apperr.Validation("nama, email and password are required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperr.Validationf("password must be at least %d characters", minPasswordLength)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Register: failed to hash password", err)
		return nil, apperr.Backend(fmt.Errorf("could not process registration: %w", err))
	}

	user := &domain.User{
		Email:        req.Email,
		Nama:         req.Nama,
		PasswordHash: string(hashedPassword),
	}

	err = s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserConflict) {
			return nil, ErrUserAlreadyExists
		}
		logger.Error("Register: failed to create user in repo", err)
		return nil, apperr.Backend(fmt.Errorf("could not save user: %w", err))
	}

	user.PasswordHash = ""
	return user, nil
}

// Login verifies the credentials and issues a flat session token. Unknown email and a
// wrong password are indistinguishable to the caller.
func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		logger.Error("Login: failed to get user by email", err)
		return nil, apperr.Backend(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// no exp claim: the session lives until the client logs out
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		logger.Error("Login: failed to sign token", err)
		return nil, apperr.Backend(fmt.Errorf("could not generate token: %w", err))
	}

	user.PasswordHash = ""
	return &domain.LoginResponse{
		User:  *user,
		Token: tokenString,
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		return nil, apperr.Backend(err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	nama := strings.TrimSpace(req.Nama)
	if nama == "" {
		return nil, apperr.Validation("nama is required")
	}
	user, err := s.repo.UpdateUser(ctx, userID, nama)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		return nil, apperr.Backend(err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) ParseToken(tokenString string) (*domain.Identity, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	return &domain.Identity{UserID: userID, Email: email}, nil
}
