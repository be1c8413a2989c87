package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/lead-capture/api/internal/auth"
	"github.com/octobees/lead-capture/api/internal/entity"
	"github.com/octobees/lead-capture/api/internal/repository"
)

const minPasswordLength = 12

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", minPasswordLength)
)

// AuthService coordinates operator credential checks and token issuance.
type AuthService struct {
	operators repository.OperatorsRepository
	jwt       *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(operators repository.OperatorsRepository, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{operators: operators, jwt: jwtManager}
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	if normalized, ok := normalizeEmail(email); ok {
		email = normalized
	}

	operator, err := s.operators.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrOperatorNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.jwt.GenerateToken(operator.Email, operator.Role)
}

// CreateOperator hashes the password and stores a new operator account.
func (s *AuthService) CreateOperator(ctx context.Context, email, password, role string) (*entity.Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	normalized, ok := normalizeEmail(email)
	if !ok {
		return nil, fmt.Errorf("invalid operator email %q", email)
	}
	email = normalized
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if role == "" {
		role = auth.RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.operators.Create(ctx, email, string(hash), role)
}
