package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/pkg/logger"
)

// dummyHash is compared against when the email is unknown so that signin
// costs one bcrypt comparison on every path.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("taskboard-dummy-password"), bcrypt.DefaultCost)

// TokenIssuer is the part of the token service the auth flow needs.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	cost   int
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
}

// WithHashCost lowers or raises the bcrypt cost; tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// bcrypt only looks at the first 72 bytes and rejects longer input.
const maxPasswordBytes = 72

type signUpInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// CreateUser validates the fields, hashes the password and persists the user.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password string) (*models.User, error) {
	in := signUpInput{
		Name:     strings.TrimSpace(name),
		Email:    models.NormalizeEmail(email),
		Password: password,
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, apperrors.Validation(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindByEmail(ctx, models.NormalizeEmail(email))
}

func (s *AuthService) FindByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrNotFound
	}
	return s.users.FindByID(ctx, id)
}

// VerifyPassword compares in constant time with respect to the outcome.
func (s *AuthService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*AuthResult, error) {
	user, err := s.CreateUser(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	logger.SystemLogger.Info("User registered", zap.String("user_id", user.ID))
	return s.issue(user)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			logger.SecurityLogger.Warn("Signin for unknown email", zap.String("email", models.NormalizeEmail(email)))
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.VerifyPassword(user, password) {
		logger.SecurityLogger.Warn("Invalid password", zap.String("user_id", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: tok, User: user}, nil
}
