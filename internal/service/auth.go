package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/forgo/packlist/internal/database"
	"github.com/forgo/packlist/internal/model"
	"github.com/forgo/packlist/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const (
	// bcrypt cost factor (10-14 recommended for production)
	defaultBcryptCost = 12

	maxUsernameLength = 64
	minPasswordLength = 10
	// bcrypt ignores input beyond 72 bytes
	maxPasswordLength = 72
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// FieldError ties a validation failure to the request field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// AuthService handles registration, login and bearer token checks
type AuthService struct {
	userRepo   UserRepository
	jwtService *jwt.Service
	bcryptCost int
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo   UserRepository
	JWTService *jwt.Service
	BcryptCost int // Default: 12
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaultBcryptCost
	}

	return &AuthService{
		userRepo:   cfg.UserRepo,
		jwtService: cfg.JWTService,
		bcryptCost: cfg.BcryptCost,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	username, err := validateUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if email != "" && !isValidEmail(email) {
		return nil, &FieldError{Field: "email", Err: ErrInvalidEmail}
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Hash:     string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same name
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks credentials and returns a signed bearer token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	if req.Username == "" || req.Password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return "", err
	}
	if user == nil || user.Hash == "" {
		return "", ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(req.Password)) != nil {
		return "", ErrInvalidCredentials
	}

	return s.issue(user.ID, user.Username, user.Email)
}

// Refresh issues a new token for an already authenticated caller. The user
// must still exist.
func (s *AuthService) Refresh(ctx context.Context, caller Principal) (string, error) {
	user, err := s.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	return s.issue(user.ID, user.Username, user.Email)
}

// ValidateAccessToken checks a bearer token for the auth middleware
func (s *AuthService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	return s.jwtService.Validate(token)
}

func (s *AuthService) issue(userID, username, email string) (string, error) {
	return s.jwtService.Sign(jwt.Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
	})
}

func validateUsername(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &FieldError{Field: "username", Err: ErrUsernameRequired}
	}
	if strings.TrimSpace(raw) != raw {
		return "", &FieldError{Field: "username", Err: ErrSurroundingSpaces}
	}
	if len([]rune(raw)) > maxUsernameLength {
		return "", &FieldError{Field: "username", Err: ErrUsernameTooLong}
	}
	return raw, nil
}

func validatePassword(password string) error {
	switch {
	case password == "":
		return &FieldError{Field: "password", Err: ErrPasswordRequired}
	case strings.TrimSpace(password) != password:
		return &FieldError{Field: "password", Err: ErrSurroundingSpaces}
	case len(password) < minPasswordLength:
		return &FieldError{Field: "password", Err: ErrPasswordTooShort}
	case len(password) > maxPasswordLength:
		return &FieldError{Field: "password", Err: ErrPasswordTooLong}
	}
	return nil
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
