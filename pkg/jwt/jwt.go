package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenNotYetValid = errors.New("token not yet valid")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidKey       = errors.New("invalid key")
)

// DefaultExpiration is the lifetime of a token when Config.Expiration is unset.
const DefaultExpiration = 7 * 24 * time.Hour

// Claims represents JWT claims. Subject carries the username.
type Claims struct {
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`

	gojwt.RegisteredClaims
}

// Service handles JWT operations
type Service struct {
	key        []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

// Config holds JWT service configuration
type Config struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// NewService creates a new HS256 JWT service
func NewService(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, ErrInvalidKey
	}

	expiration := cfg.Expiration
	if expiration <= 0 {
		expiration = DefaultExpiration
	}

	return &Service{
		key:        []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		expiration: expiration,
		now:        time.Now,
	}, nil
}

// Sign creates a signed JWT token. Issuer and IssuedAt are always set; an
// ExpiresAt already present on claims is kept.
func (s *Service) Sign(claims Claims) (string, error) {
	now := s.now()

	claims.Issuer = s.issuer
	claims.IssuedAt = gojwt.NewNumericDate(now)
	if claims.Subject == "" {
		claims.Subject = claims.Username
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = gojwt.NewNumericDate(now.Add(s.expiration))
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}
	return signed, nil
}

// Validate validates a JWT token and returns the claims
func (s *Service) Validate(tokenString string) (*Claims, error) {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}

	var claims Claims
	_, err := gojwt.ParseWithClaims(tokenString, &claims, func(*gojwt.Token) (interface{}, error) {
		return s.key, nil
	}, opts...)

	switch {
	case err == nil:
	case errors.Is(err, gojwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, gojwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return nil, ErrInvalidSignature
	default:
		return nil, ErrInvalidToken
	}

	if claims.Username == "" {
		claims.Username = claims.Subject
	}
	return &claims, nil
}

// GetExpiration returns the token expiration duration
func (s *Service) GetExpiration() time.Duration {
	return s.expiration
}
