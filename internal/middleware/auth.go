package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/forgo/packlist/internal/model"
	"github.com/forgo/packlist/pkg/jwt"
)

// AuthService defines the interface for token validation
type AuthService interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// UserIDKey is the context key for the caller's user id
	UserIDKey contextKey = "userID"
	// UsernameKey is the context key for the caller's username
	UsernameKey contextKey = "username"
	// UserEmailKey is the context key for user email
	UserEmailKey contextKey = "userEmail"
)

// Auth returns a middleware that rejects requests without a valid bearer
// token and puts the token's principal on the context.
func Auth(authService AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, model.NewUnauthorizedError("missing authorization header"))
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				unauthorized(w, model.NewUnauthorizedError("invalid authorization header format"))
				return
			}

			claims, err := authService.ValidateAccessToken(token)
			if err != nil {
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					unauthorized(w, model.NewTokenExpiredError())
				case errors.Is(err, jwt.ErrInvalidSignature):
					p := model.NewUnauthorizedError("invalid token signature")
					p.Code = model.ErrCodeTokenInvalid
					unauthorized(w, p)
				default:
					p := model.NewUnauthorizedError("invalid token")
					p.Code = model.ErrCodeTokenInvalid
					unauthorized(w, p)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func unauthorized(w http.ResponseWriter, p *model.ProblemDetails) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="packlist"`)
	p.WriteJSON(w)
}

// WithClaims returns a copy of ctx carrying claims and the principal they
// describe.
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UsernameKey, claims.Username)
	ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetUserID extracts the user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetUsername extracts the username from context
func GetUsername(ctx context.Context) string {
	if name, ok := ctx.Value(UsernameKey).(string); ok {
		return name
	}
	return ""
}

// GetUserEmail extracts the user email from context
func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(UserEmailKey).(string); ok {
		return email
	}
	return ""
}

// GetClaims extracts the JWT claims from context
func GetClaims(ctx context.Context) *jwt.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}
