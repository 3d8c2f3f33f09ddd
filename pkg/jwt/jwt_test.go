package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ============================================================================
// Test Helpers
// ============================================================================

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func newTestService(t *testing.T) *Service {
	t.Helper()
	return newTestServiceWithExpiration(t, 15*time.Minute)
}

func newTestServiceWithExpiration(t *testing.T, expiration time.Duration) *Service {
	t.Helper()
	svc, err := NewService(Config{Secret: testSecret, Issuer: "test-issuer", Expiration: expiration})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func testClaims() Claims {
	return Claims{UserID: "user:alice", Username: "alice", Email: "alice@example.com"}
}

// ============================================================================
// NewService Tests
// ============================================================================

func TestNewService_EmptySecret_ReturnsErrInvalidKey(t *testing.T) {
	t.Parallel()

	_, err := NewService(Config{})
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("NewService() error = %v, want ErrInvalidKey", err)
	}
}

func TestNewService_ZeroExpiration_UsesDefault(t *testing.T) {
	t.Parallel()

	svc, err := NewService(Config{Secret: testSecret})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if svc.GetExpiration() != DefaultExpiration {
		t.Errorf("GetExpiration() = %v, want %v", svc.GetExpiration(), DefaultExpiration)
	}
}

// ============================================================================
// Sign Tests
// ============================================================================

func TestSign_ValidClaims_ReturnsToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, err := svc.Sign(testClaims())
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("token has %d parts, want 3", len(parts))
	}
}

func TestSign_SetsSubjectFromUsername(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, _ := svc.Sign(testClaims())
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "alice")
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, "test-issuer")
	}
}

func TestSign_SetsDefaultExpiration(t *testing.T) {
	t.Parallel()
	svc := newTestServiceWithExpiration(t, time.Hour)

	before := time.Now().Add(time.Hour).Add(-time.Second)
	token, _ := svc.Sign(testClaims())
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(before) {
		t.Errorf("ExpiresAt = %v, want about one hour from now", claims.ExpiresAt)
	}
}

func TestSign_PreservesCustomExpiration(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	exp := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	c := testClaims()
	c.ExpiresAt = gojwt.NewNumericDate(exp)

	token, _ := svc.Sign(c)
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !claims.ExpiresAt.Time.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt.Time, exp)
	}
}

// ============================================================================
// Validate Tests
// ============================================================================

func TestValidate_ValidToken_ReturnsClaims(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, _ := svc.Sign(testClaims())
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.UserID != "user:alice" || claims.Username != "alice" || claims.Email != "alice@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidate_Malformed_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	for _, token := range []string{"", "abc", "a.b", "a.b.c", "a.b.c.d"} {
		if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestValidate_DifferentSecret_ReturnsErrInvalidSignature(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	other, _ := NewService(Config{Secret: "some-other-secret", Issuer: "test-issuer"})

	token, _ := other.Sign(testClaims())
	if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Validate() error = %v, want ErrInvalidSignature", err)
	}
}

func TestValidate_TamperedClaims_ReturnsErrInvalidSignature(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, _ := svc.Sign(testClaims())
	forged, _ := svc.Sign(Claims{UserID: "user:mallory", Username: "mallory"})

	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	if _, err := svc.Validate(tampered); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Validate() error = %v, want ErrInvalidSignature", err)
	}
}

func TestValidate_ExpiredToken_ReturnsErrTokenExpired(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	c := testClaims()
	c.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(-time.Minute))
	token, _ := svc.Sign(c)

	if _, err := svc.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Validate() error = %v, want ErrTokenExpired", err)
	}
}

func TestValidate_TokenNotYetValid_ReturnsErrTokenNotYetValid(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	c := testClaims()
	c.NotBefore = gojwt.NewNumericDate(time.Now().Add(time.Hour))
	token, _ := svc.Sign(c)

	if _, err := svc.Validate(token); !errors.Is(err, ErrTokenNotYetValid) {
		t.Errorf("Validate() error = %v, want ErrTokenNotYetValid", err)
	}
}

func TestValidate_WrongIssuer_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	other, _ := NewService(Config{Secret: testSecret, Issuer: "someone-else"})

	token, _ := other.Sign(testClaims())
	if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
	}
}

func TestValidate_NoneAlgorithm_Rejected(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	c := testClaims()
	c.Issuer = "test-issuer"
	unsigned, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, c).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := svc.Validate(unsigned); err == nil {
		t.Error("Validate() accepted an unsigned token")
	}
}

func TestValidate_SubjectOnlyToken_FillsUsername(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, _ := svc.Sign(Claims{RegisteredClaims: gojwt.RegisteredClaims{Subject: "bob"}})
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.Username != "bob" {
		t.Errorf("Username = %q, want %q", claims.Username, "bob")
	}
}
