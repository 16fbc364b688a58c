package processor

import (
	"appointment-ivr/internal/config"
	"appointment-ivr/internal/observability"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func newTestProcessor(t *testing.T) AuthProcessor {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword() error = %v", err)
	}
	return New(config.AdminConfig{
		Username:     "admin",
		JWTSecret:    "test-secret",
		PasswordHash: string(hash),
	}, observability.NewNopLogger())
}

func TestLogin_Success(t *testing.T) {
	p := newTestProcessor(t)
	ctx := context.Background()

	token, err := p.Login(ctx, "admin", "correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	claims, err := p.ValidateJWTToken(ctx, token)
	if err != nil {
		t.Fatalf("ValidateJWTToken() error = %v", err)
	}
	if claims.Subject != "admin" || claims.AuthType != AuthTypeAdmin {
		t.Errorf("claims = %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != tokenLifetime {
		t.Errorf("token lifetime = %v, want %v", got, tokenLifetime)
	}
}

func TestLogin_Rejected(t *testing.T) {
	p := newTestProcessor(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "admin", password: "battery staple"},
		{name: "wrong username", username: "root", password: "correct horse"},
		{name: "empty", username: "", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Login(context.Background(), tt.username, tt.password); !errors.Is(err, ErrIncorrectPassword) {
				t.Errorf("Login() error = %v, want ErrIncorrectPassword", err)
			}
		})
	}
}

func TestLogin_Disabled(t *testing.T) {
	p := New(config.AdminConfig{Username: "admin"}, observability.NewNopLogger())

	if _, err := p.Login(context.Background(), "admin", "anything"); !errors.Is(err, ErrAuthDisabled) {
		t.Errorf("Login() error = %v, want ErrAuthDisabled", err)
	}
	if _, err := p.ValidateJWTToken(context.Background(), "token"); !errors.Is(err, ErrAuthDisabled) {
		t.Errorf("ValidateJWTToken() error = %v, want ErrAuthDisabled", err)
	}
}

func TestValidateJWTToken_Expired(t *testing.T) {
	p := newTestProcessor(t)
	ctx := context.Background()

	issued := time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return issued }
	token, err := p.generateJWTToken(ctx, "admin")
	if err != nil {
		t.Fatalf("generateJWTToken() error = %v", err)
	}

	p.now = func() time.Time { return issued.Add(tokenLifetime + time.Minute) }
	_, err = p.ValidateJWTToken(ctx, token)
	if !errors.Is(err, ErrInvalidToken) || !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ValidateJWTToken() error = %v, want expired", err)
	}
}

func TestValidateJWTToken_Tampered(t *testing.T) {
	p := newTestProcessor(t)
	ctx := context.Background()

	otherSecret := jwt.NewWithClaims(jwt.SigningMethodHS256, BaseClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenIssuer},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	forged, _ := otherSecret.SignedString([]byte("not-the-secret"))

	noneToken := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "admin"})
	unsigned, _ := noneToken.SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, token := range map[string]string{
		"wrong secret": forged,
		"alg none":     unsigned,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := p.ValidateJWTToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateJWTToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
