package processor

import (
	"appointment-ivr/internal/config"
	"appointment-ivr/internal/observability"
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "appointment-ivr"
	tokenLifetime = 24 * time.Hour
	AuthTypeAdmin = "admin"
)

var (
	ErrAuthDisabled      = errors.New("admin auth is not configured")
	ErrIncorrectPassword = errors.New("incorrect username or password")
	ErrInvalidToken      = errors.New("invalid jwt token")
	ErrExpiredToken      = errors.New("jwt token expired")
	ErrFailedSignIn      = errors.New("failed to sign in")
)

// AuthProcessor authenticates the single staff account configured through
// the environment and issues HS256 tokens for it.
type AuthProcessor struct {
	config config.AdminConfig
	now    func() time.Time
	logger *observability.Logger
}

func New(cfg config.AdminConfig, logger *observability.Logger) AuthProcessor {
	return AuthProcessor{
		config: cfg,
		now:    time.Now,
		logger: logger,
	}
}

type BaseClaims struct {
	jwt.RegisteredClaims
	AuthType string `json:"auth_type"`
}

func (p *AuthProcessor) Enabled() bool {
	return p.config.Enabled()
}

// Login checks the credentials and returns a signed token.
func (p *AuthProcessor) Login(ctx context.Context, username, password string) (string, error) {
	if !p.Enabled() {
		return "", ErrAuthDisabled
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "username", Value: username})

	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(p.config.Username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(p.config.PasswordHash), []byte(password))
	if !usernameOK || passwordErr != nil {
		p.logger.Warn(ctx, "admin login rejected")
		return "", ErrIncorrectPassword
	}

	token, err := p.generateJWTToken(ctx, username)
	if err != nil {
		return "", err
	}
	p.logger.Info(ctx, "admin logged in")
	return token, nil
}
