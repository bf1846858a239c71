package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dosada05/league-manager/models"
	"github.com/Dosada05/league-manager/utils"
	"github.com/golang-jwt/jwt/v4"
)

const tokenTTL = 24 * time.Hour

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService interface {
	Enabled() bool
	// IssueToken exchanges the organizer password for a signed bearer token.
	IssueToken(ctx context.Context, password string) (*Token, error)
}

type authService struct {
	passwordHash string
	jwtSecret    []byte
	now          func() time.Time
}

// NewAuthService returns a service that is disabled when either the secret or
// the password hash is empty.
func NewAuthService(jwtSecret, passwordHash string) AuthService {
	return &authService{
		passwordHash: passwordHash,
		jwtSecret:    []byte(jwtSecret),
		now:          time.Now,
	}
}

func (s *authService) Enabled() bool {
	return len(s.jwtSecret) > 0 && s.passwordHash != ""
}

func (s *authService) IssueToken(_ context.Context, password string) (*Token, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}
	if password == "" || !utils.CheckPasswordHash(password, s.passwordHash) {
		return nil, ErrAuthInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(tokenTTL)
	claims := jwt.MapClaims{
		"sub":  "organizer",
		"role": string(models.RoleOrganizer),
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Token{Token: signed, ExpiresAt: expiresAt}, nil
}
