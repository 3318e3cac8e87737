package service

import (
	"context"
	"errors"
	"time"

	"learnquest/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

const tokenTypeBearer = "bearer"

// TokenConfig holds the signing key and lifetimes. AccessTTL is expected to be much shorter than RefreshTTL.
type TokenConfig struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Claims struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
	Kind     TokenKind `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UserLookup is the part of the user store the token service needs.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type TokenService struct {
	cfg   TokenConfig
	users UserLookup
	now   func() time.Time
}

func NewTokenService(cfg TokenConfig, users UserLookup) *TokenService {
	return &TokenService{cfg: cfg, users: users, now: time.Now}
}

// Issue signs a fresh access/refresh pair for u.
func (s *TokenService) Issue(u *domain.User) (*TokenPair, error) {
	now := s.now()

	access, err := s.sign(&Claims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Kind:     TokenAccess,
	}, now, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := s.sign(&Claims{
		UserID: u.ID,
		Kind:   TokenRefresh,
	}, now, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int64(s.cfg.AccessTTL / time.Second),
	}, nil
}

func (s *TokenService) sign(claims *Claims, now time.Time, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
}

// Verify checks signature, signing method, issuer, expiry and kind.
// Failures are not distinguished.
func (s *TokenService) Verify(token string, kind TokenKind) (*Claims, bool) {
	if token == "" {
		return nil, false
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}
	if claims.Kind != kind || claims.UserID <= 0 {
		return nil, false
	}
	return claims, true
}

// ResolveUser returns the user behind a valid access token. Deleted users resolve to nothing.
func (s *TokenService) ResolveUser(ctx context.Context, token string) (*domain.User, bool) {
	claims, ok := s.Verify(token, TokenAccess)
	if !ok {
		return nil, false
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return nil, false
	}
	return u, true
}

// Refresh re-issues both tokens. A refresh token stays usable until it expires.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, bool) {
	claims, ok := s.Verify(refreshToken, TokenRefresh)
	if !ok {
		return nil, false
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return nil, false
	}
	pair, err := s.Issue(u)
	if err != nil {
		return nil, false
	}
	return pair, true
}
