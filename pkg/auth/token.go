package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleStore Role = "store"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleStore, RoleAdmin:
		return true
	}
	return false
}

var ErrInvalidToken = errors.New("invalid or expired token")

// Principal is the authenticated caller. BrandID is only set for store accounts.
type Principal struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	BrandID string `json:"brand_id,omitempty"`
}

func (p *Principal) Is(roles ...Role) bool {
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

type Claims struct {
	Role    Role   `json:"role"`
	BrandID string `json:"brand_id,omitempty"`
	jwt.RegisteredClaims
}

type Token struct {
	AccessToken string    `json:"token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration, issuer string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

func (m *TokenManager) Issue(p Principal) (*Token, error) {
	if p.ID == "" || !p.Role.Valid() {
		return nil, fmt.Errorf("cannot issue token for principal %q with role %q", p.ID, p.Role)
	}

	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		Role:    p.Role,
		BrandID: p.BrandID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.Truncate(time.Second),
	}, nil
}

func (m *TokenManager) Parse(tokenString string) (*Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	if claims.Role == RoleStore && claims.BrandID == "" {
		return nil, ErrInvalidToken
	}

	return &Principal{
		ID:      claims.Subject,
		Role:    claims.Role,
		BrandID: claims.BrandID,
	}, nil
}
