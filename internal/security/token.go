package security

import (
	"errors"
	"strconv"
	"time"

	"toolrental-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const (
	issuer   = "toolrental-backend"
	audience = "api-access"
)

// UserClaims identifies the principal a token was issued to.
type UserClaims struct {
	UserID int32                `json:"user_id"`
	Email  string               `json:"email,omitempty"`
	Name   string               `json:"name,omitempty"`
	Kind   domain.PrincipalKind `json:"kind"`
	Role   domain.Role          `json:"role"`
	jwt.RegisteredClaims
}

// Principal converts the claims back into the caller they describe.
func (c *UserClaims) Principal() *domain.Principal {
	return &domain.Principal{
		ID:    c.UserID,
		Kind:  c.Kind,
		Role:  c.Role,
		Name:  c.Name,
		Email: c.Email,
	}
}

type TokenManager interface {
	GenerateAccessToken(p *domain.Principal) (string, error)
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, expiry time.Duration) TokenManager {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &tokenManager{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

func (m *tokenManager) GenerateAccessToken(p *domain.Principal) (string, error) {
	now := m.now()
	claims := UserClaims{
		UserID: p.ID,
		Email:  p.Email,
		Name:   p.Name,
		Kind:   p.Kind,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(p.ID)),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(audience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 && claims.Subject != "" {
		uid, _ := strconv.Atoi(claims.Subject)
		claims.UserID = int32(uid)
	}
	return claims, nil
}
