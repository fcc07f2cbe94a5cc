package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopmart/shopmart/internal/models"
)

const tokenDuration = 24 * time.Hour

// AuthToken creates and verifies HMAC signed auth tokens.
type AuthToken struct {
	key []byte
}

// NewAuthToken creates new AuthToken instance
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{key: key}
}

type tokenClaims struct {
	UserID uint64 `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// CreateToken creates signed token carrying user id and role
func (t *AuthToken) CreateToken(payload *models.TokenPayload) (string, error) {
	claims := tokenClaims{
		UserID: payload.UserID,
		Role:   string(payload.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(t.key)
}

// VerifyToken verifies token signature and returns its payload
func (t *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	claims := tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.key, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return &models.TokenPayload{
		UserID: claims.UserID,
		Role:   models.Role(claims.Role),
	}, nil
}
