package middlewares

import (
	"errors"
	"time"

	"sltourism/src/config"
	"sltourism/src/models"
	"sltourism/src/types"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 12 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

func jwtKey() []byte {
	return []byte(config.JWT_SECRET)
}

// GenerateJWT signs an admin session token.
func GenerateJWT(user *models.AdminUser) (string, error) {
	now := time.Now()
	claims := types.Claims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			Issuer:    "sltourism",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtKey())
}

func ParseJWT(raw string) (*types.Claims, error) {
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return jwtKey(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
