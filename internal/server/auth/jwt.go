// Package auth issues and validates the HS256 access tokens carried in the
// API's bearer headers, and hashes user passwords.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hourkeep/hourkeep/internal/common"
)

// Claims extends the registered claims with the user id and role, so role
// gates do not need a user lookup on every request.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role"`
}

func GenerateToken(userID, role string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Role:   role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates tokenString and returns the embedded user id and role.
// Expired tokens yield common.ErrTokenExpired, anything else invalid yields
// the parse error or common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (string, string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", common.ErrTokenExpired
		}
		return "", "", err
	}

	if !token.Valid {
		return "", "", common.ErrInvalidToken
	}

	return claims.UserID, claims.Role, nil
}
