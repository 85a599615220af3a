// Package auth encodes the local login session as a signed token.
//
// The token is an HS256 JWT carrying the user id and the login time. It has
// no expiry: a session lasts until logout. A token that fails to parse or
// verify is reported as common.ErrInvalidToken and callers treat it as no
// session at all.
package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the session fields next to the registered iat claim.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// EncodeSession signs s with secretKey.
func EncodeSession(s models.Session, secretKey []byte) (string, error) {
	if len(secretKey) == 0 {
		return "", errors.New("empty session secret")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.CreatedAt),
		},
		UserID: s.UserID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return tokenString, nil
}

// DecodeSession verifies tokenString and returns the session it carries.
func DecodeSession(tokenString string, secretKey []byte) (*models.Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuedAt())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	s := &models.Session{UserID: claims.UserID}
	if claims.IssuedAt != nil {
		s.CreatedAt = claims.IssuedAt.Time
	}
	return s, nil
}
