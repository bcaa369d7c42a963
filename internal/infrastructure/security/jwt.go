// Package security provides token signing, encryption and secure random
// generation utilities.
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateSessionToken creates the signed token handed to the dashboard UI
// after a successful login.
func GenerateSessionToken(sessionID, username string, isAdmin bool, jwtSecret string, maxAge time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sessionId": sessionID,
		"sub":       username,
		"isAdmin":   isAdmin,
		"type":      "dashboard_session",
		"iat":       time.Now().UTC().Unix(),
		"exp":       time.Now().UTC().Add(maxAge).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// GenerateOpsToken creates the signed token for the operator surface.
func GenerateOpsToken(jwtSecret string, maxAge time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"type": "ops",
		"iat":  time.Now().UTC().Unix(),
		"exp":  time.Now().UTC().Add(maxAge).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
