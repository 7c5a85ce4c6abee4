package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"sahatak/config"
)

func signingKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "sahatak-dev-secret"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT with the user id as subject plus the
// account role. The token expires after the specified duration.
func GenerateToken(userID, email, userType string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  userType,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return signingKey(), nil
	})
}

// ExtractIDFromToken extracts the user id (subject) and role from a valid
// token string.
func ExtractIDFromToken(tokenString string) (userID, role string, err error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("token does not contain a valid 'sub' claim")
	}
	r, _ := claims["role"].(string)
	return sub, r, nil
}
