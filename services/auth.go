package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService verifies the bearer tokens the API requires. Issuing sessions
// (login, magic links, user management) is the identity collaborator's job;
// this service only needs the shared signing secret. CreateJWT exists for
// that collaborator's contract and for local tooling.
type AuthService struct {
	jwtSecret []byte
}

func NewAuthService() *AuthService {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-default-secret-key-change-in-production"
	}

	return &AuthService{
		jwtSecret: []byte(jwtSecret),
	}
}

// CreateJWT generates a JWT token for a user
func (s *AuthService) CreateJWT(subject string) (string, error) {
	// Create token with claims
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 days
	})

	// Sign the token
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// VerifyJWT verifies a JWT token and returns the subject
func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	// Parse the token
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	// Check if token is valid
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	// Extract claims
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	// Get subject from claims
	subject, ok := claims["sub"].(string)
	if !ok {
		return "", errors.New("subject claim missing")
	}

	return subject, nil
}
