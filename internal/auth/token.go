package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in the "role" claim of access tokens issued by the auth service
const (
	RoleViewer = 1
	RoleAdmin  = 3
)

const accessTokenType = "access"

var ErrInvalidToken = errors.New("invalid token")

// TokenGenerator signs and validates HS256 access tokens shared with the auth service
type TokenGenerator struct {
	secret            string
	accessTokenExpiry time.Duration
	now               func() time.Time
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:            secret,
		accessTokenExpiry: accessExpiry,
		now:               time.Now,
	}
}

// GenerateAccessToken creates an access token with userID and role in payload.
// The progress service only validates tokens; this is used by the watch simulator and tests.
func (tg *TokenGenerator) GenerateAccessToken(userID, role int) (string, error) {
	issuedAt := tg.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     issuedAt.Add(tg.accessTokenExpiry).Unix(),
		"iat":     issuedAt.Unix(),
		"type":    accessTokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns the userID and role
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (int, int, error) {
	token, err := jwt.Parse(tokenString, tg.keyFunc, jwt.WithTimeFunc(tg.now))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, 0, fmt.Errorf("%w: invalid token claims", ErrInvalidToken)
	}

	if tokenType, _ := claims["type"].(string); tokenType != accessTokenType {
		return 0, 0, fmt.Errorf("%w: not an access token", ErrInvalidToken)
	}

	// JWT claims decode numbers as float64
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, 0, fmt.Errorf("%w: user_id not found in token", ErrInvalidToken)
	}
	role, ok := claims["role"].(float64)
	if !ok {
		return 0, 0, fmt.Errorf("%w: role not found in token", ErrInvalidToken)
	}

	return int(userID), int(role), nil
}

func (tg *TokenGenerator) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(tg.secret), nil
}
