package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/tripsplitter/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// tokenIssuer is written to and required on every session token.
const tokenIssuer = "tripsplitter"

// Claims identify the trip owner a session token was issued to. The user ID
// travels as the registered subject.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID is the owner ID the token was issued for.
func (c *Claims) UserID() string {
	return c.Subject
}

// JWTManager issues and checks HS256 session tokens for trip owners.
type JWTManager struct {
	key    []byte
	ttl    time.Duration
	parser *jwt.Parser
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		key: []byte(secret),
		ttl: ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(tokenIssuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// Generate signs a session token for user, valid for the manager's TTL.
func (m *JWTManager) Generate(user *models.User) (string, error) {
	if user.ID == "" || user.Username == "" {
		return "", errors.New("token needs a user ID and username")
	}

	issued := time.Now()
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, issuer and lifetime and returns the claims. A
// token without a subject or username is rejected even when correctly signed.
func (m *JWTManager) Validate(raw string) (*Claims, error) {
	var claims Claims
	_, err := m.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.Username == "" {
		return nil, fmt.Errorf("%w: missing user claims", ErrInvalidToken)
	}
	return &claims, nil
}
