package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tripsplitter/internal/models"
)

// memUsers is an in-memory storage.UserStore.
type memUsers struct {
	users []*models.User
}

func (m *memUsers) CreateUser(_ context.Context, user *models.User) error {
	m.users = append(m.users, user)
	return nil
}

func (m *memUsers) find(match func(*models.User) bool) *models.User {
	for _, u := range m.users {
		if match(u) {
			return u
		}
	}
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email }), nil
}

func (m *memUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Username == username }), nil
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == id }), nil
}

func newTestAuthenticator() *PasswordAuthenticator {
	return NewPasswordAuthenticator(&memUsers{}).WithCost(bcrypt.MinCost)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()

	user, err := a.Register(ctx, " alice@example.com ", "alice", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	tests := []struct {
		name     string
		email    string
		username string
		password string
		wantErr  error
	}{
		{"missing email", "", "bob", "secret1", ErrMissingFields},
		{"missing password", "bob@example.com", "bob", "", ErrMissingFields},
		{"short password", "bob@example.com", "bob", "12345", ErrWeakPassword},
		{"short username", "bob@example.com", "bo", "secret1", ErrShortUsername},
		{"email taken", "alice@example.com", "bobby", "secret1", ErrEmailExists},
		{"username taken", "bob@example.com", "alice", "secret1", ErrUsernameExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.email, tt.username, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()
	registered, err := a.Register(ctx, "alice@example.com", "alice", "secret1")
	require.NoError(t, err)

	user, err := a.Authenticate(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = a.Authenticate(ctx, "alice@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestJWTManager(t *testing.T) {
	user := models.NewUser("alice@example.com", "alice", "hash")

	t.Run("round trip", func(t *testing.T) {
		m := NewJWTManager("test-secret", time.Hour)
		token, err := m.Generate(user)
		require.NoError(t, err)

		claims, err := m.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID())
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("one", time.Hour).Generate(user)
		require.NoError(t, err)

		_, err = NewJWTManager("two", time.Hour).Validate(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("expired", func(t *testing.T) {
		m := NewJWTManager("test-secret", -time.Minute)
		token, err := m.Generate(user)
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := NewJWTManager("test-secret", time.Hour).Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refuses incomplete user", func(t *testing.T) {
		m := NewJWTManager("test-secret", time.Hour)
		_, err := m.Generate(&models.User{ID: "u-1"})
		assert.Error(t, err)
		_, err = m.Generate(&models.User{Username: "alice"})
		assert.Error(t, err)
	})
}

// signed builds a token with the given claims outside of JWTManager.
func signed(t *testing.T, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestJWTManager_RejectsForgedClaims(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	now := time.Now()
	registered := func(issuer, subject string, expires *jwt.NumericDate) jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: expires,
		}
	}
	hourLater := jwt.NewNumericDate(now.Add(time.Hour))

	tests := []struct {
		name  string
		token string
	}{
		{"no username", signed(t, jwt.SigningMethodHS256, &Claims{
			RegisteredClaims: registered(tokenIssuer, "u-1", hourLater),
		})},
		{"no subject", signed(t, jwt.SigningMethodHS256, &Claims{
			Username:         "alice",
			RegisteredClaims: registered(tokenIssuer, "", hourLater),
		})},
		{"other issuer", signed(t, jwt.SigningMethodHS256, &Claims{
			Username:         "alice",
			RegisteredClaims: registered("someone-else", "u-1", hourLater),
		})},
		{"no expiry", signed(t, jwt.SigningMethodHS256, &Claims{
			Username:         "alice",
			RegisteredClaims: registered(tokenIssuer, "u-1", nil),
		})},
		{"other algorithm", signed(t, jwt.SigningMethodHS512, &Claims{
			Username:         "alice",
			RegisteredClaims: registered(tokenIssuer, "u-1", hourLater),
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	claims, err := m.Validate(signed(t, jwt.SigningMethodHS256, &Claims{
		Username:         "alice",
		RegisteredClaims: registered(tokenIssuer, "u-1", hourLater),
	}))
	require.NoError(t, err, "hand-built token with every claim is accepted")
	assert.Equal(t, "u-1", claims.UserID())
}
