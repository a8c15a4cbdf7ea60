package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests-only"

func newTestTokenService(t *testing.T, ttl time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecret, ttl, "ozvena", "ozvena-api")
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour, "ozvena", "ozvena-api")
	assert.Error(t, err)
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestTokenService_UniqueTokenIDs(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	userID := uuid.New()

	first, err := svc.GenerateAccessToken(userID)
	require.NoError(t, err)
	second, err := svc.GenerateAccessToken(userID)
	require.NoError(t, err)

	firstClaims, err := svc.ValidateToken(first)
	require.NoError(t, err)
	secondClaims, err := svc.ValidateToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.TokenID, secondClaims.TokenID)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	// Sign an already-expired token with the same secret
	claims := jwt.MapClaims{
		"user_id": uuid.New().String(),
		"jti":     "expired-token-id",
		"iat":     time.Now().Add(-2 * time.Hour).Unix(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
		"iss":     "ozvena",
		"aud":     "ozvena-api",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := newTestTokenService(t, time.Hour)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_InvalidTokens(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other, err := NewTokenService("a-completely-different-secret", time.Hour, "ozvena", "ozvena-api")
		require.NoError(t, err)

		token, err := other.GenerateAccessToken(uuid.New())
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongSigningMethod", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"user_id": uuid.New().String(),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("MissingUserID", func(t *testing.T) {
		claims := jwt.MapClaims{
			"jti": "id",
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}
