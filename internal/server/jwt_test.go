package server

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/persona-screener/internal/config"
)

// Claims must keep satisfying the jwt.Claims interface; the promoted
// GetSubject from RegisteredClaims provides it and must not be shadowed.
var _ jwt.Claims = (*Claims)(nil)

func testJWTService(secret, issuer string, hours int) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          secret,
		Issuer:          issuer,
		ExpirationHours: hours,
	})
}

func TestJWT_RoundTrip(t *testing.T) {
	service := testJWTService("test-secret", "persona-screener", 24)
	subject := uuid.New()

	token, err := service.GenerateToken(subject)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.SubjectID())
	assert.Equal(t, "persona-screener", claims.Issuer)
}

func TestJWT_WrongSecret(t *testing.T) {
	signer := testJWTService("secret-one", "persona-screener", 24)
	verifier := testJWTService("secret-two", "persona-screener", 24)

	token, err := signer.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_Expired(t *testing.T) {
	service := testJWTService("test-secret", "persona-screener", -1)

	token, err := service.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_IssuerMismatch(t *testing.T) {
	signer := testJWTService("test-secret", "other-service", 24)
	verifier := testJWTService("test-secret", "persona-screener", 24)

	token, err := signer.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_EmptyToken(t *testing.T) {
	service := testJWTService("test-secret", "persona-screener", 24)
	_, err := service.ValidateToken("")
	assert.Error(t, err)
}

func TestJWT_GarbageToken(t *testing.T) {
	service := testJWTService("test-secret", "persona-screener", 24)
	_, err := service.ValidateToken("not.a.jwt")
	assert.Error(t, err)
}
