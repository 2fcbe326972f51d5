package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carshare/internal/apperrors"
	"carshare/internal/booking"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := CreateAccessToken("secret", 42, booking.RoleOwner)
	require.NoError(t, err)

	actor, err := ParseAccessToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, 42, actor.ID)
	assert.Equal(t, booking.RoleOwner, actor.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := CreateAccessToken("secret", 42, booking.RoleOwner)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseAccessToken("secret", "not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestParseRejectsExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  "42",
		"role": string(booking.RoleOwner),
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestParseRejectsUnknownRole(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  "42",
		"role": "superuser",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestParseRejectsMissingSubject(t *testing.T) {
	claims := jwt.MapClaims{
		"role": string(booking.RoleRenter),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
