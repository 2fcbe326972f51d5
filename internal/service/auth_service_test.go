package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"carshare/internal/apperrors"
	"carshare/internal/auth"
	"carshare/internal/booking"
	"carshare/internal/entities"
)

const testSecret = "test-secret"

func newAuthEnv(t *testing.T) *AuthService {
	t.Helper()
	s := newMemStore()
	return NewAuthService(&memUserRepo{s: s}, testSecret)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthEnv(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, entities.RegisterRequest{
		Username: "ana", Email: "ana@example.com", Password: "hunter22", Role: "renter",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")))

	token, err := svc.Login(ctx, entities.LoginRequest{Email: "ana@example.com", Password: "hunter22"})
	require.NoError(t, err)

	actor, err := auth.ParseAccessToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
	assert.Equal(t, booking.RoleRenter, actor.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthEnv(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, entities.RegisterRequest{Email: "ana@example.com", Password: "x", Role: "renter"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Register(ctx, entities.RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "x", Role: "superuser"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Register(ctx, entities.RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "x", Role: "renter"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, entities.RegisterRequest{Username: "ana2", Email: "ana@example.com", Password: "y", Role: "owner"})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthEnv(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, entities.RegisterRequest{
		Username: "ana", Email: "ana@example.com", Password: "hunter22", Role: "renter",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, entities.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Unknown account looks identical to a wrong password.
	_, err = svc.Login(ctx, entities.LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestUpdateMeRehashesPassword(t *testing.T) {
	svc := newAuthEnv(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, entities.RegisterRequest{
		Username: "ana", Email: "ana@example.com", Password: "hunter22", Role: "renter",
	})
	require.NoError(t, err)
	actor := booking.Actor{ID: user.ID, Role: booking.RoleRenter}

	updated, err := svc.UpdateMe(ctx, actor, entities.UserUpdateRequest{Username: "ana-v2", Password: "hunter23"})
	require.NoError(t, err)
	assert.Equal(t, "ana-v2", updated.Username)
	assert.Equal(t, "ana@example.com", updated.Email)

	_, err = svc.Login(ctx, entities.LoginRequest{Email: "ana@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = svc.Login(ctx, entities.LoginRequest{Email: "ana@example.com", Password: "hunter23"})
	assert.NoError(t, err)

	require.NoError(t, svc.DeleteMe(ctx, actor))
	_, err = svc.Login(ctx, entities.LoginRequest{Email: "ana@example.com", Password: "hunter23"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
