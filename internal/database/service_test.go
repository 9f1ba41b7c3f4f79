package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(newTestRepo(t), "test-secret", time.Hour)
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc := newTestUserService(t)

	user, err := svc.Register("hr@example.com", "super-secret-pw", "HR Person")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "super-secret-pw", user.PasswordHash)

	token, loggedIn, err := svc.Login("hr@example.com", "super-secret-pw")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "hr@example.com", claims.Email)
}

func TestUserService_DuplicateEmail(t *testing.T) {
	svc := newTestUserService(t)

	_, err := svc.Register("hr@example.com", "super-secret-pw", "HR Person")
	require.NoError(t, err)

	_, err = svc.Register("hr@example.com", "other-password", "Someone Else")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_InvalidCredentials(t *testing.T) {
	svc := newTestUserService(t)

	_, err := svc.Register("hr@example.com", "super-secret-pw", "HR Person")
	require.NoError(t, err)

	_, _, err = svc.Login("hr@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "super-secret-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_RejectsTamperedToken(t *testing.T) {
	svc := newTestUserService(t)

	_, err := svc.Register("hr@example.com", "super-secret-pw", "HR Person")
	require.NoError(t, err)

	token, _, err := svc.Login("hr@example.com", "super-secret-pw")
	require.NoError(t, err)

	other := NewUserService(newTestRepo(t), "different-secret", time.Hour)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
