package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hrick-08/BeatCode/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	user, err := svc.Register("alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRating, user.Rating)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	logged, err := svc.Login("alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = svc.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	_, err := svc.Register("alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Register("alice2", "alice@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.Register("alice", "other@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestGetByID(t *testing.T) {
	store := newFakeUserStore(&models.User{ID: "u1", Username: "alice", Rating: 1200})
	svc := NewUserService(store)

	user, err := svc.GetByID("u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.GetByID("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	user, err := svc.Register("alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	_, err = svc.Register("bob", "bob@example.com", "s3cret-pass")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(user.ID, "alice2", "")
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)

	// Password change takes effect on the next login.
	_, err = svc.UpdateProfile(user.ID, "", "new-pass-123")
	require.NoError(t, err)
	_, err = svc.Login("alice@example.com", "new-pass-123")
	assert.NoError(t, err)

	_, err = svc.UpdateProfile(user.ID, "bob", "")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.UpdateProfile(user.ID, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateProfile("missing", "carol", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLeaderboard(t *testing.T) {
	store := newFakeUserStore(
		&models.User{ID: "u1", Username: "alice", Rating: 1200},
		&models.User{ID: "u2", Username: "bob", Rating: 1400},
		&models.User{ID: "u3", Username: "carol", Rating: 900},
	)
	svc := NewUserService(store)

	board, err := svc.Leaderboard(2)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "bob", board[0].Username)
	assert.Equal(t, "alice", board[1].Username)

	// Non-positive limits fall back to the default page size.
	board, err = svc.Leaderboard(0)
	require.NoError(t, err)
	assert.Len(t, board, 3)
}
