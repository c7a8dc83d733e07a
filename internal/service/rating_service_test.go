package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hrick-08/BeatCode/internal/models"
)

func TestRatingApply(t *testing.T) {
	winner := &models.User{ID: "w", Username: "alice", Rating: 1000}
	loser := &models.User{ID: "l", Username: "bob", Rating: 1000}
	users := newFakeUserStore(winner, loser)

	svc := NewRatingService(users)
	require.NoError(t, svc.Apply("w", "l"))

	assert.Equal(t, 1025, users.rating("w"))
	assert.Equal(t, 975, users.rating("l"))

	w, _ := users.FindByID("w")
	l, _ := users.FindByID("l")
	assert.Equal(t, 1, w.WinCount)
	assert.Equal(t, 0, w.LossCount)
	assert.Equal(t, 1, l.LossCount)
	assert.Equal(t, 0, l.WinCount)
}

func TestRatingFloor(t *testing.T) {
	tests := []struct {
		name        string
		loserBefore int
		loserAfter  int
	}{
		{"well above floor", 1200, 1175},
		{"lands exactly on floor", 825, 800},
		{"would cross floor", 810, 800},
		{"already at floor", 800, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUserStore(
				&models.User{ID: "w", Rating: 1000},
				&models.User{ID: "l", Rating: tt.loserBefore},
			)

			require.NoError(t, NewRatingService(users).Apply("w", "l"))
			assert.Equal(t, tt.loserAfter, users.rating("l"))
		})
	}
}

func TestRatingHelpers(t *testing.T) {
	assert.Equal(t, 1025, WinnerRatingAfter(1000))
	assert.Equal(t, 975, LoserRatingAfter(1000))
	assert.Equal(t, 800, LoserRatingAfter(810))
	assert.Equal(t, 800, LoserRatingAfter(800))
}
