package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultRating is assigned to new accounts; RatingFloor is the lowest a
// rating can drop to through losses.
const (
	DefaultRating = 1000
	RatingFloor   = 800
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Rating       int       `json:"rating" db:"rating"`
	WinCount     int       `json:"winCount" db:"win_count"`
	LossCount    int       `json:"lossCount" db:"loss_count"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicProfile is the subset of User exposed to opponents and the leaderboard.
type PublicProfile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Rating    int    `json:"rating"`
	WinCount  int    `json:"winCount"`
	LossCount int    `json:"lossCount"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Username:  u.Username,
		Rating:    u.Rating,
		WinCount:  u.WinCount,
		LossCount: u.LossCount,
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
