package service

import (
	"fmt"

	"github.com/Hrick-08/BeatCode/internal/models"
)

// UserStore is the user persistence contract. Find methods return (nil, nil)
// when no row matches.
type UserStore interface {
	Create(username, email, passwordHash string) (*models.User, error)
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	UpdateProfile(id string, username, passwordHash *string) (*models.User, error)
	Leaderboard(limit int) ([]*models.User, error)
	ApplyMatchResult(winnerID, loserID string, winDelta, lossDelta, floor int) error
}

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Register creates an account with the default rating.
func (s *UserService) Register(username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	existing, err = s.users.FindByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	passwordHash, err := models.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(username, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns the account.
func (s *UserService) Login(email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetByID(id string) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UpdateProfile changes the caller's username and/or password. Empty
// arguments leave the current value in place.
func (s *UserService) UpdateProfile(id, username, password string) (*models.User, error) {
	if username == "" && password == "" {
		return nil, ErrInvalidInput
	}

	var usernamePtr, hashPtr *string

	if username != "" {
		existing, err := s.users.FindByUsername(username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if existing != nil && existing.ID != id {
			return nil, ErrUserAlreadyExists
		}
		usernamePtr = &username
	}

	if password != "" {
		hash, err := models.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hashPtr = &hash
	}

	user, err := s.users.UpdateProfile(id, usernamePtr, hashPtr)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// Leaderboard returns the top users by rating descending.
func (s *UserService) Leaderboard(limit int) ([]models.PublicProfile, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	users, err := s.users.Leaderboard(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	profiles := make([]models.PublicProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Public())
	}

	return profiles, nil
}
