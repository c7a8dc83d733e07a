package service

import "errors"

// Common service errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

// Problem errors
var (
	ErrProblemNotFound = errors.New("problem not found")
)

// Match and matchmaking errors. ErrMatchAlreadyCompleted is the benign
// outcome of a completion race: callers that lose the race absorb it and
// report the existing result instead of failing the request.
var (
	ErrMatchNotFound         = errors.New("match not found")
	ErrNoActiveMatch         = errors.New("no active match found")
	ErrNotParticipant        = errors.New("user is not a participant of this match")
	ErrMatchAlreadyCompleted = errors.New("match already completed")
	ErrAlreadyInMatch        = errors.New("user already has an active match")
	ErrInvalidPairing        = errors.New("cannot pair a user against themselves")
)
