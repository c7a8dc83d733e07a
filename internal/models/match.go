package models

import "time"

type MatchStatus string

// A match is created active and transitions to completed exactly once.
// There is no transition out of completed.
const (
	MatchStatusActive    MatchStatus = "active"
	MatchStatusCompleted MatchStatus = "completed"
)

type Match struct {
	ID          string      `json:"id" db:"id"`
	Player1ID   string      `json:"player1Id" db:"player1_id"`
	Player2ID   string      `json:"player2Id" db:"player2_id"`
	ProblemID   string      `json:"problemId" db:"problem_id"`
	CodePlayer1 *string     `json:"codePlayer1,omitempty" db:"code_player1"`
	CodePlayer2 *string     `json:"codePlayer2,omitempty" db:"code_player2"`
	Status      MatchStatus `json:"status" db:"status"`
	WinnerID    *string     `json:"winnerId,omitempty" db:"winner_id"`
	StartTime   time.Time   `json:"startTime" db:"start_time"`
	EndTime     *time.Time  `json:"endTime,omitempty" db:"end_time"`
}

// HasPlayer reports whether userID is one of the two participants.
func (m *Match) HasPlayer(userID string) bool {
	return m.Player1ID == userID || m.Player2ID == userID
}

// OpponentOf returns the other participant's id. ok is false when userID is
// not part of the match.
func (m *Match) OpponentOf(userID string) (string, bool) {
	switch userID {
	case m.Player1ID:
		return m.Player2ID, true
	case m.Player2ID:
		return m.Player1ID, true
	}
	return "", false
}
