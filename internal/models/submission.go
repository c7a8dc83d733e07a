package models

import "time"

// Verdict statuses returned by the external judge. The vocabulary is fixed;
// judge timeouts and transport failures are folded into runtime_error.
const (
	VerdictAccepted         = "accepted"
	VerdictWrongAnswer      = "wrong_answer"
	VerdictRuntimeError     = "runtime_error"
	VerdictCompilationError = "compilation_error"
)

// Submission is an append-only record of one grading attempt. Rows are never
// updated or deleted.
type Submission struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	MatchID   string    `json:"matchId" db:"match_id"`
	Code      string    `json:"code" db:"code"`
	Language  string    `json:"language" db:"language"`
	Result    string    `json:"result" db:"result"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type SubmitRequest struct {
	MatchID  string `json:"matchId" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required"`
}
