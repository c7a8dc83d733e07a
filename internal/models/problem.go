package models

import (
	"encoding/json"
	"time"
)

type Problem struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	InputFormat  string    `json:"inputFormat" db:"input_format"`
	OutputFormat string    `json:"outputFormat" db:"output_format"`
	TestCases    string    `json:"testCases" db:"test_cases"` // JSON array of TestCase
	Difficulty   string    `json:"difficulty" db:"difficulty"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// ParsedTestCases decodes the stored test case JSON.
func (p *Problem) ParsedTestCases() ([]TestCase, error) {
	var cases []TestCase
	if err := json.Unmarshal([]byte(p.TestCases), &cases); err != nil {
		return nil, err
	}
	return cases, nil
}
