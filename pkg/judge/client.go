package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Hrick-08/BeatCode/pkg/logger"
)

// ErrUnsupportedLanguage is returned before any network round trip when the
// submission language has no judge mapping.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// languageIDs maps submission languages to the judge's numeric language ids.
var languageIDs = map[string]int{
	"python":     71,
	"javascript": 63,
	"java":       62,
	"cpp":        54,
	"c":          50,
}

// Verdict is the judge's terminal classification of one submission.
// Status is one of accepted, wrong_answer, runtime_error, compilation_error.
type Verdict struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Accepted reports whether this verdict wins the match.
func (v *Verdict) Accepted() bool {
	return v.Status == "accepted"
}

type evaluateRequest struct {
	Code       string `json:"code"`
	Language   string `json:"language"`
	LanguageID int    `json:"languageId"`
}

// Client talks to the external judge over HTTP. One evaluation is a single
// request/response round trip; there is no streaming or polling.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a judge client. timeout bounds each evaluation end to
// end, including the judge's own grading time.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SupportsLanguage reports whether the judge can grade the given language.
func SupportsLanguage(language string) bool {
	_, ok := languageIDs[language]
	return ok
}

// Evaluate submits (code, language) and blocks until the judge returns a
// verdict or the deadline expires. Callers treat any returned error as a
// non-accepting outcome; the match must stay active.
func (c *Client) Evaluate(ctx context.Context, code, language string) (*Verdict, error) {
	langID, ok := languageIDs[language]
	if !ok {
		return nil, ErrUnsupportedLanguage
	}

	body, err := json.Marshal(evaluateRequest{
		Code:       code,
		Language:   language,
		LanguageID: langID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal judge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/evaluate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build judge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("judge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("judge returned status %d", resp.StatusCode)
	}

	verdict := &Verdict{}
	if err := json.NewDecoder(resp.Body).Decode(verdict); err != nil {
		return nil, fmt.Errorf("failed to decode judge response: %w", err)
	}

	logger.Debug("Judge verdict received",
		"language", language,
		"status", verdict.Status,
		"latency", time.Since(start),
	)

	return verdict, nil
}
