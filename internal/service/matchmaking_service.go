package service

import (
	"errors"
	"sync"
	"time"

	"github.com/Hrick-08/BeatCode/internal/metrics"
	"github.com/Hrick-08/BeatCode/internal/models"
	"github.com/Hrick-08/BeatCode/internal/websocket"
	"github.com/Hrick-08/BeatCode/pkg/logger"
)

type queueEntry struct {
	userID   string
	queuedAt time.Time
}

// JoinResult is what a Join call learns: either a queue position while
// waiting, or the match created by the pairing this call triggered.
type JoinResult struct {
	Paired   bool
	Position int // 1-based position in the queue, when waiting
	Match    *models.Match
}

// MatchmakingService owns the pool of waiting users. The queue is strict
// FIFO with no duplicates; pairing happens synchronously inside Join the
// moment two users are waiting, so nobody waits while an opponent is
// available.
type MatchmakingService struct {
	mu       sync.Mutex
	waiting  []queueEntry
	inFlight map[string]struct{} // popped for a pairing still being created

	matchService   *MatchService
	problemService *ProblemService
	hub            *websocket.Hub // optional

	maxWait time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
	runMu    sync.Mutex
	running  bool
}

// NewMatchmakingService wires the queue to its collaborators. hub may be nil
// (waiting partners then discover their match via the active-match query).
// maxWait bounds how long an abandoned entry can linger in the queue.
func NewMatchmakingService(
	matchService *MatchService,
	problemService *ProblemService,
	hub *websocket.Hub,
	maxWait time.Duration,
) *MatchmakingService {
	if maxWait <= 0 {
		maxWait = 10 * time.Minute
	}

	return &MatchmakingService{
		inFlight:       make(map[string]struct{}),
		matchService:   matchService,
		problemService: problemService,
		hub:            hub,
		maxWait:        maxWait,
		stopChan:       make(chan struct{}),
	}
}

// Join enqueues the user, pairing immediately when an opponent is waiting.
// Re-joining while already queued, or while this user's pairing is still
// being created, is idempotent and just reports a waiting position. If the
// match cannot be created, the popped users return to the front of the queue
// in their original order, minus anyone who already holds an active match.
func (s *MatchmakingService) Join(userID string) (*JoinResult, error) {
	// A user already dueling cannot wait for a second opponent.
	if _, err := s.matchService.FindActiveFor(userID); err == nil {
		return nil, ErrAlreadyInMatch
	} else if !errors.Is(err, ErrNoActiveMatch) {
		return nil, err
	}

	metrics.QueueJoins.Inc()

	s.mu.Lock()

	if pos := s.positionOfLocked(userID); pos > 0 {
		s.mu.Unlock()
		return &JoinResult{Position: pos}, nil
	}

	// A user whose pairing is being created is neither queued nor in a match
	// yet; treating the re-join as already waiting keeps the queue free of
	// duplicate entries for them.
	if _, pending := s.inFlight[userID]; pending {
		s.mu.Unlock()
		return &JoinResult{Position: 1}, nil
	}

	s.waiting = append(s.waiting, queueEntry{userID: userID, queuedAt: time.Now()})

	if len(s.waiting) < 2 {
		pos := len(s.waiting)
		s.mu.Unlock()
		logger.Debug("User queued for matchmaking", "userId", userID, "position", pos)
		return &JoinResult{Position: pos}, nil
	}

	// Pop the two longest-waiting users. The collaborator calls below run
	// outside the lock so a slow database never blocks other joins.
	first, second := s.waiting[0], s.waiting[1]
	s.waiting = s.waiting[2:]
	s.inFlight[first.userID] = struct{}{}
	s.inFlight[second.userID] = struct{}{}
	s.mu.Unlock()

	// After a pairing failure the queue can hold a backlog, in which case the
	// popped pair does not include the joiner: the join then drains one
	// backlog pair and reports the joiner's own position.
	joinerPopped := first.userID == userID || second.userID == userID

	match, err := s.createMatch(first, second)
	if err != nil {
		restored := s.settleFailed(first, second)
		logger.Error("Pairing failed, eligible users returned to queue",
			"player1", first.userID,
			"player2", second.userID,
			"restored", restored,
			"error", err,
		)
		if !joinerPopped {
			return &JoinResult{Position: s.positionOf(userID)}, nil
		}
		// The failure was the partner's (already in a match by the time the
		// pair was popped); the joiner is back in the queue waiting.
		if len(restored) == 1 && restored[0] == userID {
			return &JoinResult{Position: s.positionOf(userID)}, nil
		}
		return nil, err
	}

	s.clearInFlight(first.userID, second.userID)

	if !joinerPopped {
		return &JoinResult{Position: s.positionOf(userID)}, nil
	}

	return &JoinResult{Paired: true, Match: match}, nil
}

// Leave removes the user from the queue. Returns false when the user was
// not waiting (already paired, or never joined).
func (s *MatchmakingService) Leave(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range s.waiting {
		if entry.userID == userID {
			s.waiting = append(s.waiting[:i], s.waiting[i+1:]...)
			logger.Info("User left matchmaking queue", "userId", userID)
			return true
		}
	}

	return false
}

// WaitingCount reports the current queue depth.
func (s *MatchmakingService) WaitingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.waiting)
}

func (s *MatchmakingService) positionOf(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionOfLocked(userID)
}

func (s *MatchmakingService) positionOfLocked(userID string) int {
	for i, entry := range s.waiting {
		if entry.userID == userID {
			return i + 1
		}
	}
	return 0
}

// settleFailed returns a failed pairing to the front of the queue in its
// original FIFO order, dropping any user who already holds an active match
// (their entry was stale and would wedge every later pairing attempt). The
// restored user ids are returned.
func (s *MatchmakingService) settleFailed(first, second queueEntry) []string {
	var keep []queueEntry
	var restored []string
	for _, entry := range []queueEntry{first, second} {
		if _, err := s.matchService.FindActiveFor(entry.userID); err != nil {
			keep = append(keep, entry)
			restored = append(restored, entry.userID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.waiting = append(keep, s.waiting...)
	delete(s.inFlight, first.userID)
	delete(s.inFlight, second.userID)
	return restored
}

func (s *MatchmakingService) clearInFlight(userIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range userIDs {
		delete(s.inFlight, id)
	}
}

func (s *MatchmakingService) createMatch(first, second queueEntry) (*models.Match, error) {
	problem, err := s.problemService.SelectForNewMatch()
	if err != nil {
		return nil, err
	}

	match, err := s.matchService.Create(first.userID, second.userID, problem.ID)
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.NotifyMatchFound(match)
	}

	logger.Info("Players paired",
		"matchId", match.ID,
		"player1", first.userID,
		"player2", second.userID,
		"player1Waited", time.Since(first.queuedAt),
	)

	return match, nil
}

// Start launches the janitor that evicts entries waiting longer than
// maxWait, covering users who disconnected without leaving.
func (s *MatchmakingService) Start() {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		return
	}
	s.running = true
	s.runMu.Unlock()

	logger.Info("Starting matchmaking janitor", "maxWait", s.maxWait)

	s.wg.Add(1)
	go s.janitorLoop()
}

// Stop shuts the janitor down and waits for it to exit.
func (s *MatchmakingService) Stop() {
	s.runMu.Lock()
	if !s.running {
		s.runMu.Unlock()
		return
	}
	s.running = false
	s.runMu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
	logger.Info("Matchmaking janitor stopped")
}

func (s *MatchmakingService) janitorLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictStale()
		case <-s.stopChan:
			return
		}
	}
}

func (s *MatchmakingService) evictStale() {
	cutoff := time.Now().Add(-s.maxWait)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.waiting[:0]
	for _, entry := range s.waiting {
		if entry.queuedAt.Before(cutoff) {
			logger.Warn("Evicting stale matchmaking entry",
				"userId", entry.userID,
				"queuedAt", entry.queuedAt,
			)
			continue
		}
		kept = append(kept, entry)
	}
	s.waiting = kept
}
