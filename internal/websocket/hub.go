package websocket

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Hrick-08/BeatCode/internal/models"
)

// Event types pushed to duel participants.
const (
	EventMatchFound     = "match_found"
	EventMatchCompleted = "match_completed"
)

// Hub tracks one connection per user and fans out duel events. The waiting
// player of a freshly created pairing learns the match id through
// EventMatchFound instead of polling the active-match endpoint.
type Hub struct {
	clients map[string]*Client // userID -> connection
	mu      sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	logger *zap.Logger
}

// Message is one event addressed to a user. An empty UserID broadcasts to
// everyone.
type Message struct {
	UserID  string      `json:"-"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// MatchEvent is the payload for match_found and match_completed.
type MatchEvent struct {
	MatchID   string  `json:"matchId"`
	ProblemID string  `json:"problemId,omitempty"`
	Opponent  string  `json:"opponentId,omitempty"`
	WinnerID  *string `json:"winnerId,omitempty"`
}

func NewHub() *Hub {
	logger, _ := zap.NewProduction()
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run processes registrations and outgoing events. Start it once in its own
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.dispatch(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// One connection per user; a reconnect replaces the old one.
	if oldClient, exists := h.clients[client.userID]; exists {
		close(oldClient.send)
		h.logger.Info("Replaced existing WebSocket connection",
			zap.String("userId", client.userID))
	}

	h.clients[client.userID] = client
	h.logger.Info("WebSocket client registered",
		zap.String("userId", client.userID),
		zap.Int("totalClients", len(h.clients)))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A reconnect replaces the map entry before the superseded connection's
	// read pump winds down, so unregister only the client that still owns the
	// registration; the old client's send channel was already closed when it
	// was replaced.
	if current, exists := h.clients[client.userID]; exists && current == client {
		delete(h.clients, client.userID)
		close(client.send)
		h.logger.Info("WebSocket client unregistered",
			zap.String("userId", client.userID),
			zap.Int("totalClients", len(h.clients)))
	}
}

func (h *Hub) dispatch(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if message.UserID == "" {
		for _, client := range h.clients {
			select {
			case client.send <- message:
			default:
				h.logger.Warn("Client send channel full, unregistering",
					zap.String("userId", client.userID))
				go func(c *Client) {
					h.unregister <- c
				}(client)
			}
		}
		return
	}

	if client, exists := h.clients[message.UserID]; exists {
		select {
		case client.send <- message:
		default:
			h.logger.Warn("Client send channel full",
				zap.String("userId", message.UserID))
		}
	}
}

// SendToUser queues one event for a single user. Dropped silently when the
// user has no open connection; every event is also observable through the
// REST surface.
func (h *Hub) SendToUser(userID string, msgType string, payload interface{}) {
	h.broadcast <- &Message{
		UserID:  userID,
		Type:    msgType,
		Payload: payload,
	}
}

// NotifyMatchFound tells both players their pairing succeeded.
func (h *Hub) NotifyMatchFound(match *models.Match) {
	h.SendToUser(match.Player1ID, EventMatchFound, MatchEvent{
		MatchID:   match.ID,
		ProblemID: match.ProblemID,
		Opponent:  match.Player2ID,
	})
	h.SendToUser(match.Player2ID, EventMatchFound, MatchEvent{
		MatchID:   match.ID,
		ProblemID: match.ProblemID,
		Opponent:  match.Player1ID,
	})
}

// NotifyMatchCompleted tells both players the duel is over.
func (h *Hub) NotifyMatchCompleted(match *models.Match) {
	event := MatchEvent{
		MatchID:  match.ID,
		WinnerID: match.WinnerID,
	}
	h.SendToUser(match.Player1ID, EventMatchCompleted, event)
	h.SendToUser(match.Player2ID, EventMatchCompleted, event)
}
