// Package feed fans audit session events out to websocket subscribers.
package feed

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Event is the frame pushed to subscribers of an audit session.
type Event struct {
	Type      string    `json:"type"`
	SessionID int64     `json:"session_id"`
	Data      any       `json:"data,omitempty"`
	At        time.Time `json:"at"`
}

// Subscriber is one websocket connection watching a session.
type Subscriber struct {
	ID        string
	SessionID int64
	Conn      *websocket.Conn
	Send      chan Event
	Done      chan struct{}

	closeOnce sync.Once
}

func (s *Subscriber) close() {
	s.closeOnce.Do(func() { close(s.Done) })
}

// Hub tracks subscribers per session. It is safe for concurrent use.
type Hub struct {
	mu       sync.RWMutex
	sessions map[int64]map[string]*Subscriber
	log      zerolog.Logger
	now      func() time.Time
	upgrader Upgrader
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		sessions: make(map[int64]map[string]*Subscriber),
		log:      log.With().Str("component", "feed").Logger(),
		now:      time.Now,
	}
}

func (h *Hub) Subscribe(sessionID int64, conn *websocket.Conn) *Subscriber {
	sub := &Subscriber{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan Event, 32),
		Done:      make(chan struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.sessions[sessionID]
	if !ok {
		subs = make(map[string]*Subscriber)
		h.sessions[sessionID] = subs
	}
	subs[sub.ID] = sub
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.sessions[sub.SessionID]; ok {
		delete(subs, sub.ID)
		if len(subs) == 0 {
			delete(h.sessions, sub.SessionID)
		}
	}
	sub.close()
}

// Subscribers returns how many connections watch the session.
func (h *Hub) Subscribers(sessionID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Publish delivers an event to every subscriber of the session without
// blocking. A subscriber whose queue is full is dropped; its connection is
// closed so the client reconnects and reloads the session.
func (h *Hub) Publish(sessionID int64, eventType string, data any) {
	event := Event{Type: eventType, SessionID: sessionID, Data: data, At: h.now().UTC()}

	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.sessions[sessionID]))
	for _, sub := range h.sessions[sessionID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.Send <- event:
		case <-sub.Done:
		default:
			h.Unsubscribe(sub)
			h.log.Warn().
				Int64("session_id", sessionID).
				Str("subscriber", sub.ID).
				Str("event", eventType).
				Msg("feed.slow_subscriber_dropped")
		}
	}
}
