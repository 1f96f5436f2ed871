package domain

import (
	"time"
)

// Message is a single entry in a conversation. Messages are immutable once
// appended to a session.
type Message struct {
	MessageID string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the persisted, ordered conversation history for one owner.
// Messages are append-only and never reordered; the first message is always
// the assistant greeting inserted at creation. Version is the optimistic
// concurrency token compared-and-swapped on save.
type Session struct {
	SessionID string    `json:"session_id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	Version   int64     `json:"version"`
	Messages  []Message `json:"messages"`
}

// Append adds a message to the in-memory copy of the session.
func (s *Session) Append(m Message) {
	s.Messages = append(s.Messages, m)
}

// Exchange records one orchestrated provider call for observability.
type Exchange struct {
	ExchangeID string         `json:"exchange_id"`
	OwnerID    string         `json:"owner_id"`
	Provider   ProviderKind   `json:"provider"`
	Status     ExchangeStatus `json:"status"`
	StartedAt  time.Time      `json:"started_at"`
	EndedAt    *time.Time     `json:"ended_at,omitempty"`
	LatencyMs  int64          `json:"latency_ms,omitempty"`
	ErrorKind  string         `json:"error_kind,omitempty"`
}
