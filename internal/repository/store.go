// Package store defines the storage interface and implementations.
package store

import (
	"context"

	"github.com/medassist/orchestrator/internal/domain"
)

// Greeting is the assistant message inserted when a session is created.
const Greeting = "Hello! How can I help you today?"

// Store defines the interface for data persistence. It is the single
// source of truth for conversation history across process restarts.
type Store interface {
	// LoadSession returns the session for the owner, creating a new one
	// with the default greeting if none exists. This is the only implicit
	// creation path.
	LoadSession(ctx context.Context, ownerID string) (*domain.Session, error)

	// SaveSession replaces the full session document keyed by owner id.
	// The write compares-and-swaps on Version: a stale copy fails with
	// domain.ErrVersionConflict, other write failures with
	// domain.ErrPersistence. On success the session's Version is bumped.
	SaveSession(ctx context.Context, session *domain.Session) error

	// GetMessages returns the owner's history in insertion order, capped
	// at limit when limit > 0.
	GetMessages(ctx context.Context, ownerID string, limit int) ([]domain.Message, error)

	// Exchange log operations
	CreateExchange(ctx context.Context, exchange *domain.Exchange) error
	CompleteExchange(ctx context.Context, exchangeID string, status domain.ExchangeStatus, latencyMs int64, errorKind string) error

	// Lifecycle
	Close() error
}
