package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/medassist/orchestrator/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			owner_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			version INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq)`,
		`CREATE TABLE IF NOT EXISTS exchanges (
			exchange_id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			provider TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME,
			latency_ms INTEGER,
			error_kind TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exchanges_owner ON exchanges(owner_id, started_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// LoadSession loads the owner's session, creating one with the greeting
// message when absent.
func (s *SQLiteStore) LoadSession(ctx context.Context, ownerID string) (*domain.Session, error) {
	session, err := s.getSession(ctx, ownerID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load session: %v: %w", err, domain.ErrPersistence)
	}

	created := &domain.Session{
		SessionID: uuid.New().String(),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
		Version:   1,
	}
	created.Append(domain.Message{
		MessageID: uuid.New().String(),
		SessionID: created.SessionID,
		Role:      domain.RoleAssistant,
		Content:   Greeting,
		CreatedAt: created.CreatedAt,
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %v: %w", err, domain.ErrPersistence)
	}
	defer tx.Rollback()

	// A concurrent loader may have created the row first; back off to it.
	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (owner_id, session_id, created_at, version)
		 VALUES (?, ?, ?, ?) ON CONFLICT(owner_id) DO NOTHING`,
		created.OwnerID, created.SessionID, created.CreatedAt, created.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %v: %w", err, domain.ErrPersistence)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return s.getSession(ctx, ownerID)
	}

	if err := insertMessages(ctx, tx, created.SessionID, created.Messages); err != nil {
		return nil, fmt.Errorf("failed to write greeting: %v: %w", err, domain.ErrPersistence)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session: %v: %w", err, domain.ErrPersistence)
	}

	return created, nil
}

// SaveSession performs a full replace of the session document, guarded by
// a compare-and-swap on the version column.
func (s *SQLiteStore) SaveSession(ctx context.Context, session *domain.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %v: %w", err, domain.ErrPersistence)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET version = version + 1 WHERE owner_id = ? AND version = ?`,
		session.OwnerID, session.Version)
	if err != nil {
		return fmt.Errorf("failed to update session: %v: %w", err, domain.ErrPersistence)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("owner %s at version %d: %w", session.OwnerID, session.Version, domain.ErrVersionConflict)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, session.SessionID); err != nil {
		return fmt.Errorf("failed to clear messages: %v: %w", err, domain.ErrPersistence)
	}
	if err := insertMessages(ctx, tx, session.SessionID, session.Messages); err != nil {
		return fmt.Errorf("failed to write messages: %v: %w", err, domain.ErrPersistence)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %v: %w", err, domain.ErrPersistence)
	}
	session.Version++
	return nil
}

// GetMessages returns the owner's history in insertion order.
func (s *SQLiteStore) GetMessages(ctx context.Context, ownerID string, limit int) ([]domain.Message, error) {
	query := `SELECT m.message_id, m.session_id, m.role, m.content, m.created_at
		FROM messages m
		JOIN sessions s ON s.session_id = m.session_id
		WHERE s.owner_id = ?
		ORDER BY m.seq`
	args := []interface{}{ownerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %v: %w", err, domain.ErrPersistence)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.MessageID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %v: %w", err, domain.ErrPersistence)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// CreateExchange records the start of an orchestrated provider call.
func (s *SQLiteStore) CreateExchange(ctx context.Context, exchange *domain.Exchange) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchanges (exchange_id, owner_id, provider, status, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		exchange.ExchangeID, exchange.OwnerID, exchange.Provider, exchange.Status, exchange.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create exchange: %v: %w", err, domain.ErrPersistence)
	}
	return nil
}

// CompleteExchange records the terminal state of a provider call.
func (s *SQLiteStore) CompleteExchange(ctx context.Context, exchangeID string, status domain.ExchangeStatus, latencyMs int64, errorKind string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE exchanges SET status = ?, ended_at = ?, latency_ms = ?, error_kind = ? WHERE exchange_id = ?`,
		status, time.Now().UTC(), latencyMs, errorKind, exchangeID)
	if err != nil {
		return fmt.Errorf("failed to complete exchange: %v: %w", err, domain.ErrPersistence)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) getSession(ctx context.Context, ownerID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id, session_id, created_at, version FROM sessions WHERE owner_id = ?`,
		ownerID).Scan(&session.OwnerID, &session.SessionID, &session.CreatedAt, &session.Version)
	if err != nil {
		return nil, err
	}

	messages, err := s.GetMessages(ctx, ownerID, 0)
	if err != nil {
		return nil, err
	}
	session.Messages = messages
	return &session, nil
}

func insertMessages(ctx context.Context, tx *sql.Tx, sessionID string, messages []domain.Message) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO messages (message_id, session_id, seq, role, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range messages {
		if _, err := stmt.ExecContext(ctx, m.MessageID, sessionID, i, m.Role, m.Content, m.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
