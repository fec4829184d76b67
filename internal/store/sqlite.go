package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps contact inquiries in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// contact_messages table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS contact_messages (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		message    TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating contact_messages table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveContact inserts msg. A zero CreatedAt is replaced with the current time.
func (s *SQLiteStore) SaveContact(ctx context.Context, msg ContactMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO contact_messages (session_id, name, email, message, created_at) VALUES (?, ?, ?, ?, ?)",
		msg.SessionID, msg.Name, msg.Email, msg.Message, msg.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving contact message from %s: %w", msg.Email, err)
	}
	return nil
}

// ListContacts returns inquiries newest first.
func (s *SQLiteStore) ListContacts(ctx context.Context, limit int) ([]ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT session_id, name, email, message, created_at FROM contact_messages ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	defer rows.Close()

	var result []ContactMessage
	for rows.Next() {
		var msg ContactMessage
		var created int64
		if err := rows.Scan(&msg.SessionID, &msg.Name, &msg.Email, &msg.Message, &created); err != nil {
			return nil, fmt.Errorf("scanning contact message: %w", err)
		}
		msg.CreatedAt = time.Unix(created, 0)
		result = append(result, msg)
	}

	return result, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
