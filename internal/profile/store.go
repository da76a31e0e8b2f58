package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// KeyChatSessionID is the single key the chat conversation identifier lives
// under.
const KeyChatSessionID = "chat_session_id"

// Schema for the profile table. Applied on Open.
const schema = `
CREATE TABLE IF NOT EXISTS profile (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Store persists per-profile values in a local SQLite file. It is the
// server-side stand-in for browser local storage: values are created on
// first access, read thereafter, and never mutated in place.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the profile database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("profile: db path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("profile: open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("profile: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored value, or "" when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM profile WHERE key = ?`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("profile: get %q: %w", key, err)
	}
	return value, nil
}

// GetOrCreate returns the stored value, generating and persisting one on
// first access. A concurrent first access loses the insert race cleanly and
// reads back the winner's value.
func (s *Store) GetOrCreate(ctx context.Context, key string, generate func() string) (string, error) {
	value, err := s.Get(ctx, key)
	if err != nil || value != "" {
		return value, err
	}
	value = generate()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO profile (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`, key, value); err != nil {
		return "", fmt.Errorf("profile: create %q: %w", key, err)
	}
	return s.Get(ctx, key)
}

// ChatSessionID returns the persistent chat session identifier, creating it
// on first use.
func (s *Store) ChatSessionID(ctx context.Context) (string, error) {
	return s.GetOrCreate(ctx, KeyChatSessionID, uuid.NewString)
}
