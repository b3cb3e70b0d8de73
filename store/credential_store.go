package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// CredentialSlotName is the fixed key of the durable bearer token slot.
const CredentialSlotName = "retail_token"

// CredentialStore is the durable slot that keeps the bearer token across
// process restarts. Load returns "" when the slot is empty.
type CredentialStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// FileCredentialStore keeps the token as plain text in a single file.
type FileCredentialStore struct {
	path string
}

func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path}
}

func (s *FileCredentialStore) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read credential file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileCredentialStore) Save(ctx context.Context, token string) error {
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}

func (s *FileCredentialStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	return nil
}

// MemoryCredentialStore is a process-local slot.
type MemoryCredentialStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryCredentialStore(token string) *MemoryCredentialStore {
	return &MemoryCredentialStore{token: token}
}

func (s *MemoryCredentialStore) Load(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryCredentialStore) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryCredentialStore) Clear(ctx context.Context) error {
	return s.Save(ctx, "")
}

// PostgresCredentialStore keeps the slot as one row of credential_slots.
type PostgresCredentialStore struct {
	db   *sql.DB
	name string
}

func NewPostgresCredentialStore(db *sql.DB) *PostgresCredentialStore {
	return &PostgresCredentialStore{db: db, name: CredentialSlotName}
}

// EnsureSchema creates the slot table when it does not exist yet.
func (s *PostgresCredentialStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS credential_slots (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create credential_slots table: %w", err)
	}
	return nil
}

func (s *PostgresCredentialStore) Load(ctx context.Context) (string, error) {
	var token string
	query := `SELECT value FROM credential_slots WHERE name = $1;`
	err := s.db.QueryRowContext(ctx, query, s.name).Scan(&token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load credential slot %q: %w", s.name, err)
	}
	return token, nil
}

func (s *PostgresCredentialStore) Save(ctx context.Context, token string) error {
	query := `
		INSERT INTO credential_slots (name, value)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = now();
	`
	if _, err := s.db.ExecContext(ctx, query, s.name, token); err != nil {
		return fmt.Errorf("failed to save credential slot %q: %w", s.name, err)
	}
	return nil
}

func (s *PostgresCredentialStore) Clear(ctx context.Context) error {
	query := `DELETE FROM credential_slots WHERE name = $1;`
	if _, err := s.db.ExecContext(ctx, query, s.name); err != nil {
		return fmt.Errorf("failed to clear credential slot %q: %w", s.name, err)
	}
	return nil
}
