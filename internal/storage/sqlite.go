package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jwebster45206/fifteen-days/pkg/state"
	"github.com/jwebster45206/fifteen-days/pkg/storage"
)

// SQLiteStorage keeps sessions in a local SQLite file. Sessions do not expire.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure SQLiteStorage implements Storage interface
var _ storage.Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens (creating if needed) the database at dbPath.
func NewSQLiteStorage(dbPath string, logger *slog.Logger) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return &SQLiteStorage{db: db, logger: logger}, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS journal (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			day INTEGER NOT NULL,
			kind TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_journal_session_id ON journal(session_id);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close SQLite database", "error", err)
		return err
	}
	s.logger.Info("SQLite database closed")
	return nil
}

func (s *SQLiteStorage) SaveSession(ctx context.Context, sess *state.Session) error {
	if sess == nil {
		return errors.New("session cannot be nil")
	}
	sess.UpdatedAt = time.Now()

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		sess.ID.String(), string(data), sess.UpdatedAt)
	if err != nil {
		s.logger.Error("Failed to save session", "uuid", sess.ID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) LoadSession(ctx context.Context, id uuid.UUID) (*state.Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id.String()).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Return nil for not found
		}
		s.logger.Error("Failed to load session", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess state.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *SQLiteStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM journal WHERE session_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete journal: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStorage) AppendJournal(ctx context.Context, id uuid.UUID, entries ...state.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		at := e.At
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO journal (session_id, day, kind, text, created_at) VALUES (?, ?, ?, ?, ?)`,
			id.String(), e.Day, e.Kind, e.Text, at); err != nil {
			s.logger.Error("Failed to append journal", "uuid", id, "error", err)
			return fmt.Errorf("failed to append journal: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStorage) Journal(ctx context.Context, id uuid.UUID) ([]state.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, kind, text, created_at FROM journal WHERE session_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	defer rows.Close()

	entries := make([]state.JournalEntry, 0)
	for rows.Next() {
		var e state.JournalEntry
		if err := rows.Scan(&e.Day, &e.Kind, &e.Text, &e.At); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
