package storage

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/fifteen-days/pkg/state"
)

// MockStorage is an in-memory implementation of Storage, used in tests
// and as the "memory" backend.
type MockStorage struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]state.Session
	journals  map[uuid.UUID][]state.JournalEntry
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions: make(map[uuid.UUID]state.Session),
		journals: make(map[uuid.UUID][]state.JournalEntry),
	}
}

// SetPingSuccess configures the mock to succeed on ping
func (m *MockStorage) SetPingSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = nil
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

// SaveSession stores a copy of sess, so later changes by the caller are not seen.
func (m *MockStorage) SaveSession(ctx context.Context, sess *state.Session) error {
	if sess == nil {
		return errors.New("session cannot be nil")
	}
	sess.UpdatedAt = time.Now()
	cp := *sess
	cp.Player = *sess.Player.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = cp
	return nil
}

func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*state.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, exists := m.sessions[id]
	if !exists {
		return nil, nil // Return nil for not found
	}
	sess.Player = *sess.Player.Clone()
	return &sess, nil
}

// DeleteSession removes the session and its journal.
func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.journals, id)
	return nil
}

func (m *MockStorage) AppendJournal(ctx context.Context, id uuid.UUID, entries ...state.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.journals[id] = append(m.journals[id], entries...)
	return nil
}

func (m *MockStorage) Journal(ctx context.Context, id uuid.UUID) ([]state.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.journals[id]), nil
}
