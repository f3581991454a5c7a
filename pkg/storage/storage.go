package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/fifteen-days/pkg/state"
)

// Storage defines the session persistence used by the HTTP front door.
// The core engine itself never persists anything.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session operations. LoadSession returns nil, nil when the id is unknown.
	SaveSession(ctx context.Context, sess *state.Session) error
	LoadSession(ctx context.Context, id uuid.UUID) (*state.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// Journal operations. Entries come back in append order.
	AppendJournal(ctx context.Context, id uuid.UUID, entries ...state.JournalEntry) error
	Journal(ctx context.Context, id uuid.UUID) ([]state.JournalEntry, error)
}
