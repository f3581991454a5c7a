package state

import (
	"time"

	"github.com/google/uuid"
)

// Session is the persisted record of one play-through. It carries the
// day counter and player state owned by a game manager so that the outer
// session stores can save and restore a game between requests.
type Session struct {
	ID        uuid.UUID   `json:"id"`
	Locale    string      `json:"locale"`
	Day       int         `json:"day"`
	Chosen    string      `json:"chosen,omitempty"` // option code taken on Day, empty until a choice lands
	Player    PlayerState `json:"player"`
	Ending    string      `json:"ending,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func NewSession(locale string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		Locale:    locale,
		Day:       1,
		Player:    *NewPlayerState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Journal entry kinds.
const (
	EntryIntro      = "intro"
	EntryNarrative  = "narrative"
	EntryResult     = "result"
	EntryTransition = "transition"
	EntryEnding     = "ending"
)

// JournalEntry is one text shown to the player, kept so a client can
// recall what has happened so far.
type JournalEntry struct {
	Day  int       `json:"day"`
	Kind string    `json:"kind"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}
