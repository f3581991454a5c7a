package handlers

import (
	"sync"

	"github.com/google/uuid"
)

// gameLocks serialises the load-modify-save cycle of a single game. Entries
// are dropped once no request holds or waits for them.
type gameLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

func newGameLocks() *gameLocks {
	return &gameLocks{locks: make(map[uuid.UUID]*gameLock)}
}

// lock blocks until the caller owns id and returns the matching unlock.
func (g *gameLocks) lock(id uuid.UUID) func() {
	g.mu.Lock()
	l, ok := g.locks[id]
	if !ok {
		l = &gameLock{}
		g.locks[id] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		g.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(g.locks, id)
		}
		g.mu.Unlock()
	}
}

// held returns how many games currently have a lock entry.
func (g *gameLocks) held() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}
