package service

import (
	"sync"

	"github.com/google/uuid"
)

// cardLocks serializes transitions per card so two racing updates cannot
// both read the same stage and both win
type cardLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newCardLocks() *cardLocks {
	return &cardLocks{locks: map[uuid.UUID]*sync.Mutex{}}
}

// acquire locks the mutex for id and returns its unlock func
func (c *cardLocks) acquire(id uuid.UUID) func() {
	c.mu.Lock()
	l, ok := c.locks[id]
	if !ok {
		l = &sync.Mutex{}
		c.locks[id] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}
