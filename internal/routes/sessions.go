package routes

import (
	"errors"
	"sync"
	"time"
)

var errSessionClosed = errors.New("session already closed")

// closedSessions remembers session token IDs ended by logout or withdraw
// until the tokens would have expired anyway.
type closedSessions struct {
	mu     sync.Mutex
	closed map[string]time.Time
	now    func() time.Time
}

func newClosedSessions() *closedSessions {
	return &closedSessions{
		closed: make(map[string]time.Time),
		now:    time.Now,
	}
}

// close marks tokenID closed until expiresAt. It reports false when the
// token was already closed.
func (c *closedSessions) close(tokenID string, expiresAt time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, exp := range c.closed {
		if !exp.After(now) {
			delete(c.closed, id)
		}
	}
	if _, ok := c.closed[tokenID]; ok {
		return false
	}
	c.closed[tokenID] = expiresAt
	return true
}

func (c *closedSessions) isClosed(tokenID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.closed[tokenID]
	return ok
}
