package habit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ViewCache keeps one View per login session so month navigation and the
// last good totals survive between requests. Every Get restarts the
// entry's TTL, so only sessions idle for longer than the TTL age out.
type ViewCache struct {
	mu    sync.Mutex
	views *expirable.LRU[int64, *View]
}

func NewViewCache(size int, ttl time.Duration) *ViewCache {
	return &ViewCache{views: expirable.NewLRU[int64, *View](size, nil, ttl)}
}

// Get returns the session's view, opening a new one on now if the session
// has none or the cached view belongs to a different user.
func (c *ViewCache) Get(sessionID, userID int64, now time.Time) *View {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.views.Get(sessionID); ok && v.UserID() == userID {
		// expirable.LRU.Get leaves the expiry alone; re-adding resets it.
		c.views.Add(sessionID, v)
		return v
	}
	v := NewView(userID, now)
	c.views.Add(sessionID, v)
	return v
}

// Remove forgets the session's view, e.g. on logout.
func (c *ViewCache) Remove(sessionID int64) {
	c.views.Remove(sessionID)
}

func (c *ViewCache) Len() int {
	return c.views.Len()
}
