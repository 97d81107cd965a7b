//go:build !tinygo

package hal

import (
	"sync"
	"time"
)

type hostClock struct{}

func (hostClock) Now() time.Time        { return time.Now() }
func (hostClock) Sleep(d time.Duration) { time.Sleep(d) }

// virtualClock advances on Sleep instead of waiting, so headless runs and
// tests cover many cycles instantly.
type virtualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newVirtualClock() *virtualClock {
	return &virtualClock{now: time.Unix(0, 0).UTC()}
}

func (c *virtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *virtualClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
