package test

import (
	"sync"
	"time"
)

// FakeClock is a manually driven clock for deterministic elapsed-time tests.
type FakeClock struct {
	mu        sync.Mutex
	now       time.Time
	schedules map[int]func()
	nextID    int
}

// NewFakeClock constructs a fake clock positioned at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start, schedules: make(map[int]func())}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the fake time forward.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Schedule registers fn to run on each Tick until cancelled.
func (c *FakeClock) Schedule(interval time.Duration, fn func()) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.schedules[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.schedules, id)
			c.mu.Unlock()
		})
	}
}

// Tick synchronously fires every registered schedule once.
func (c *FakeClock) Tick() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.schedules))
	for _, fn := range c.schedules {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ScheduleCount reports how many schedules are currently registered.
func (c *FakeClock) ScheduleCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.schedules)
}
