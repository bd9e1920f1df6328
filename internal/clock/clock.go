package clock

import (
	"sync"
	"time"
)

// Clock is the single source of time for the fulfillment core. Elapsed-time
// math and periodic re-evaluation go through it so tests can inject a fake.
type Clock interface {
	Now() time.Time
	// Schedule invokes fn every interval until the returned cancel function is
	// called. Cancelling is idempotent.
	Schedule(interval time.Duration, fn func()) (cancel func())
}

// System is a Clock backed by the wall clock and time.Ticker.
type System struct{}

// NewSystem constructs the real clock.
func NewSystem() *System {
	return &System{}
}

func (*System) Now() time.Time {
	return time.Now()
}

func (*System) Schedule(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
