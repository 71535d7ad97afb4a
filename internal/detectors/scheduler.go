package detectors

import (
	"sync"
	"time"
)

// Handle cancels a scheduled periodic callback. Stop is idempotent and safe
// to call from any goroutine; after it returns no further ticks fire.
type Handle struct {
	stop chan struct{}
	once sync.Once
}

// Stop cancels the schedule.
func (h *Handle) Stop() {
	h.once.Do(func() { close(h.stop) })
}

// Every runs fn on a fixed interval until the returned handle is stopped.
// The interval is expected to be seconds-scale; polling detectors must stay
// on bounded timers, never tight loops.
func Every(interval time.Duration, fn func()) *Handle {
	h := &Handle{stop: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				fn()
			case <-h.stop:
				return
			}
		}
	}()
	return h
}
