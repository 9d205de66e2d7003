package game

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// MemorizeTimer runs the countdown that ends the memorize phase. It emits a
// tick once per second for countdown display and a single completion event at
// expiry. Starting it again, or stopping it, cancels any pending ticks and
// completion so a stale timer can never fire into a newer round.
//
// The clock is injected so tests can drive the countdown with quartz's mock.
type MemorizeTimer struct {
	clock quartz.Clock

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewMemorizeTimer creates a timer on the given clock. A nil clock means the
// real one.
func NewMemorizeTimer(clock quartz.Clock) *MemorizeTimer {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &MemorizeTimer{clock: clock}
}

// Start begins a countdown of duration d, replacing any countdown already
// running. onTick receives the whole seconds remaining after each elapsed
// second; onComplete fires exactly once when the full duration has elapsed,
// strictly after the last tick. Either callback may be nil. Durations are
// whole seconds; a fractional remainder is truncated.
func (t *MemorizeTimer) Start(d time.Duration, onTick func(secondsLeft int), onComplete func()) {
	t.Stop()

	t.mu.Lock()
	stop := make(chan struct{})
	done := make(chan struct{})
	t.stop = stop
	t.done = done
	// The ticker is created here, not in the goroutine, so the countdown is
	// fully armed by the time Start returns.
	ticker := t.clock.NewTicker(time.Second)
	t.mu.Unlock()

	go t.run(d, ticker, stop, done, onTick, onComplete)
}

// Stop cancels the countdown and waits for it to wind down; once Stop
// returns, neither callback will fire again. Stopping an idle timer is a
// no-op. Must not be called from within the timer's own callbacks.
func (t *MemorizeTimer) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

func (t *MemorizeTimer) run(d time.Duration, ticker *quartz.Ticker, stop, done chan struct{}, onTick func(int), onComplete func()) {
	defer close(done)
	defer ticker.Stop()

	secondsLeft := int(d / time.Second)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			secondsLeft--
			if secondsLeft <= 0 {
				if onComplete != nil {
					onComplete()
				}
				return
			}
			if onTick != nil {
				onTick(secondsLeft)
			}
		}
	}
}
