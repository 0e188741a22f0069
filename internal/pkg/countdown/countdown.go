package countdown

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultTick = time.Second

// Timer creates countdowns with a fixed tick interval
type Timer struct {
	tick time.Duration
}

func New(tick time.Duration) *Timer {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Timer{tick: tick}
}

// Countdown is a single running countdown. It ticks once per interval with
// the remaining count and expires once after the tick that reports zero.
type Countdown struct {
	stop      chan struct{}
	done      chan struct{}
	once      sync.Once
	cancelled atomic.Bool
}

// Start launches a countdown from seconds. start(5) reports 4,3,2,1,0 and
// then calls onExpire. Both callbacks run on the countdown goroutine.
func (t *Timer) Start(seconds int, onTick func(remaining int), onExpire func()) *Countdown {
	c := &Countdown{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go c.loop(t.tick, seconds, onTick, onExpire)

	return c
}

func (c *Countdown) loop(tick time.Duration, remaining int, onTick func(int), onExpire func()) {
	defer close(c.done)

	if remaining > 0 {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		for remaining > 0 {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
			}

			remaining--
			if c.cancelled.Load() {
				return
			}
			if onTick != nil {
				onTick(remaining)
			}
		}
	}

	if c.cancelled.Load() {
		return
	}
	if onExpire != nil {
		onExpire()
	}
}

// Cancel stops the countdown; onExpire never fires afterwards. Safe to
// call more than once and after expiry.
func (c *Countdown) Cancel() {
	c.cancelled.Store(true)
	c.once.Do(func() {
		close(c.stop)
	})
}

// Done is closed when the countdown goroutine has finished
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

// Run counts down and blocks until expiry or until ctx ends. It returns
// nil on expiry and ctx.Err() when cut short.
func (t *Timer) Run(ctx context.Context, seconds int, onTick func(remaining int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	expired := make(chan struct{})
	c := t.Start(seconds, onTick, func() { close(expired) })

	select {
	case <-expired:
		<-c.Done()
		return nil
	case <-ctx.Done():
		c.Cancel()
		<-c.Done()
		return ctx.Err()
	}
}
