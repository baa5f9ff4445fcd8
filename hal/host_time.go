//go:build !tinygo

package hal

import "time"

// panelTick is the firmware's SysTick period.
const panelTick = time.Millisecond

// hostClock turns wall time into the panel's 1 ms tick stream. The window
// and headless loops call advance once per frame. Ticks that do not fit the
// channel are dropped, as a busy panel misses SysTick wakeups.
type hostClock struct {
	ch  chan uint64
	seq uint64
	now func() time.Time

	prev time.Time
	rem  time.Duration
}

func newHostClock(now func() time.Time) *hostClock {
	if now == nil {
		now = time.Now
	}
	return &hostClock{ch: make(chan uint64, 1024), now: now}
}

func (c *hostClock) Ticks() <-chan uint64 { return c.ch }

// advance queues one tick per whole millisecond since the last call and
// returns how many were queued. The first call queues one tick so the
// firmware starts without waiting a frame.
func (c *hostClock) advance() int {
	t := c.now()
	if c.prev.IsZero() {
		c.prev = t
		return c.emit(1)
	}
	c.rem += t.Sub(c.prev)
	c.prev = t
	if c.rem < 0 {
		// wall clock stepped back
		c.rem = 0
	}
	n := c.rem / panelTick
	c.rem -= n * panelTick
	return c.emit(int(n))
}

func (c *hostClock) emit(n int) int {
	sent := 0
	for range n {
		c.seq++
		select {
		case c.ch <- c.seq:
			sent++
		default:
		}
	}
	return sent
}
