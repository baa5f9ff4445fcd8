//go:build !tinygo

package hal

import (
	"testing"
	"time"
)

type fakeWall struct{ t time.Time }

func (w *fakeWall) now() time.Time      { return w.t }
func (w *fakeWall) add(d time.Duration) { w.t = w.t.Add(d) }
func newFakeWall() *fakeWall            { return &fakeWall{t: time.Unix(1700000000, 0)} }
func drain(ch <-chan uint64) (last uint64, n int) {
	for {
		select {
		case v := <-ch:
			last, n = v, n+1
		default:
			return last, n
		}
	}
}

func TestHostClockCountsMilliseconds(t *testing.T) {
	w := newFakeWall()
	c := newHostClock(w.now)

	if got := c.advance(); got != 1 {
		t.Fatalf("first advance queued %d", got)
	}
	w.add(2500 * time.Microsecond)
	if got := c.advance(); got != 2 {
		t.Fatalf("2.5ms queued %d", got)
	}
	w.add(600 * time.Microsecond)
	if got := c.advance(); got != 1 {
		t.Fatalf("carry queued %d", got)
	}
	if last, n := drain(c.Ticks()); last != 4 || n != 4 {
		t.Fatalf("ticks last=%d n=%d", last, n)
	}

	w.add(-time.Second)
	if got := c.advance(); got != 0 {
		t.Fatalf("clock step back queued %d", got)
	}
}

func TestHostClockDropsWhenFull(t *testing.T) {
	w := newFakeWall()
	c := newHostClock(w.now)
	c.advance()
	w.add(2 * time.Second)
	if got := c.advance(); got != cap(c.ch)-1 {
		t.Fatalf("queued %d", got)
	}
	last, n := drain(c.Ticks())
	if n != cap(c.ch) || last != uint64(cap(c.ch)) {
		t.Fatalf("last=%d n=%d", last, n)
	}
	w.add(time.Millisecond)
	c.advance()
	if last, _ := drain(c.Ticks()); last != 2002 {
		t.Fatalf("sequence after drop %d", last)
	}
}
