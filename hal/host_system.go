//go:build !tinygo

package hal

import (
	"sync"
	"sync/atomic"
	"time"
)

type hostSystem struct {
	logger *hostLogger
	irqOff atomic.Bool
}

func (s *hostSystem) DisableInterrupts() {
	if s.irqOff.Swap(true) {
		return
	}
	s.logger.WriteLineString("sys: interrupts disabled")
}

func (s *hostSystem) SafeState() {
	s.logger.WriteLineString("hwio: heaters off, steppers disabled, fans full")
}

func (s *hostSystem) Idle() {
	time.Sleep(2 * time.Millisecond)
}

func (s *hostSystem) Reset() {
	s.logger.WriteLineString("sys: reset")
	restartProcess()
}

// hostWatchdog resets the process when Refresh stops arriving.
type hostWatchdog struct {
	logger *hostLogger
	expire func()

	mu      sync.Mutex
	timeout time.Duration
	last    time.Time
	started bool
}

func newHostWatchdog(logger *hostLogger, expire func()) *hostWatchdog {
	return &hostWatchdog{logger: logger, expire: expire}
}

func (w *hostWatchdog) Start(timeoutMs uint32) error {
	if timeoutMs == 0 {
		return ErrNotImplemented
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timeout = time.Duration(timeoutMs) * time.Millisecond
	w.last = time.Now()
	if w.started {
		return nil
	}
	w.started = true
	go w.watch()
	return nil
}

func (w *hostWatchdog) Refresh() {
	w.mu.Lock()
	w.last = time.Now()
	w.mu.Unlock()
}

func (w *hostWatchdog) watch() {
	for {
		w.mu.Lock()
		timeout := w.timeout
		starved := time.Since(w.last) > timeout
		w.mu.Unlock()

		if starved {
			w.logger.WriteLineString("wdt: expired")
			if w.expire != nil {
				w.expire()
			}
			return
		}
		time.Sleep(timeout / 4)
	}
}
