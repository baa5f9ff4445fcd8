//go:build !tinygo

package hal

import (
	"strconv"
	"sync"
	"time"
)

// hostBeeper logs tones until a sound backend is attached by the window runner.
type hostBeeper struct {
	logger Logger

	mu    sync.Mutex
	tone  toneState
	audio bool
}

type toneState struct {
	freq   uint32
	volume uint8
	until  time.Time
}

func newHostBeeper(logger Logger) *hostBeeper {
	return &hostBeeper{logger: logger}
}

func (b *hostBeeper) Tone(freqHz, durationMs uint32, volume uint8) {
	b.mu.Lock()
	b.tone = toneState{
		freq:   freqHz,
		volume: volume,
		until:  time.Now().Add(time.Duration(durationMs) * time.Millisecond),
	}
	audio := b.audio
	b.mu.Unlock()

	if !audio && b.logger != nil {
		b.logger.WriteLineString("beep: " + strconv.FormatUint(uint64(freqHz), 10) + "Hz " +
			strconv.FormatUint(uint64(durationMs), 10) + "ms vol " + strconv.Itoa(int(volume)))
	}
}

func (b *hostBeeper) Off() {
	b.mu.Lock()
	b.tone = toneState{}
	b.mu.Unlock()
}

// current returns the tone that should sound at now, or zero frequency.
func (b *hostBeeper) current(now time.Time) toneState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tone.freq == 0 || now.After(b.tone.until) {
		return toneState{}
	}
	return b.tone
}
