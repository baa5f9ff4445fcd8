//go:build tinygo && (rp2040 || rp2350)

package hal

import (
	"machine"
	"time"
)

// encoderInput polls the quadrature encoder and its push button every
// millisecond and turns edges into events.
type encoderInput struct {
	ch  chan InputEvent
	a   machine.Pin
	b   machine.Pin
	btn machine.Pin
}

func newEncoderInput(a, b, btn machine.Pin) *encoderInput {
	for _, p := range []machine.Pin{a, b, btn} {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	in := &encoderInput{ch: make(chan InputEvent, 16), a: a, b: b, btn: btn}
	go in.run()
	return in
}

func (in *encoderInput) Events() <-chan InputEvent { return in.ch }

func (in *encoderInput) emit(kind InputKind, steps int) {
	select {
	case in.ch <- InputEvent{Kind: kind, Steps: steps}:
	default:
	}
}

func (in *encoderInput) state() uint8 {
	var s uint8
	if in.a.Get() {
		s |= 1
	}
	if in.b.Get() {
		s |= 2
	}
	return s
}

func (in *encoderInput) run() {
	// Gray-code transition table: +1 clockwise, -1 counter-clockwise.
	table := [16]int8{0, -1, 1, 0, 1, 0, 0, -1, -1, 0, 0, 1, 0, 1, -1, 0}

	prev := in.state()
	acc := int8(0)
	btnPrev := true
	debounce := 0

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		cur := in.state()
		if cur != prev {
			acc += table[prev<<2|cur]
			prev = cur
			// Four transitions per detent.
			if acc >= 4 {
				acc = 0
				in.emit(InputEncoderUp, 1)
			} else if acc <= -4 {
				acc = 0
				in.emit(InputEncoderDown, 1)
			}
		}

		if debounce > 0 {
			debounce--
			continue
		}
		level := in.btn.Get()
		if level != btnPrev {
			btnPrev = level
			debounce = 20
			if !level {
				in.emit(InputClick, 0)
			}
		}
	}
}
