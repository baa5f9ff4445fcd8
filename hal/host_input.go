//go:build !tinygo

package hal

// hostInput turns window keys into encoder events and drives the virtual
// button and filament sensor pins.
type hostInput struct {
	ch     chan InputEvent
	button *virtualPin
	fsens  *virtualPin
	fsOut  bool
	motion *hostMotion
}

func newHostInput(button, fsens *virtualPin, motion *hostMotion) *hostInput {
	return &hostInput{ch: make(chan InputEvent, 64), button: button, fsens: fsens, motion: motion}
}

func (in *hostInput) Events() <-chan InputEvent { return in.ch }

func (in *hostInput) emit(kind InputKind, steps int) {
	select {
	case in.ch <- InputEvent{Kind: kind, Steps: steps}:
	default:
	}
}

func (in *hostInput) setButton(pressed bool) {
	if in.button == nil {
		return
	}
	if pressed {
		in.button.drive(false)
		return
	}
	in.button.release()
}

// toggleFilament flips the filament sensor between present (high) and runout (low).
func (in *hostInput) toggleFilament() {
	if in.fsens == nil {
		return
	}
	in.fsOut = !in.fsOut
	if in.fsOut {
		in.fsens.drive(false)
		return
	}
	in.fsens.release()
}

// thermalRunaway asks the simulated controller to halt with a thermal error.
func (in *hostInput) thermalRunaway() {
	if in.motion != nil {
		in.motion.thermalRunaway()
	}
}
