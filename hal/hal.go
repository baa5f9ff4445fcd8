package hal

import (
	"errors"
	"io"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// ErrMediaNotPresent is returned by Media when no drive is inserted.
var ErrMediaNotPresent = errors.New("media: not present")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer and the panel controller.
type Display interface {
	Framebuffer() Framebuffer

	// Init (re)initializes the panel controller. Fault paths call it twice in a row.
	Init() error

	// SetSafeMode switches the driver to blocking transfers without DMA or timers.
	SetSafeMode()
}

// InputKind identifies a control panel input event.
type InputKind uint8

const (
	InputNone InputKind = iota
	InputEncoderUp
	InputEncoderDown
	InputClick
)

func (k InputKind) String() string {
	switch k {
	case InputEncoderUp:
		return "enc_up"
	case InputEncoderDown:
		return "enc_dn"
	case InputClick:
		return "click"
	default:
		return "none"
	}
}

// InputEvent is one encoder step batch or a button click.
type InputEvent struct {
	Kind  InputKind
	Steps int
}

// Input provides encoder and button events (best-effort on each platform).
//
// The event stream is interrupt driven on hardware. Code running with
// interrupts disabled reads the raw button pin via GPIO instead.
type Input interface {
	Events() <-chan InputEvent
}

// Flash provides raw access to non-volatile memory.
//
// It is intentionally low-level: addresses and erase blocks only.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined; higher-level timers live in userland.
type Time interface {
	Ticks() <-chan uint64
}

// Watchdog is the independent hardware watchdog.
type Watchdog interface {
	Start(timeoutMs uint32) error
	Refresh()
}

// Beeper drives the piezo buzzer.
//
// Tone returns immediately; the tone stops on its own after durationMs.
type Beeper interface {
	Tone(freqHz uint32, durationMs uint32, volume uint8)
	Off()
}

// System exposes the few core controls the fault paths need.
//
// None of these may allocate or block on the scheduler.
type System interface {
	DisableInterrupts()
	// SafeState drives heaters, motors and fans inert.
	SafeState()
	// Idle waits a short moment without relying on interrupts.
	Idle()
	Reset()
}

// Serial is the byte link to the motion controller.
type Serial interface {
	io.Reader
	io.Writer
}

// Media is removable storage (the USB drive on the panel).
type Media interface {
	Inserted() bool
	Create(name string) (io.WriteCloser, error)
	Open(name string) (io.ReadCloser, error)
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	GPIO() GPIO
	Display() Display
	Input() Input
	Flash() Flash
	Time() Time
	Watchdog() Watchdog
	Beeper() Beeper
	System() System
	Serial() Serial
	Media() Media
}

// Pin names shared by all platforms.
const (
	PinEncoderButton  = "BTN_ENC"
	PinFilamentSensor = "FSENSOR"
	PinMINDA          = "MINDA"
)

// FindPin returns the first pin with the given name, or nil.
func FindPin(g GPIO, name string) GPIOPin {
	if g == nil {
		return nil
	}
	for i := 0; i < g.PinCount(); i++ {
		p := g.Pin(i)
		if p != nil && p.Name() == name {
			return p
		}
	}
	return nil
}

// ButtonPressed reads a raw active-low button pin.
func ButtonPressed(p GPIOPin) bool {
	if p == nil {
		return false
	}
	level, err := p.Read()
	if err != nil {
		return false
	}
	return !level
}
