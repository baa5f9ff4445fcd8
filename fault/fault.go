// Package fault renders the terminal error screens: traps, hard faults,
// stack overflows, thermal errors and the general red screen.
//
// Every entry point assumes the rest of the system is broken. Drawing goes
// straight to the Painter, text is laid out in fixed terminal buffers owned
// by the Reporter, and the live fault paths end in a loop that feeds the
// watchdog and resets the panel when the encoder button is pressed.
package fault

import (
	"image/color"
	"unsafe"

	"minipanel/cortexm"
	"minipanel/dump"
	"minipanel/gui/display"
	"minipanel/gui/qr"
	"minipanel/gui/term"
	"minipanel/hal"
	"minipanel/sound"
)

const (
	padding = 10

	trapCols = 20
	trapRows = 16

	hfCols = 32
	hfRows = 21
)

// Config wires a Reporter to the hardware it may still trust.
type Config struct {
	Painter  display.Painter
	Display  hal.Display
	System   hal.System
	Watchdog hal.Watchdog
	// Button is the raw encoder button pin, read without interrupts.
	Button hal.GPIOPin
	Sound  *sound.Player
	Logger hal.Logger

	// Memory is live task memory. TempError copies it into the dump.
	Memory Image
	Dumps  *dump.Store

	// Version is printed in the footer and stored in dumps.
	Version  string
	Language string
	// Tr translates user-facing text. Nil leaves text as is.
	Tr func(string) string
}

// Reporter owns the buffers the fault screens render through.
type Reporter struct {
	cfg Config

	termBuf [hfCols * hfRows]byte
	term    term.Terminal
	code    qr.Code
	url     [96]byte
	line    [64]byte
	aux     [cortexm.AuxCount]cortexm.Register
}

// New returns a Reporter. It should be created at boot so no fault path
// has to allocate it.
func New(cfg Config) *Reporter {
	return &Reporter{cfg: cfg}
}

func (r *Reporter) tr(s string) string {
	if r.cfg.Tr == nil {
		return s
	}
	return r.cfg.Tr(s)
}

// view returns b, a slice of one of the Reporter buffers, as a string
// without copying. It stays valid until that buffer is written again.
func view(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

func (r *Reporter) newTerm(cols, rows int) *term.Terminal {
	r.term.Init(cols, rows, r.termBuf[:])
	return &r.term
}

func (r *Reporter) log(s string) {
	if r.cfg.Logger != nil {
		r.cfg.Logger.WriteLineString(s)
	}
}

func (r *Reporter) logTerm(t *term.Terminal) {
	if r.cfg.Logger == nil {
		return
	}
	for i := 0; i < t.Rows(); i++ {
		if line := t.Line(i); line != "" {
			r.cfg.Logger.WriteLineString(line)
		}
	}
}

func (r *Reporter) disableInterrupts() {
	if r.cfg.System != nil {
		r.cfg.System.DisableInterrupts()
	}
}

// StopCommon puts outputs into a safe state and re-initializes the display
// in safe mode. The first init after a fault is not reliable, so it runs
// twice.
func (r *Reporter) StopCommon() {
	if r.cfg.System != nil {
		r.cfg.System.SafeState()
	}
	if r.cfg.Display != nil {
		r.cfg.Display.SetSafeMode()
	}
	r.cfg.Sound.Stop()
	if r.cfg.Display != nil {
		_ = r.cfg.Display.Init()
		_ = r.cfg.Display.Init()
	}
}

// Halt feeds the watchdog and resets the panel once the encoder button is
// pressed. It never returns.
func (r *Reporter) Halt() {
	for {
		if r.cfg.Watchdog != nil {
			r.cfg.Watchdog.Refresh()
		}
		if hal.ButtonPressed(r.cfg.Button) {
			r.reset()
		}
		if r.cfg.System != nil {
			r.cfg.System.Idle()
		}
	}
}

func (r *Reporter) reset() {
	r.log("fault: reset")
	if r.cfg.System != nil {
		r.cfg.System.Reset()
	}
}

// GeneralError shows title and module on the red screen, plays the critical
// alert and halts.
func (r *Reporter) GeneralError(title, module string) {
	r.disableInterrupts()
	r.StopCommon()
	r.drawGeneralError(title, module)
	r.cfg.Sound.Play(sound.CriticalAlert)
	r.Halt()
}

func (r *Reporter) drawGeneralError(title, module string) {
	p := r.cfg.Painter
	if p == nil {
		return
	}
	w, _ := p.Size()
	p.Clear(display.RedAlert)
	t := r.newTerm(trapCols, trapRows)

	p.DrawText(display.R(padding, padding, uint16(w-2*padding), 22), title, display.FontNormal, display.RedAlert, display.White, 0)
	p.DrawLine(display.Point{X: padding, Y: 30}, display.Point{X: w - 1 - padding, Y: 30}, display.White)

	t.WriteString(module)
	t.WriteChar('\n')
	term.Render(p, t, padding, 100, display.FontNormal, display.RedAlert, display.White)

	p.DrawText(display.R(padding, 260, uint16(w-2*padding), 30), "RESET PRINTER", display.FontNormal, display.White, display.Black, display.AlignCenter)
	p.Present()

	r.log("fault: " + title)
	r.logTerm(t)
}

// GeneralErrorInit is the first half of GeneralError for callers that draw
// their own screen before GeneralErrorRun.
func (r *Reporter) GeneralErrorInit() {
	r.disableInterrupts()
	r.StopCommon()
	r.cfg.Sound.Play(sound.CriticalAlert)
}

// GeneralErrorRun is the halt loop of GeneralError.
func (r *Reporter) GeneralErrorRun() {
	r.Halt()
}

// printFooter draws the firmware version under a terminal screen.
func (r *Reporter) printFooter(f *display.Font, bg color.RGBA) {
	if r.cfg.Painter == nil || r.cfg.Version == "" {
		return
	}
	r.cfg.Painter.DrawText(display.R(padding, 290, 220, 20), r.cfg.Version, f, bg, display.White, 0)
}
