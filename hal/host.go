//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const (
	hostDisplayWidth  = 240
	hostDisplayHeight = 320
)

// HostConfig selects the host-side backing files.
type HostConfig struct {
	// FlashPath is the flash image file. Empty uses PANEL_FLASH_PATH or panel.flash.
	FlashPath string
	// USBDir is the directory standing in for the USB drive. Empty means no drive.
	USBDir string
}

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	gpio   GPIO
	button *virtualPin
	fsens  *virtualPin
	fb     *hostFramebuffer
	disp   *hostDisplay
	input  *hostInput
	t      *hostClock
	flash  *hostFlash
	wdt    *hostWatchdog
	beeper *hostBeeper
	sys    *hostSystem
	serial *hostMotion
	media  *hostMedia
}

// New returns a host HAL implementation.
func New(cfg HostConfig) HAL {
	return newHost(cfg)
}

func newHost(cfg HostConfig) *hostHAL {
	logger := &hostLogger{w: os.Stdout}
	led := &hostLED{logger: logger}

	button := newVirtualPin(PinEncoderButton, GPIOCapInput|GPIOCapPullUp, GPIOPullUp)
	fsens := newVirtualPin(PinFilamentSensor, GPIOCapInput|GPIOCapPullUp, GPIOPullUp)
	pins := []GPIOPin{
		newLEDPin("LED", led),
		button,
		fsens,
		// Stand-in for the inductive probe: a short pulse every two seconds.
		newSignalPin(PinMINDA, 2*time.Second, 300*time.Millisecond),
	}

	fb := newHostFramebuffer(hostDisplayWidth, hostDisplayHeight)
	sys := &hostSystem{logger: logger}
	motion := newHostMotion()
	return &hostHAL{
		logger: logger,
		led:    led,
		gpio:   newVirtualGPIO(pins),
		button: button,
		fsens:  fsens,
		fb:     fb,
		disp:   &hostDisplay{fb: fb, logger: logger},
		input:  newHostInput(button, fsens, motion),
		t:      newHostClock(nil),
		flash:  newHostFlash(cfg.FlashPath),
		wdt:    newHostWatchdog(logger, sys.Reset),
		beeper: newHostBeeper(logger),
		sys:    sys,
		serial: motion,
		media:  &hostMedia{dir: cfg.USBDir},
	}
}

func (h *hostHAL) Logger() Logger     { return h.logger }
func (h *hostHAL) LED() LED           { return h.led }
func (h *hostHAL) GPIO() GPIO         { return h.gpio }
func (h *hostHAL) Display() Display   { return h.disp }
func (h *hostHAL) Input() Input       { return h.input }
func (h *hostHAL) Flash() Flash       { return h.flash }
func (h *hostHAL) Time() Time         { return h.t }
func (h *hostHAL) Watchdog() Watchdog { return h.wdt }
func (h *hostHAL) Beeper() Beeper     { return h.beeper }
func (h *hostHAL) System() System     { return h.sys }
func (h *hostHAL) Serial() Serial     { return h.serial }
func (h *hostHAL) Media() Media       { return h.media }

type hostDisplay struct {
	fb     *hostFramebuffer
	logger *hostLogger

	mu    sync.Mutex
	safe  bool
	inits int
}

func (d *hostDisplay) Framebuffer() Framebuffer { return d.fb }

func (d *hostDisplay) Init() error {
	d.mu.Lock()
	d.inits++
	d.mu.Unlock()
	return nil
}

func (d *hostDisplay) SetSafeMode() {
	d.mu.Lock()
	d.safe = true
	d.mu.Unlock()
	d.logger.WriteLineString("display: safe mode")
}

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
	l.logger.WriteLineString("led: HIGH")
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
	l.logger.WriteLineString("led: LOW")
}
