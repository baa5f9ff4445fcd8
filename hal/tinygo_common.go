//go:build tinygo && (rp2040 || rp2350)

package hal

import (
	"device/arm"
	"io"
	"machine"
	"runtime/interrupt"
	"time"
)

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

// uartLogger writes straight to the UART so it keeps working with
// interrupts disabled.
type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

type uartSerial struct {
	uart *machine.UART
}

func (s *uartSerial) Read(p []byte) (int, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	return s.uart.Read(p)
}

func (s *uartSerial) Write(p []byte) (int, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	return s.uart.Write(p)
}

// machinePin exposes a board input through the GPIO interface.
type machinePin struct {
	name string
	pin  machine.Pin
	caps GPIOCaps
}

func newMachinePin(name string, pin machine.Pin, pullUp bool) *machinePin {
	p := &machinePin{name: name, pin: pin, caps: GPIOCapInput | GPIOCapPullUp | GPIOCapPullDown}
	pull := GPIOPullNone
	if pullUp {
		pull = GPIOPullUp
	}
	_ = p.Configure(GPIOModeInput, pull)
	return p
}

func (p *machinePin) Name() string   { return p.name }
func (p *machinePin) Caps() GPIOCaps { return p.caps }

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeInput {
		return ErrNotImplemented
	}
	m := machine.PinInput
	switch pull {
	case GPIOPullUp:
		m = machine.PinInputPullup
	case GPIOPullDown:
		m = machine.PinInputPulldown
	}
	p.pin.Configure(machine.PinConfig{Mode: m})
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }
func (p *machinePin) Write(bool) error    { return ErrNotImplemented }

type tinyGoWatchdog struct{}

func (tinyGoWatchdog) Start(timeoutMs uint32) error {
	machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: timeoutMs})
	return machine.Watchdog.Start()
}

func (tinyGoWatchdog) Refresh() { machine.Watchdog.Update() }

type tinyGoSystem struct{}

func newTinyGoSystem() *tinyGoSystem {
	for _, p := range []machine.Pin{pinHeaterNozzle, pinHeaterBed} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	pinStepperEn.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &tinyGoSystem{}
}

func (*tinyGoSystem) DisableInterrupts() { interrupt.Disable() }

func (*tinyGoSystem) SafeState() {
	pinHeaterNozzle.Low()
	pinHeaterBed.Low()
	pinStepperEn.High()
}

// Idle spins for roughly a millisecond; timers may be dead here.
func (*tinyGoSystem) Idle() {
	for i := 0; i < 20000; i++ {
		arm.Asm("nop")
	}
}

func (*tinyGoSystem) Reset() { arm.SystemReset() }

type noMedia struct{}

func (noMedia) Inserted() bool { return false }

func (noMedia) Create(string) (io.WriteCloser, error) { return nil, ErrMediaNotPresent }
func (noMedia) Open(string) (io.ReadCloser, error)    { return nil, ErrMediaNotPresent }
