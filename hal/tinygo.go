//go:build tinygo && (rp2040 || rp2350)

package hal

import (
	"machine"
)

// Board wiring for the panel carrier.
const (
	pinUARTTX = machine.GP0
	pinUARTRX = machine.GP1
	pinBeeper = machine.GP2

	pinHeaterNozzle = machine.GP3
	pinHeaterBed    = machine.GP4
	pinStepperEn    = machine.GP5 // active low

	pinEncA   = machine.GP6
	pinEncB   = machine.GP7
	pinEncBtn = machine.GP8

	pinFSensor = machine.GP9
	pinMINDA   = machine.GP10

	pinLCDDC  = machine.GP16
	pinLCDCS  = machine.GP17
	pinLCDSCK = machine.GP18
	pinLCDSDO = machine.GP19
	pinLCDRST = machine.GP20
	pinLCDBL  = machine.GP21
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	gpio   GPIO
	disp   *st7789Display
	input  *encoderInput
	t      *tinyGoTime
	flash  Flash
	wdt    *tinyGoWatchdog
	beeper *pwmBeeper
	sys    *tinyGoSystem
	serial Serial
}

// New returns the panel HAL for the RP2040/RP2350 board.
//
// UART0 on GP0 (TX) / GP1 (RX), 115200 8N1, carries both the log and the
// link to the motion controller.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       pinUARTTX,
		RX:       pinUARTRX,
	})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &pinLED{pin: ledPin}

	btn := newMachinePin(PinEncoderButton, pinEncBtn, true)
	pins := []GPIOPin{
		newLEDPin("LED", led),
		btn,
		newMachinePin(PinFilamentSensor, pinFSensor, true),
		newMachinePin(PinMINDA, pinMINDA, false),
	}

	logger := &uartLogger{uart: uart}
	return &tinyGoHAL{
		logger: logger,
		led:    led,
		gpio:   newVirtualGPIO(pins),
		disp:   newST7789Display(logger),
		input:  newEncoderInput(pinEncA, pinEncB, pinEncBtn),
		t:      newTinyGoTime(),
		flash:  newRP2Flash(),
		wdt:    &tinyGoWatchdog{},
		beeper: newPWMBeeper(pinBeeper),
		sys:    newTinyGoSystem(),
		serial: &uartSerial{uart: uart},
	}
}

func (h *tinyGoHAL) Logger() Logger     { return h.logger }
func (h *tinyGoHAL) LED() LED           { return h.led }
func (h *tinyGoHAL) GPIO() GPIO         { return h.gpio }
func (h *tinyGoHAL) Display() Display   { return h.disp }
func (h *tinyGoHAL) Input() Input       { return h.input }
func (h *tinyGoHAL) Flash() Flash       { return h.flash }
func (h *tinyGoHAL) Time() Time         { return h.t }
func (h *tinyGoHAL) Watchdog() Watchdog { return h.wdt }
func (h *tinyGoHAL) Beeper() Beeper     { return h.beeper }
func (h *tinyGoHAL) System() System     { return h.sys }
func (h *tinyGoHAL) Serial() Serial     { return h.serial }
func (h *tinyGoHAL) Media() Media       { return noMedia{} }
