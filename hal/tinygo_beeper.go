//go:build tinygo && (rp2040 || rp2350)

package hal

import (
	"machine"
	"time"
)

type pwmDevice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	SetPeriod(period uint64) error
	Top() uint32
	Set(channel uint8, value uint32)
	Enable(enable bool)
}

// pwmBeeper drives the piezo with a square wave whose duty scales with volume.
type pwmBeeper struct {
	pin   machine.Pin
	pwm   pwmDevice
	ch    uint8
	timer *time.Timer
}

func newPWMBeeper(pin machine.Pin) *pwmBeeper {
	pwm := pwmForPin(pin)
	if pwm == nil {
		return &pwmBeeper{pin: pin}
	}
	if err := pwm.Configure(machine.PWMConfig{Period: 1e9 / 4000}); err != nil {
		return &pwmBeeper{pin: pin}
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return &pwmBeeper{pin: pin}
	}
	pwm.Set(ch, 0)
	return &pwmBeeper{pin: pin, pwm: pwm, ch: ch}
}

func pwmForPin(pin machine.Pin) pwmDevice {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil
	}
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return nil
	}
}

func (b *pwmBeeper) Tone(freqHz, durationMs uint32, volume uint8) {
	if b.pwm == nil || freqHz == 0 {
		return
	}
	if volume > 10 {
		volume = 10
	}
	if err := b.pwm.SetPeriod(uint64(1e9 / freqHz)); err != nil {
		return
	}
	// Half duty is the loudest a piezo gets.
	b.pwm.Set(b.ch, b.pwm.Top()/2*uint32(volume)/10)
	b.pwm.Enable(true)

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(time.Duration(durationMs)*time.Millisecond, b.Off)
}

func (b *pwmBeeper) Off() {
	if b.pwm == nil {
		return
	}
	b.pwm.Set(b.ch, 0)
}
