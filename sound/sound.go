// Package sound plays the panel's beeps through the buzzer.
package sound

import "minipanel/hal"

// Mode selects which sounds are audible.
type Mode uint8

const (
	Once Mode = iota
	Loud
	Silent
	Assist
	Debug

	Default = Once
)

func (m Mode) String() string {
	switch m {
	case Once:
		return "Once"
	case Loud:
		return "Loud"
	case Silent:
		return "Silent"
	case Assist:
		return "Assist"
	case Debug:
		return "Debug"
	default:
		return "unknown"
	}
}

// Type is a sound event.
type Type uint8

const (
	ButtonEcho Type = iota
	StandardPrompt
	StandardAlert
	CriticalAlert
	EncoderMove
	BlindAlert
	Start
	SingleBeep

	typeCount
)

var typeNames = [typeCount]string{
	"ButtonEcho",
	"StandardPrompt",
	"StandardAlert",
	"CriticalAlert",
	"EncoderMove",
	"BlindAlert",
	"Start",
	"SingleBeep",
}

func (t Type) String() string {
	if t >= typeCount {
		return "unknown"
	}
	return typeNames[t]
}

// Types returns the names of all sound types in declaration order.
func Types() []string { return typeNames[:] }

type tone struct {
	freq uint32
	ms   uint32
}

var tones = [typeCount]tone{
	ButtonEcho:     {900, 20},
	StandardPrompt: {600, 200},
	StandardAlert:  {950, 200},
	CriticalAlert:  {500, 500},
	EncoderMove:    {1000, 8},
	BlindAlert:     {400, 40},
	Start:          {700, 150},
	SingleBeep:     {800, 60},
}

// MaxVolume is the top of the volume range.
const MaxVolume = 10

// Player gates sound types by mode and drives a hal.Beeper.
type Player struct {
	beeper hal.Beeper
	mode   Mode
	volume uint8
}

// New returns a player. A nil beeper makes every Play a no-op.
func New(b hal.Beeper, mode Mode, volume uint8) *Player {
	p := &Player{beeper: b}
	p.SetMode(mode)
	p.SetVolume(volume)
	return p
}

func (p *Player) Mode() Mode { return p.mode }

// SetMode changes the mode; unknown modes fall back to Default.
func (p *Player) SetMode(m Mode) {
	if m > Debug {
		m = Default
	}
	p.mode = m
}

func (p *Player) Volume() uint8 { return p.volume }

func (p *Player) SetVolume(v uint8) {
	if v > MaxVolume {
		v = MaxVolume
	}
	p.volume = v
}

// Audible reports whether t plays in the current mode.
func (p *Player) Audible(t Type) bool {
	if t >= typeCount {
		return false
	}
	if t == CriticalAlert {
		return true
	}
	switch p.mode {
	case Silent:
		return false
	case Assist, Debug:
		return true
	default:
		return t != EncoderMove && t != BlindAlert
	}
}

// Play starts t if the mode allows it. It never blocks.
func (p *Player) Play(t Type) {
	if p == nil || p.beeper == nil || !p.Audible(t) {
		return
	}
	tn := tones[t]
	vol := p.volume
	ms := tn.ms
	if p.mode == Loud && (t == StandardPrompt || t == StandardAlert) {
		ms *= 3
	}
	if t == CriticalAlert {
		vol = MaxVolume
	}
	p.beeper.Tone(tn.freq, ms, vol)
}

// Stop silences the buzzer.
func (p *Player) Stop() {
	if p == nil || p.beeper == nil {
		return
	}
	p.beeper.Off()
}
