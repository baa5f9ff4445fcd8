// Package tools holds the concrete menu items of the settings, calibration
// and filament screens. Everything an item touches comes in through Deps.
package tools

import (
	"minipanel/dump"
	"minipanel/gui/menu"
	"minipanel/hal"
	"minipanel/services/printer"
	"minipanel/settings"
	"minipanel/sound"
)

// ScreenID names a screen the items can open.
type ScreenID uint8

const (
	ScreenWizard ScreenID = iota + 1
	ScreenSelfTest
	ScreenFirstLayer
	ScreenLiveAdjustZ
	// ScreenWait shows a busy box until the printer queue drains.
	ScreenWait
	// ScreenTest follows a running self test until it ends.
	ScreenTest
)

func (id ScreenID) String() string {
	switch id {
	case ScreenWizard:
		return "wizard"
	case ScreenSelfTest:
		return "selftest"
	case ScreenFirstLayer:
		return "first_layer"
	case ScreenLiveAdjustZ:
		return "live_adjust_z"
	case ScreenWait:
		return "wait"
	case ScreenTest:
		return "test"
	default:
		return "unknown"
	}
}

// Screens is the screen stack the items drive.
type Screens interface {
	Open(id ScreenID)
	// Close closes the screen on top.
	Close()
	MenuTimeout() bool
	SetMenuTimeout(on bool)
	// Message shows text until clicked, then runs done if not nil.
	Message(text string, done func())
	// Confirm asks a yes/no question and runs yes on Yes.
	Confirm(text string, yes func())
}

// Deps is the explicit context of every item. Nil members disable the
// actions that need them.
type Deps struct {
	Printer  *printer.Client
	Settings *settings.Store
	Sound    *sound.Player
	Dumps    *dump.Store
	Media    hal.Media
	Screens  Screens

	FilamentSensor hal.GPIOPin
	MINDA          hal.GPIOPin

	Reset func()
	Tr    func(string) string
	// Debug adds the Debug sound mode.
	Debug bool
}

func (d *Deps) tr(s string) string {
	if d.Tr == nil {
		return s
	}
	return d.Tr(s)
}

func (d *Deps) open(id ScreenID) {
	if d.Screens != nil {
		d.Screens.Open(id)
	}
}

func (d *Deps) message(text string, done func()) {
	if d.Screens == nil {
		if done != nil {
			done()
		}
		return
	}
	d.Screens.Message(d.tr(text), done)
}

func (d *Deps) reset() {
	if d.Reset != nil {
		d.Reset()
	}
}

func (d *Deps) settings() settings.Settings {
	if d.Settings == nil {
		return settings.Defaults()
	}
	return d.Settings.Get()
}

func (d *Deps) update(fn func(s *settings.Settings)) {
	if d.Settings == nil {
		return
	}
	if err := d.Settings.Update(fn); err != nil {
		d.message("Error saving settings.", nil)
	}
}

func (d *Deps) label(text string, action func()) *menu.Label {
	return menu.NewLabel(d.tr(text), func(*menu.Menu) { action() })
}

func (d *Deps) tableTr(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = d.tr(v)
	}
	return out
}
