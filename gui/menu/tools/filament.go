package tools

import (
	"minipanel/gui/menu"
	"minipanel/settings"
)

// Filament is a preheat preset.
type Filament struct {
	Name     string
	LongName string
	Nozzle   int
	Bed      int
}

// Filaments are the presets offered by the preheat menu, index 0 is none.
var Filaments = [...]Filament{
	{"---", "---", 0, 0},
	{"PLA", "PLA      215/60", 215, 60},
	{"PETG", "PETG     230/85", 230, 85},
	{"ASA", "ASA      260/105", 260, 105},
	{"FLEX", "FLEX     240/50", 240, 50},
}

// PreheatTemp is the nozzle temperature held until the print starts, so
// the filament does not ooze.
const PreheatTemp = 170

// FilamentItem preheats for Filaments[i], remembers the choice and closes
// the screen.
func FilamentItem(d *Deps, i int) *menu.Label {
	f := Filaments[i]
	return menu.NewLabel(f.LongName, func(*menu.Menu) {
		p := d.Printer
		p.Gcode("M86 S1800")
		if PreheatTemp >= f.Nozzle {
			p.Gcodef("M104 S%d", f.Nozzle)
		} else {
			p.Gcodef("M104 S%d D%d", PreheatTemp, f.Nozzle)
		}
		p.Gcodef("M140 S%d", f.Bed)
		d.update(func(s *settings.Settings) { s.LastFilament = uint8(i) })
		if d.Screens != nil {
			d.Screens.Close()
		}
	})
}

// FilamentItems returns an item for every preset but the empty one.
func FilamentItems(d *Deps) []*menu.Label {
	out := make([]*menu.Label, 0, len(Filaments)-1)
	for i := 1; i < len(Filaments); i++ {
		out = append(out, FilamentItem(d, i))
	}
	return out
}

// SensorState is the reading shown by the sensor items.
type SensorState int8

const (
	SensorUnknown SensorState = -1
	SensorLow     SensorState = 0
	SensorHigh    SensorState = 1
)

// Sensor is a read-only spinner following a digital input.
type Sensor struct {
	menu.Spin
	read func() SensorState
}

func newSensor(label string, read func() SensorState) *Sensor {
	s := &Sensor{read: read}
	s.Spin = *menu.NewSpin(label, int(read()), int(SensorUnknown), int(SensorHigh), 1, nil)
	s.Disable()
	return s
}

// StateChanged rereads the input and reports whether the value changed.
func (s *Sensor) StateChanged() bool {
	return s.SetValue(int(s.read()))
}

// FilamentSensorState shows 1 with filament present, 0 without, -1 when the
// sensor cannot be read.
func FilamentSensorState(d *Deps) *Sensor {
	return newSensor(d.tr("Filament sensor"), func() SensorState {
		if d.FilamentSensor == nil {
			return SensorUnknown
		}
		level, err := d.FilamentSensor.Read()
		if err != nil {
			return SensorUnknown
		}
		if level {
			return SensorHigh
		}
		return SensorLow
	})
}

// MINDA shows the probe output: 0 while it sees the bed.
func MINDA(d *Deps) *Sensor {
	return newSensor(d.tr("M.I.N.D.A."), func() SensorState {
		if d.MINDA == nil {
			return SensorUnknown
		}
		level, err := d.MINDA.Read()
		if err != nil {
			return SensorUnknown
		}
		if level {
			return SensorHigh
		}
		return SensorLow
	})
}
