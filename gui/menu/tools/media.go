package tools

import (
	"errors"
	"fmt"

	"minipanel/gui/menu"
	"minipanel/hal"
)

var errNoDumpStore = errors.New("tools: no dump store")

func saveDump(d *Deps) error {
	if d.Dumps == nil {
		return errNoDumpStore
	}
	if d.Media == nil || !d.Media.Inserted() {
		return hal.ErrMediaNotPresent
	}
	snap, err := d.Dumps.Open()
	if err != nil {
		return err
	}
	w, err := d.Media.Create(DumpFile)
	if err != nil {
		return err
	}
	if _, err := snap.WriteTo(w); err != nil {
		_ = w.Close()
		return fmt.Errorf("save dump: %w", err)
	}
	return w.Close()
}

// Settings images on the USB drive. The versioned names are the images the
// service team hands out for known firmware releases.
const (
	SettingsFile     = "eeprom.bin"
	SettingsYAMLFile = "eeprom.yaml"
)

var settingsImages = [...]struct{ label, file string }{
	{"EE 4.0.0", "eeprom/eeprom_MINI-4.0.0-final+1965.bin"},
	{"EE 4.0.1", "eeprom/eeprom_MINI-4.0.1-final+1974.bin"},
	{"EE 4.0.2", "eeprom/eeprom_MINI-4.0.2-final+1977.bin"},
	{"EE 4.0.3-RC1", "eeprom/eeprom_MINI-4.0.3-RC1+246.bin"},
	{"EE 4.0.3", "eeprom/eeprom_MINI-4.0.3-final+258.bin"},
	{"EE load", SettingsFile},
}

func loadSettings(d *Deps, name string) error {
	if d.Settings == nil || d.Media == nil {
		return hal.ErrNotImplemented
	}
	if !d.Media.Inserted() {
		return hal.ErrMediaNotPresent
	}
	r, err := d.Media.Open(name)
	if err != nil {
		return err
	}
	defer r.Close()
	return d.Settings.ReadBinary(r)
}

func saveSettings(d *Deps, name string, yaml bool) error {
	if d.Settings == nil || d.Media == nil {
		return hal.ErrNotImplemented
	}
	if !d.Media.Inserted() {
		return hal.ErrMediaNotPresent
	}
	w, err := d.Media.Create(name)
	if err != nil {
		return err
	}
	if yaml {
		err = d.Settings.ExportYAML(w)
	} else {
		err = d.Settings.WriteBinary(w)
	}
	if err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// EELoad returns the debug items that load a settings image from the USB
// drive and restart. Labels are not translated.
func EELoad(d *Deps) []*menu.Label {
	out := make([]*menu.Label, 0, len(settingsImages))
	for _, img := range settingsImages {
		file := img.file
		out = append(out, menu.NewLabel(img.label, func(*menu.Menu) {
			if err := loadSettings(d, file); err != nil {
				d.message("Error loading settings from the USB drive.", nil)
				return
			}
			d.reset()
		}))
	}
	return out
}

func EESave(d *Deps) *menu.Label {
	return menu.NewLabel("EE save", func(*menu.Menu) {
		if err := saveSettings(d, SettingsFile, false); err != nil {
			d.message("Error saving settings to the USB drive.", nil)
		}
	})
}

// EESaveText writes the settings as YAML for reading on a computer.
func EESaveText(d *Deps) *menu.Label {
	return menu.NewLabel("EE save yaml", func(*menu.Menu) {
		if err := saveSettings(d, SettingsYAMLFile, true); err != nil {
			d.message("Error saving settings to the USB drive.", nil)
		}
	})
}
