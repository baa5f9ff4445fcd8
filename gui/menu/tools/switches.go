package tools

import (
	"minipanel/gui/menu"
	"minipanel/settings"
	"minipanel/sound"
)

// Timeout switches the return to the home screen after a period without
// input.
func Timeout(d *Deps) *menu.Switch {
	on := d.settings().MenuTimeout
	if d.Screens != nil {
		on = d.Screens.MenuTimeout()
	}
	return menu.NewSwitchOffOn(d.tr("Menu Timeout"), on, func(old int) {
		on := old == 0
		if d.Screens != nil {
			d.Screens.SetMenuTimeout(on)
		}
		d.update(func(s *settings.Settings) { s.MenuTimeout = on })
	})
}

// SoundMode offers Once, Loud, Silent and Assist, plus Debug on debug builds.
func SoundMode(d *Deps) *menu.Switch {
	values := []string{"Once", "Loud", "Silent", "Assist"}
	mode := sound.Default
	if d.Sound != nil {
		mode = d.Sound.Mode()
	}
	if d.Debug {
		values = append(values, "Debug")
	} else if mode > sound.Assist {
		mode = sound.Default
	}
	var sw *menu.Switch
	sw = menu.NewSwitch(d.tr("Sound Mode"), int(mode), d.tableTr(values), func(int) {
		m := sound.Mode(sw.Index())
		if d.Sound != nil {
			d.Sound.SetMode(m)
		}
		d.update(func(s *settings.Settings) { s.SoundMode = uint8(m) })
	})
	return sw
}

// SoundType plays the sound type that was shown before the click. The
// continual types get a prompt beep and a message instead.
func SoundType(d *Deps) *menu.Switch {
	return menu.NewSwitch("Sound Type", 0, sound.Types(), func(old int) {
		st := sound.Type(old)
		if st == sound.StandardPrompt || st == sound.CriticalAlert {
			d.Sound.Play(sound.StandardPrompt)
			d.message("Continual beeps test\n press button to stop", d.Sound.Stop)
			return
		}
		d.Sound.Play(st)
	})
}

// SortFiles toggles the file browser order between time and name.
func SortFiles(d *Deps) *menu.Switch {
	return menu.NewSwitch(d.tr("Sort files by"), int(d.settings().FileSort), d.tableTr([]string{"Time", "Name"}), func(old int) {
		next := settings.SortByTime
		if settings.FileSort(old) == settings.SortByTime {
			next = settings.SortByName
		}
		d.update(func(s *settings.Settings) { s.FileSort = next })
	})
}

// SoundVolume applies and persists the volume when editing ends.
func SoundVolume(d *Deps) *menu.Spin {
	vol := int(d.settings().SoundVolume)
	if d.Sound != nil {
		vol = int(d.Sound.Volume())
	}
	var sp *menu.Spin
	sp = menu.NewSpin(d.tr("Sound Volume"), vol, 0, sound.MaxVolume, 1, func(int) {
		v := uint8(sp.Val())
		if d.Sound != nil {
			d.Sound.SetVolume(v)
		}
		d.update(func(s *settings.Settings) { s.SoundVolume = v })
	})
	return sp
}

// Timezone edits the UTC offset in hours.
func Timezone(d *Deps) *menu.Spin {
	var sp *menu.Spin
	sp = menu.NewSpin("TZ UTC(+/-)", int(d.settings().Timezone), -12, 12, 1, func(int) {
		tz := int8(sp.Val())
		d.update(func(s *settings.Settings) { s.Timezone = tz })
	})
	return sp
}
