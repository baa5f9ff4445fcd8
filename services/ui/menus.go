package ui

import (
	"minipanel/gui/i18n"
	"minipanel/gui/menu"
	"minipanel/gui/menu/tools"
	"minipanel/proto"
	"minipanel/settings"
)

func (s *Service) settings() settings.Settings {
	if s.cfg.Settings == nil {
		return settings.Defaults()
	}
	return s.cfg.Settings.Get()
}

func (s *Service) returnItem() *menu.Label {
	return menu.NewLabel(s.tr("Return"), func(*menu.Menu) { s.pop() })
}

func (s *Service) openItem(text string, open func() screen) *menu.Label {
	return menu.NewLabel(s.tr(text), func(*menu.Menu) { s.push(open()) })
}

func (s *Service) homeScreen() screen {
	return s.newMenu(s.tr("Home"), menu.Items{
		s.openItem("Settings", s.settingsScreen),
		s.openItem("Calibration", s.calibrationScreen),
		s.openItem("Filament", s.filamentScreen),
		s.openItem("Info", s.infoScreen),
	}, nil)
}

func (s *Service) settingsScreen() screen {
	d := &s.deps
	items := menu.Items{
		tools.Timeout(d),
		tools.SoundMode(d),
		tools.SoundType(d),
		tools.SoundVolume(d),
		tools.SortFiles(d),
		tools.Timezone(d),
		s.languageItem(),
		tools.SaveDump(d),
		tools.EESave(d),
		tools.EESaveText(d),
		tools.FactoryDefaults(d),
	}
	if s.cfg.Debug {
		for _, l := range tools.EELoad(d) {
			items = append(items, l)
		}
		items = append(items, tools.HFTest0(), tools.HFTest1())
	}
	items = append(items, s.returnItem())
	return s.newMenu(s.tr("Settings"), items, nil)
}

// languageItem stores the language. Menus are built with the translator of
// the boot language, so the change shows after a restart.
func (s *Service) languageItem() *menu.Switch {
	tags := i18n.Supported()
	codes := make([]string, len(tags))
	cur := 0
	want := i18n.Match(s.settings().Language)
	for i, t := range tags {
		base, _ := t.Base()
		codes[i] = base.String()
		if t == want {
			cur = i
		}
	}
	var sw *menu.Switch
	sw = menu.NewSwitch(s.tr("Language"), cur, codes, func(int) {
		code := codes[sw.Index()]
		if s.cfg.Settings != nil {
			if err := s.cfg.Settings.Update(func(st *settings.Settings) { st.Language = code }); err != nil {
				s.Message(s.tr("Error saving settings."), nil)
				return
			}
		}
		s.Message(s.tr("The language changes after restart."), nil)
	})
	return sw
}

func (s *Service) calibrationScreen() screen {
	d := &s.deps
	return s.newMenu(s.tr("Calibration"), menu.Items{
		tools.Wizard(d),
		tools.AutoHome(d),
		tools.MeshBed(d),
		tools.SelfTest(d),
		tools.CalibFirst(d),
		tools.LiveAdjustZ(d),
		tools.DisableSteppers(d),
		s.returnItem(),
	}, nil)
}

func (s *Service) filamentScreen() screen {
	d := &s.deps
	var items menu.Items
	for _, l := range tools.FilamentItems(d) {
		items = append(items, l)
	}
	items = append(items, tools.M600(d), s.returnItem())
	sc := s.newMenu(s.tr("Filament"), items, nil)
	if last := int(s.settings().LastFilament); last > 0 && last < len(tools.Filaments) {
		sc.m.SetIndex(last - 1)
	}
	return sc
}

func (s *Service) infoScreen() screen {
	d := &s.deps
	fs := tools.FilamentSensorState(d)
	minda := tools.MINDA(d)
	version := menu.NewLabel(s.cfg.Version, nil)
	version.Disable()
	return s.newMenu(s.tr("Info"), menu.Items{fs, minda, version, s.returnItem()}, func() bool {
		a := fs.StateChanged()
		b := minda.StateChanged()
		return a || b
	})
}

func (s *Service) wizardScreen() screen {
	d := &s.deps
	return s.newMenu(s.tr("Wizard"), menu.Items{
		tools.SelfTest(d),
		tools.CalibFirst(d),
		s.returnItem(),
	}, nil)
}

func (s *Service) selfTestScreen() screen {
	d := &s.deps
	return s.newMenu(s.tr("SelfTest"), menu.Items{
		tools.TestFans(d),
		tools.TestXYZ(d),
		tools.TestHeat(d),
		tools.TestFansFine(d),
		s.returnItem(),
	}, nil)
}

func (s *Service) firstLayerScreen() screen {
	d := &s.deps
	return s.newMenu(s.tr("First Layer Calibration"), menu.Items{
		tools.AutoHome(d),
		tools.MeshBed(d),
		tools.LiveAdjustZ(d),
		s.returnItem(),
	}, nil)
}

// Z offset limits in micrometers.
const (
	zOffsetMin  = -2000
	zOffsetStep = 5
)

func (s *Service) liveAdjustZScreen() screen {
	var sp *menu.Spin
	sp = menu.NewSpin(s.tr("Z offset [um]"), 0, zOffsetMin, 0, zOffsetStep, func(int) {
		s.cfg.Printer.Gcodef("M851 Z%.3f", float64(sp.Val())/1000)
	})
	return s.newMenu(s.tr("Live Adjust Z"), menu.Items{sp, s.returnItem()}, nil)
}

// testScreen follows the running self test and closes when it ends.
func (s *Service) testScreen() screen {
	d := &s.deps
	ticks := 0
	var sc *menuScreen
	sc = s.newMenu(s.tr("SelfTest"), menu.Items{tools.TestAbort(d)}, func() bool {
		ticks++
		if ticks >= waitSettleTicks && s.cfg.Printer.Testing() == proto.TestNone {
			if s.top() == sc {
				s.pop()
			}
		}
		return false
	})
	return sc
}
