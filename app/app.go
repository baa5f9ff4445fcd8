// Package app assembles the panel firmware: HAL, kernel tasks, the fault
// reporter and the boot post-mortem.
package app

import (
	"errors"

	"minipanel/dump"
	"minipanel/fault"
	"minipanel/gui/console"
	"minipanel/gui/display"
	"minipanel/gui/i18n"
	"minipanel/hal"
	"minipanel/internal/buildinfo"
	"minipanel/rtos"
	"minipanel/services/logger"
	"minipanel/services/printer"
	"minipanel/services/ui"
	"minipanel/settings"
	"minipanel/sound"
)

const (
	watchdogMs = 4000
	stepBudget = 64

	// menuTickDiv gives the menus a 20 Hz tick.
	menuTickDiv = 50
)

type Config struct {
	// Console keeps the log console on screen instead of the menus.
	Console bool
	// Language overrides the stored language.
	Language string
	// Debug adds the debug sound mode and the fault test items.
	Debug bool
}

type system struct {
	h   hal.HAL
	k   *rtos.Kernel
	rep *fault.Reporter

	dumps *dump.Store
	log   hal.Logger
}

// New initializes the firmware and runs it on its own goroutine. The
// returned step function is for the host runners.
func New(h hal.HAL, cfg Config) func() error {
	s := newSystem(h, cfg)
	go s.run()
	return func() error { return nil }
}

// Run initializes the firmware and never returns (TinyGo entry point).
func Run(h hal.HAL, cfg Config) {
	s := newSystem(h, cfg)
	s.run()
	select {}
}

func newSystem(h hal.HAL, cfg Config) *system {
	var scr *display.Screen
	if d := h.Display(); d != nil {
		_ = d.Init()
		scr = display.NewScreen(d.Framebuffer())
	}
	con := console.New(scr)
	log := logger.Tee{h.Logger(), con}
	log.WriteLineString("minipanel " + buildinfo.Footer())

	st, err := settings.Open(h.Flash(), dump.SettingsOffset)
	if err != nil {
		log.WriteLineString("settings: " + err.Error() + ", using defaults")
	}
	cur := st.Get()
	lang := cur.Language
	if cfg.Language != "" {
		lang = cfg.Language
	}
	tr := i18n.New(lang)
	log.WriteLineString("lang: " + tr.Code())

	player := sound.New(h.Beeper(), sound.Mode(cur.SoundMode), cur.SoundVolume)
	dumps := newDumpStore(h.Flash())

	arena := rtos.NewArena(rtos.DefaultArenaSize)
	k := rtos.New(arena)

	// The fault screens bypass the console and the logger task.
	rep := fault.New(fault.Config{
		Painter:  painter(scr),
		Display:  h.Display(),
		System:   h.System(),
		Watchdog: h.Watchdog(),
		Button:   hal.FindPin(h.GPIO(), hal.PinEncoderButton),
		Sound:    player,
		Logger:   h.Logger(),
		Memory:   arena,
		Dumps:    dumps,
		Version:  buildinfo.Footer(),
		Language: tr.Code(),
		Tr:       tr.Tr,
	})
	s := &system{h: h, k: k, rep: rep, dumps: dumps, log: h.Logger()}

	k.SetOverflowHook(rep.StackOverflow)
	s.installPanicHandler()

	logEP := k.NewEndpoint(rtos.RightSend | rtos.RightRecv)
	printerEP := k.NewEndpoint(rtos.RightSend | rtos.RightRecv)

	k.AddTask("logger", logger.New(log, logEP.Restrict(rtos.RightRecv)), 64)

	prn := printer.New(printer.Config{
		Serial: h.Serial(),
		Log:    logger.NewClient(logEP),
		OnKill: rep.TempError,
	}, printerEP.Restrict(rtos.RightRecv))
	k.AddTask("printer", prn, 128)

	if cfg.Console {
		log.WriteLineString("console mode, menus disabled")
		return s
	}
	k.AddTask("ui", ui.New(ui.Config{
		Painter:  painter(scr),
		Input:    h.Input(),
		Media:    h.Media(),
		GPIO:     h.GPIO(),
		Sound:    player,
		Settings: st,
		Printer:  printer.NewClient(printerEP, prn.Status()),
		Dumps:    dumps,
		Log:      logger.NewClient(logEP),
		Reset:    h.System().Reset,
		Tr:       tr.Tr,
		Version:  buildinfo.Footer(),
		Debug:    cfg.Debug,
		TickDiv:  menuTickDiv,
	}), 256)
	return s
}

// painter keeps a nil *display.Screen from becoming a non-nil Painter.
func painter(scr *display.Screen) display.Painter {
	if scr == nil {
		return nil
	}
	return scr
}

func newDumpStore(f hal.Flash) *dump.Store {
	if f == nil || f.SizeBytes() <= dump.RegionOffset {
		return dump.NewStore(nil, 0, 0)
	}
	return dump.NewStore(f, dump.RegionOffset, f.SizeBytes()-dump.RegionOffset)
}

// run feeds kernel ticks from the HAL time source and steps the tasks.
func (s *system) run() {
	if err := s.h.Watchdog().Start(watchdogMs); err != nil && !errors.Is(err, hal.ErrNotImplemented) {
		s.log.WriteLineString("wdt: " + err.Error())
	}
	if s.postmortem() {
		// Halt resets on the encoder button. The dump is marked displayed,
		// so the next boot starts normally.
		s.rep.Halt()
	}
	ht := s.h.Time()
	if ht == nil {
		return
	}
	ticks := ht.Ticks()
	if ticks == nil {
		return
	}
	for range ticks {
		s.h.Watchdog().Refresh()
		s.k.Tick()
		for i := 0; i < stepBudget && s.k.Step(); i++ {
		}
	}
}
