// Package ui is the kernel task that owns the panel: the header, the stack
// of menu and message screens on top of it, encoder input and the USB drive
// indicator.
package ui

import (
	"minipanel/dump"
	"minipanel/gui/display"
	"minipanel/gui/header"
	"minipanel/gui/menu"
	"minipanel/gui/menu/tools"
	"minipanel/hal"
	"minipanel/proto"
	"minipanel/rtos"
	"minipanel/services/logger"
	"minipanel/services/printer"
	"minipanel/settings"
	"minipanel/sound"
)

// DefaultTimeoutTicks is 30 s of the 1 ms kernel tick.
const DefaultTimeoutTicks = 30 * 1000

// Body is the screen area below the header.
var Body = display.R(0, int16(header.Rect.H), header.Rect.W, 320-header.Rect.H)

type Config struct {
	Painter  display.Painter
	Input    hal.Input
	Media    hal.Media
	GPIO     hal.GPIO
	Sound    *sound.Player
	Settings *settings.Store
	Printer  *printer.Client
	Dumps    *dump.Store
	Log      *logger.Client

	Reset func()
	Tr    func(string) string
	// Version is shown on the info screen.
	Version string
	Debug   bool
	// TimeoutTicks defaults to DefaultTimeoutTicks.
	TimeoutTicks uint64
	// TickDiv is the number of kernel ticks per menu tick. Zero means 1.
	TickDiv uint64
}

// screen is one entry of the screen stack.
type screen interface {
	title() string
	draw()
	// event handles one input or tick and reports whether it drew.
	event(ev menu.Event, value int) bool
}

type Service struct {
	cfg  Config
	deps tools.Deps
	hdr  *header.Header

	stack   []screen
	changed bool

	timeout   bool
	lastInput uint64
	lastTick  uint64
	mediaIn   bool
	started   bool

	ctx *rtos.Context
}

func New(cfg Config) *Service {
	if cfg.TimeoutTicks == 0 {
		cfg.TimeoutTicks = DefaultTimeoutTicks
	}
	if cfg.TickDiv == 0 {
		cfg.TickDiv = 1
	}
	s := &Service{cfg: cfg}
	s.deps = tools.Deps{
		Printer:  cfg.Printer,
		Settings: cfg.Settings,
		Sound:    cfg.Sound,
		Dumps:    cfg.Dumps,
		Media:    cfg.Media,
		Screens:  s,
		Reset:    cfg.Reset,
		Tr:       cfg.Tr,
		Debug:    cfg.Debug,
	}
	if cfg.GPIO != nil {
		s.deps.FilamentSensor = hal.FindPin(cfg.GPIO, hal.PinFilamentSensor)
		s.deps.MINDA = hal.FindPin(cfg.GPIO, hal.PinMINDA)
	}
	s.timeout = s.settings().MenuTimeout
	s.mediaIn = cfg.Media != nil && cfg.Media.Inserted()
	s.hdr = header.New(cfg.Painter, "", s.mediaIn, nil)
	s.stack = append(s.stack, s.homeScreen())
	return s
}

func (s *Service) tr(text string) string {
	if s.cfg.Tr == nil {
		return text
	}
	return s.cfg.Tr(text)
}

// Depth returns how many screens are open, the home screen included.
func (s *Service) Depth() int { return len(s.stack) }

// Title returns the title of the screen on top.
func (s *Service) Title() string { return s.top().title() }

// Header exposes the title bar.
func (s *Service) Header() *header.Header { return s.hdr }

func (s *Service) top() screen { return s.stack[len(s.stack)-1] }

func (s *Service) push(sc screen) {
	s.stack = append(s.stack, sc)
	s.changed = true
}

func (s *Service) pop() {
	if len(s.stack) <= 1 {
		return
	}
	s.stack[len(s.stack)-1] = nil
	s.stack = s.stack[:len(s.stack)-1]
	s.changed = true
}

// home closes every screen above the home screen.
func (s *Service) home() {
	for len(s.stack) > 1 {
		s.pop()
	}
}

// Open implements tools.Screens.
func (s *Service) Open(id tools.ScreenID) {
	switch id {
	case tools.ScreenWizard:
		s.push(s.wizardScreen())
	case tools.ScreenSelfTest:
		s.push(s.selfTestScreen())
	case tools.ScreenFirstLayer:
		s.push(s.firstLayerScreen())
	case tools.ScreenLiveAdjustZ:
		s.push(s.liveAdjustZScreen())
	case tools.ScreenWait:
		s.push(newWaitScreen(s, s.tr("Please wait"), s.tr("Printer is busy..."), s.cfg.Printer.Busy))
	case tools.ScreenTest:
		s.push(s.testScreen())
	default:
		s.logf("ui: unknown screen %d", id)
	}
}

func (s *Service) Close() { s.pop() }

func (s *Service) MenuTimeout() bool { return s.timeout }

func (s *Service) SetMenuTimeout(on bool) { s.timeout = on }

func (s *Service) Message(text string, done func()) {
	s.push(newMsgBox(s, text, done))
}

func (s *Service) Confirm(text string, yes func()) {
	s.push(newConfirm(s, text, yes))
}

func (s *Service) logf(format string, args ...any) {
	s.cfg.Log.Printf(s.ctx, format, args...)
}

// Draw repaints the header and the screen on top.
func (s *Service) Draw() {
	s.changed = false
	s.hdr.SetText(s.top().title())
	s.hdr.Draw()
	s.top().draw()
	s.present()
}

func (s *Service) present() {
	if s.cfg.Painter != nil {
		s.cfg.Painter.Present()
	}
}

// Step is the UI task body: input, media, ticks and the menu timeout, then
// a redraw when the screen stack changed.
func (s *Service) Step(ctx *rtos.Context) {
	s.ctx = ctx
	s.cfg.Printer.Attach(ctx)
	defer func() {
		s.cfg.Printer.Attach(nil)
		s.ctx = nil
	}()

	now := ctx.NowTick()
	if !s.started {
		s.started = true
		s.lastInput = now
		s.lastTick = now
		s.Draw()
	}

	drawn := s.pollInput(now)
	if s.pollMedia() {
		s.hdr.Draw()
		drawn = true
	}
	if now-s.lastTick >= s.cfg.TickDiv {
		s.lastTick = now
		if s.top().event(menu.EventTick, 0) {
			drawn = true
		}
		if s.timeout && len(s.stack) > 1 && now-s.lastInput >= s.cfg.TimeoutTicks {
			s.logf("ui: menu timeout")
			s.home()
		}
	}

	if s.changed {
		s.Draw()
	} else if drawn {
		s.present()
	}
	ctx.BlockOnTick()
}

func (s *Service) pollInput(now uint64) bool {
	if s.cfg.Input == nil {
		return false
	}
	ch := s.cfg.Input.Events()
	drawn := false
	for {
		select {
		case ev := <-ch:
			if s.input(ev) {
				drawn = true
			}
			s.lastInput = now
		default:
			return drawn
		}
	}
}

func (s *Service) input(ev hal.InputEvent) bool {
	steps := ev.Steps
	if steps <= 0 {
		steps = 1
	}
	switch ev.Kind {
	case hal.InputClick:
		s.cfg.Sound.Play(sound.ButtonEcho)
		return s.dispatch(menu.EventClick, 0)
	case hal.InputEncoderUp:
		return s.dispatch(menu.EventEncUp, steps)
	case hal.InputEncoderDown:
		return s.dispatch(menu.EventEncDown, steps)
	}
	return false
}

// dispatch hands the event to the top screen. A screen opened or closed by
// the event is drawn by Step.
func (s *Service) dispatch(ev menu.Event, value int) bool {
	return s.top().event(ev, value)
}

func (s *Service) pollMedia() bool {
	if s.cfg.Media == nil {
		return false
	}
	in := s.cfg.Media.Inserted()
	if in == s.mediaIn {
		return false
	}
	s.mediaIn = in
	ev := proto.EventMediaRemoved
	if in {
		ev = proto.EventMediaInserted
	}
	s.logf("ui: %s", ev)
	return s.hdr.Event(ev)
}
