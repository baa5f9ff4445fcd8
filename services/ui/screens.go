package ui

import (
	"minipanel/gui/display"
	"minipanel/gui/menu"
)

// menuScreen is a titled menu filling the body. poll runs on every tick;
// returning true redraws the menu.
type menuScreen struct {
	name string
	m    *menu.Menu
	poll func() bool
}

func (s *Service) newMenu(title string, items menu.Items, poll func() bool) *menuScreen {
	cfg := menu.Config{Painter: s.cfg.Painter, Rect: Body}
	if s.cfg.Sound != nil {
		cfg.Sound = s.cfg.Sound
	}
	return &menuScreen{name: title, m: menu.New(cfg, items, 0), poll: poll}
}

func (ms *menuScreen) title() string { return ms.name }

func (ms *menuScreen) draw() { ms.m.Draw() }

func (ms *menuScreen) event(ev menu.Event, value int) bool {
	if ev == menu.EventTick && ms.poll != nil && ms.poll() {
		ms.m.Invalidate()
	}
	return ms.m.Event(ev, value)
}

const (
	boxPadding = 10
	buttonH    = 30
)

// msgBox shows text with one or two buttons. With yes set it is a Yes/No
// question that starts on No.
type msgBox struct {
	s    *Service
	text string
	done func()
	yes  func()

	confirm bool
	onYes   bool
}

func newMsgBox(s *Service, text string, done func()) *msgBox {
	return &msgBox{s: s, text: text, done: done}
}

func newConfirm(s *Service, text string, yes func()) *msgBox {
	return &msgBox{s: s, text: text, yes: yes, confirm: true}
}

func (b *msgBox) title() string {
	if b.confirm {
		return b.s.tr("Question")
	}
	return b.s.tr("Info")
}

func (b *msgBox) draw() {
	p := b.s.cfg.Painter
	if p == nil {
		return
	}
	r := Body
	textRect := display.R(r.X+boxPadding, r.Y+boxPadding, r.W-2*boxPadding, r.H-2*boxPadding-buttonH)
	p.FillRect(r, display.Black)
	p.DrawText(textRect, b.text, display.FontNormal, display.Black, display.White, display.WordBreak|display.AlignHCenter)
	b.drawButtons()
}

func (b *msgBox) drawButtons() {
	p := b.s.cfg.Painter
	if p == nil {
		return
	}
	y := Body.Bottom() - boxPadding - buttonH
	w := Body.W - 2*boxPadding
	if !b.confirm {
		p.DrawText(display.R(boxPadding, y, w, buttonH), b.s.tr("OK"), display.FontNormal, display.White, display.Black, display.AlignCenter)
		return
	}
	half := w / 2
	yesBg, yesFg := display.Black, display.White
	noBg, noFg := display.White, display.Black
	if b.onYes {
		yesBg, yesFg, noBg, noFg = noBg, noFg, yesBg, yesFg
	}
	p.DrawText(display.R(boxPadding, y, half, buttonH), b.s.tr("Yes"), display.FontNormal, yesBg, yesFg, display.AlignCenter)
	p.DrawText(display.R(boxPadding+int16(half), y, w-half, buttonH), b.s.tr("No"), display.FontNormal, noBg, noFg, display.AlignCenter)
}

func (b *msgBox) event(ev menu.Event, value int) bool {
	switch ev {
	case menu.EventClick:
		b.s.pop()
		if b.confirm {
			if b.onYes && b.yes != nil {
				b.yes()
			}
			return false
		}
		if b.done != nil {
			b.done()
		}
	case menu.EventEncUp, menu.EventEncDown:
		if !b.confirm {
			return false
		}
		b.onYes = !b.onYes
		b.drawButtons()
		return true
	}
	return false
}

// waitScreen stays up while busy reports true. It gives the printer task
// a couple of ticks to pick up the command first.
type waitScreen struct {
	s     *Service
	name  string
	text  string
	busy  func() bool
	ticks int
}

const waitSettleTicks = 2

func newWaitScreen(s *Service, title, text string, busy func() bool) *waitScreen {
	return &waitScreen{s: s, name: title, text: text, busy: busy}
}

func (w *waitScreen) title() string { return w.name }

func (w *waitScreen) draw() {
	p := w.s.cfg.Painter
	if p == nil {
		return
	}
	p.FillRect(Body, display.Black)
	p.DrawText(Body, w.text, display.FontNormal, display.Black, display.White, display.AlignCenter|display.WordBreak)
}

func (w *waitScreen) event(ev menu.Event, value int) bool {
	if ev != menu.EventTick {
		return false
	}
	w.ticks++
	if w.ticks >= waitSettleTicks && (w.busy == nil || !w.busy()) {
		w.s.pop()
	}
	return false
}
