package menu

import (
	"unicode/utf8"

	"minipanel/gui/display"
)

// Item is a menu row. The set of implementations is closed: Label, Switch
// and Spin, possibly embedded in a larger struct.
type Item interface {
	item() *base

	// Click activates the item or toggles its edit mode.
	Click(m *Menu)
	// Increment and Decrement change the value while in edit mode and
	// report whether it changed.
	Increment(dif int) bool
	Decrement(dif int) bool
	// Value is the text drawn right aligned next to the label.
	Value() string
	Print(p display.Painter, r display.Rect, s *Style)
}

// base holds the state every item shares.
type base struct {
	label    string
	focused  bool
	hidden   bool
	disabled bool
	selected bool
	roll     roll
}

func (b *base) item() *base { return b }

func (b *base) Label() string { return b.label }

func (b *base) SetLabel(s string) {
	b.label = s
	b.roll.reset()
}

func (b *base) Focused() bool { return b.focused }

func (b *base) SetFocus() {
	b.focused = true
	b.roll.reset()
}

func (b *base) ClrFocus() {
	b.focused = false
	b.roll.reset()
}

func (b *base) Hidden() bool { return b.hidden }
func (b *base) Hide()        { b.hidden = true }
func (b *base) Show()        { b.hidden = false }

func (b *base) Enabled() bool { return !b.disabled }
func (b *base) Enable()       { b.disabled = false }
func (b *base) Disable()      { b.disabled = true }

// Selected reports whether the item owns the encoder.
func (b *base) Selected() bool { return b.selected }

// RollNeedInit reports whether the label roll waits for the next draw.
func (b *base) RollNeedInit() bool { return b.roll.state == rollNeedInit }

// print draws the label and value into the row r.
func (b *base) print(p display.Painter, r display.Rect, s *Style, value string) {
	bg, fg := s.Bg, s.Fg
	if b.focused {
		bg, fg = s.FocusBg, s.FocusFg
	}
	if b.disabled {
		fg = s.Disabled
	}
	p.FillRect(r, bg)

	f := s.Font
	if f == nil {
		return
	}
	pad := s.Padding
	inner := int(r.W) - 2*int(pad)
	if inner <= 0 {
		return
	}
	vw := utf8.RuneCountInString(value) * int(f.W)
	if vw > inner {
		vw = inner
	}
	lr := display.R(r.X+pad, r.Y+pad, uint16(inner-vw), uint16(f.H))
	p.DrawText(lr, b.roll.visible(b.label), f, bg, fg, 0)

	if value != "" && vw > 0 {
		vfg := fg
		if b.selected {
			vfg = s.SelectedFg
		}
		vr := display.R(r.Right()-pad-int16(vw), r.Y+pad, uint16(vw), uint16(f.H))
		p.DrawText(vr, value, f, bg, vfg, 0)
	}
}

// rollInit measures the label against the space left by value in row r.
func (b *base) rollInit(r display.Rect, s *Style, value string) {
	cols := 0
	if f := s.Font; f != nil && f.W > 0 {
		w := int(r.W) - 2*int(s.Padding) - utf8.RuneCountInString(value)*int(f.W)
		if w > 0 {
			cols = w / int(f.W)
		}
	}
	b.roll.init(utf8.RuneCountInString(b.label), cols)
}

// Roll advances the label roll by one tick and reports whether the visible
// text changed.
func (b *base) Roll() bool {
	return b.roll.step(utf8.RuneCountInString(b.label))
}

type rollState uint8

const (
	rollNeedInit rollState = iota
	rollIdle
	rollWait
	rollGo
	rollEnd
)

// Ticks spent on the first and last position of a rolling label.
const (
	RollInitialDelay = 8
	RollEndDelay     = 4
)

// roll scrolls a label that does not fit its row, one glyph per tick.
type roll struct {
	state  rollState
	count  uint8
	offset int
	cols   int
}

func (r *roll) reset() {
	r.state = rollNeedInit
	r.offset = 0
}

func (r *roll) init(runes, cols int) {
	r.offset = 0
	r.cols = cols
	if cols <= 0 || runes <= cols {
		r.state = rollIdle
		return
	}
	r.state = rollWait
	r.count = RollInitialDelay
}

func (r *roll) step(runes int) bool {
	switch r.state {
	case rollWait:
		r.count--
		if r.count == 0 {
			r.state = rollGo
		}
	case rollGo:
		r.offset++
		if r.offset+r.cols >= runes {
			r.state = rollEnd
			r.count = RollEndDelay
		}
		return true
	case rollEnd:
		r.count--
		if r.count == 0 {
			r.offset = 0
			r.state = rollWait
			r.count = RollInitialDelay
			return true
		}
	}
	return false
}

func (r *roll) visible(s string) string {
	for n := r.offset; n > 0 && s != ""; n-- {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
	}
	return s
}
