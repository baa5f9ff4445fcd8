// Package menu is the scrolling list used by every settings and tools
// screen. It owns the focus index and the scroll offset; items own their
// values.
package menu

import (
	"image/color"

	"minipanel/gui/display"
	"minipanel/sound"
)

// Container is the ordered list of items a menu shows.
type Container interface {
	Count() int
	Item(i int) Item
}

// Items is a Container over a slice.
type Items []Item

func (s Items) Count() int { return len(s) }

func (s Items) Item(i int) Item {
	if i < 0 || i >= len(s) {
		return nil
	}
	return s[i]
}

// Event is an input delivered to the menu.
type Event uint8

const (
	EventClick Event = iota + 1
	EventEncUp
	EventEncDown
	// EventTick drives the label roll of the focused item.
	EventTick
)

func (e Event) String() string {
	switch e {
	case EventClick:
		return "click"
	case EventEncUp:
		return "enc_up"
	case EventEncDown:
		return "enc_dn"
	case EventTick:
		return "tick"
	default:
		return "none"
	}
}

// Style is the look shared by all rows of a menu.
type Style struct {
	Font       *display.Font
	Padding    int16
	Bg, Fg     color.RGBA
	FocusBg    color.RGBA
	FocusFg    color.RGBA
	Disabled   color.RGBA
	SelectedFg color.RGBA
}

// DefaultStyle is white on black with an inverted focus row.
func DefaultStyle() Style {
	return Style{
		Font:       display.FontNormal,
		Padding:    6,
		Bg:         display.Black,
		Fg:         display.White,
		FocusBg:    display.White,
		FocusFg:    display.Black,
		Disabled:   display.Disabled,
		SelectedFg: display.Orange,
	}
}

// Sounder plays navigation cues.
type Sounder interface {
	Play(t sound.Type)
}

type Config struct {
	Painter display.Painter
	Rect    display.Rect
	// Style defaults to DefaultStyle.
	Style *Style
	Sound Sounder
}

type Menu struct {
	p     display.Painter
	rect  display.Rect
	style Style
	sound Sounder

	c     Container
	index int
	top   int

	invalid bool
}

// New returns a menu over c with index focused. An out of range index
// focuses the first item. A hidden index focuses the nearest visible item
// after it, or before it when none follows.
func New(cfg Config, c Container, index int) *Menu {
	m := &Menu{p: cfg.Painter, rect: cfg.Rect, sound: cfg.Sound, c: c}
	if cfg.Style != nil {
		m.style = *cfg.Style
	} else {
		m.style = DefaultStyle()
	}
	m.setIndex(index)
	return m
}

func (m *Menu) setIndex(i int) {
	n := m.Count()
	if i < 0 || i >= n {
		i = 0
	}
	if m.hidden(i) {
		i = m.nearestVisible(i)
	}
	if it := m.Item(i); it != nil {
		it.item().SetFocus()
	}
	m.index = i
	m.scrollTo(i)
}

// nearestVisible returns the first visible index after i, else the last one
// before it, else i.
func (m *Menu) nearestVisible(i int) int {
	for j := i + 1; j < m.Count(); j++ {
		if !m.hidden(j) {
			return j
		}
	}
	for j := i - 1; j >= 0; j-- {
		if !m.hidden(j) {
			return j
		}
	}
	return i
}

// scrollTo moves Top the least needed to bring row i on screen.
func (m *Menu) scrollTo(i int) {
	if i < m.top {
		m.top = i
	}
	if capacity := m.Capacity(); i >= m.top+capacity {
		m.top = i - capacity + 1
	}
}

func (m *Menu) hidden(i int) bool {
	it := m.Item(i)
	return it == nil || it.item().Hidden()
}

// SetIndex moves the focus to i. It fails when i is out of range.
func (m *Menu) SetIndex(i int) bool {
	if i < 0 || i >= m.Count() {
		return false
	}
	if i == m.index {
		return true
	}
	if it := m.Active(); it != nil {
		it.item().ClrFocus()
	}
	if it := m.Item(i); it != nil {
		it.item().SetFocus()
	}
	m.index = i
	m.scrollTo(i)
	return true
}

func (m *Menu) Index() int { return m.index }

// Top is the index of the first row shown.
func (m *Menu) Top() int { return m.top }

func (m *Menu) Rect() display.Rect { return m.rect }

func (m *Menu) Count() int {
	if m.c == nil {
		return 0
	}
	return m.c.Count()
}

func (m *Menu) Item(i int) Item {
	if m.c == nil || i < 0 || i >= m.c.Count() {
		return nil
	}
	return m.c.Item(i)
}

// Active returns the focused item.
func (m *Menu) Active() Item { return m.Item(m.index) }

func (m *Menu) itemHeight() int {
	h := 2 * int(m.style.Padding)
	if m.style.Font != nil {
		h += int(m.style.Font.H)
	}
	if h <= 0 {
		h = 1
	}
	return h
}

// Capacity is the number of rows that fit the menu rectangle, at least one.
func (m *Menu) Capacity() int {
	n := int(m.rect.H) / m.itemHeight()
	if n < 1 {
		n = 1
	}
	return n
}

// Invalidate schedules a full redraw at the end of the current event.
func (m *Menu) Invalidate() { m.invalid = true }

func (m *Menu) play(t sound.Type) {
	if m.sound != nil {
		m.sound.Play(t)
	}
}

// Event dispatches one input and redraws what changed. It reports whether
// anything was drawn.
func (m *Menu) Event(ev Event, value int) bool {
	it := m.Active()
	if it == nil {
		return false
	}
	drawn := false
	switch ev {
	case EventClick:
		it.Click(m)
	case EventEncUp:
		if it.item().Selected() {
			if it.Increment(value) {
				m.invalid = true
			}
		} else {
			m.move(1)
		}
	case EventEncDown:
		if it.item().Selected() {
			if it.Decrement(value) {
				m.invalid = true
			}
		} else {
			m.move(-1)
		}
	case EventTick:
		b := it.item()
		if !b.RollNeedInit() && b.Roll() {
			m.DrawItem(m.index)
			drawn = true
		}
	}
	if m.invalid {
		m.Draw()
		drawn = true
	}
	return drawn
}

// move shifts the focus one visible item in dir, skipping hidden items.
// Running into either end of the container plays the boundary cue and
// leaves the focus where it was.
func (m *Menu) move(dir int) {
	old := m.index
	next := old + dir
	for next >= 0 && next < m.Count() && m.hidden(next) {
		next += dir
	}
	if next < 0 || next >= m.Count() {
		m.play(sound.BlindAlert)
		return
	}

	m.scrollTo(next)
	if next != old {
		m.SetIndex(next)
		m.invalid = true
		m.play(sound.EncoderMove)
	}
}

func (m *Menu) printItem(row int, it Item) {
	if it == nil || m.p == nil {
		return
	}
	h := m.itemHeight()
	y := row * h
	if y >= int(m.rect.H) {
		return
	}
	// a rectangle shorter than one row still shows the focused row, cut
	h = min(h, int(m.rect.H)-y)
	r := display.R(m.rect.X, m.rect.Y+int16(y), m.rect.W, uint16(h))
	if b := it.item(); b.RollNeedInit() {
		b.rollInit(r, &m.style, it.Value())
	}
	it.Print(m.p, r, &m.style)
}

// Draw renders every visible row from Top and clears the rest of the menu
// rectangle.
func (m *Menu) Draw() {
	m.invalid = false
	if m.p == nil {
		return
	}
	capacity := m.Capacity()
	rows := 0
	for i := m.top; rows < capacity && i < m.Count(); i++ {
		it := m.Item(i)
		if it == nil {
			break
		}
		if it.item().Hidden() {
			continue
		}
		m.printItem(rows, it)
		rows++
	}
	used := rows * m.itemHeight()
	if used < int(m.rect.H) {
		rest := display.R(m.rect.X, m.rect.Y+int16(used), m.rect.W, m.rect.H-uint16(used))
		m.p.FillRect(rest, m.style.Bg)
	}
}

// DrawItem redraws the row of item i only, if it is on screen.
func (m *Menu) DrawItem(i int) {
	capacity := m.Capacity()
	rows := 0
	for j := m.top; rows < capacity && j < m.Count(); j++ {
		it := m.Item(j)
		if it == nil {
			return
		}
		if it.item().Hidden() {
			continue
		}
		if j == i {
			m.printItem(rows, it)
			return
		}
		rows++
	}
}
