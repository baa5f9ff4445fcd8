// Package console is the scrolling text console shown while the panel boots
// and in place of the menus when the host runs with -console.
package console

import (
	"image/color"

	"minipanel/gui/display"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

const (
	fontHeight = 12
	fontOffset = 9
)

type Console struct {
	s *display.Screen
	v *view
	t *tinyterm.Terminal

	lines int
	buf   [130]byte
}

// New returns a console drawing on s, or nil when s is nil.
func New(s *display.Screen) *Console {
	if s == nil {
		return nil
	}
	c := &Console{s: s, v: newView(s)}
	c.Clear()
	return c
}

// Clear blanks the screen and homes the cursor.
func (c *Console) Clear() {
	if c == nil {
		return
	}
	c.v.top = 0
	c.t = tinyterm.NewTerminal(c.v)
	c.t.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: fontHeight,
		FontOffset: fontOffset,
	})
	c.lines = 0
	c.s.Clear(display.Black)
	c.s.Present()
}

// Lines returns how many lines were written since the last Clear.
func (c *Console) Lines() int {
	if c == nil {
		return 0
	}
	return c.lines
}

// Rows is the number of text rows on screen. The last one holds the cursor.
func (c *Console) Rows() int {
	if c == nil {
		return 0
	}
	return int(c.v.ring / fontHeight)
}

func (c *Console) WriteLineString(s string) {
	if c == nil {
		return
	}
	n := copy(c.buf[:len(c.buf)-2], s)
	c.writeLine(n)
}

func (c *Console) WriteLineBytes(b []byte) {
	if c == nil {
		return
	}
	n := copy(c.buf[:len(c.buf)-2], b)
	c.writeLine(n)
}

func (c *Console) writeLine(n int) {
	c.buf[n] = '\r'
	c.buf[n+1] = '\n'
	_, _ = c.t.Write(c.buf[:n+2])
	c.lines++
	c.s.Present()
}

// view gives tinyterm the hardware scrolling it expects from an LCD
// controller. The terminal draws rows into a ring of ring pixels and moves
// the scroll start line on every line feed; view maps ring rows to screen
// rows and shifts the framebuffer up when the start line advances.
type view struct {
	s    *display.Screen
	ring int16
	top  int16
}

func newView(s *display.Screen) *view {
	_, h := s.Size()
	ring := h / fontHeight * fontHeight
	if ring <= 0 {
		ring = h
	}
	return &view{s: s, ring: ring}
}

func (v *view) y(y int16) int16 {
	if v.ring <= 0 {
		return y
	}
	return ((y-v.top)%v.ring + v.ring) % v.ring
}

func (v *view) Size() (x, y int16) { return v.s.Size() }

func (v *view) SetPixel(x, y int16, c color.RGBA) { v.s.SetPixel(x, v.y(y), c) }

func (v *view) Display() error { return v.s.Display() }

func (v *view) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	return v.s.FillRectangle(x, v.y(y), width, height, c)
}

func (v *view) SetScroll(line int16) {
	if v.ring <= 0 {
		return
	}
	line %= v.ring
	delta := ((line-v.top)%v.ring + v.ring) % v.ring
	v.top = line
	_ = v.s.ScrollUp(delta, display.Black)
}
