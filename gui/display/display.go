// Package display draws text, lines, icons and filled areas into the panel
// framebuffer.
package display

import "image/color"

// Rect is a screen rectangle. X and Y may be negative; W and H never are.
type Rect struct {
	X, Y int16
	W, H uint16
}

// R is shorthand for a Rect literal.
func R(x, y int16, w, h uint16) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Right() int16  { return r.X + int16(r.W) }
func (r Rect) Bottom() int16 { return r.Y + int16(r.H) }

func (r Rect) Empty() bool { return r.W == 0 || r.H == 0 }

// Point is a screen coordinate.
type Point struct {
	X, Y int16
}

// Flags modify text and icon placement.
type Flags uint8

const (
	// WordBreak wraps text at spaces to fit the rectangle width.
	WordBreak Flags = 1 << iota
	// AlignHCenter centers each line horizontally.
	AlignHCenter
	// AlignVCenter centers the text block vertically.
	AlignVCenter

	AlignCenter = AlignHCenter | AlignVCenter
)

// Panel palette.
var (
	Black    = color.RGBA{A: 0xFF}
	White    = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	RedAlert = color.RGBA{R: 0xE0, G: 0x10, B: 0x10, A: 0xFF}
	Navy     = color.RGBA{B: 0x80, A: 0xFF}
	Orange   = color.RGBA{R: 0xFF, G: 0x80, A: 0xFF}
	Gray     = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	Disabled = color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xFF}
)

// Painter is the drawing surface used by the menu, header and fault screens.
type Painter interface {
	Size() (w, h int16)
	Clear(c color.RGBA)
	FillRect(r Rect, c color.RGBA)
	DrawLine(p0, p1 Point, c color.RGBA)
	DrawText(r Rect, text string, f *Font, bg, fg color.RGBA, flags Flags)
	DrawIcon(r Rect, ic *Icon, bg, fg color.RGBA, flags Flags)
	Present()
}
