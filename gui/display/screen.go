package display

import (
	"image/color"

	"minipanel/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Screen draws into an RGB565 framebuffer. It is both a Painter and a
// tinygo drivers.Displayer, so tinyfont and tinyterm can render onto it.
type Screen struct {
	fb   hal.Framebuffer
	clip Rect
}

// NewScreen returns a Screen over fb, or nil when fb is not RGB565.
func NewScreen(fb hal.Framebuffer) *Screen {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	s := &Screen{fb: fb}
	s.resetClip()
	return s
}

func (s *Screen) resetClip() {
	s.clip = Rect{W: uint16(s.fb.Width()), H: uint16(s.fb.Height())}
}

func (s *Screen) Size() (x, y int16) {
	return int16(s.fb.Width()), int16(s.fb.Height())
}

func (s *Screen) SetPixel(x, y int16, c color.RGBA) {
	if x < s.clip.X || x >= s.clip.Right() || y < s.clip.Y || y >= s.clip.Bottom() {
		return
	}
	w, h := s.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	buf := s.fb.Buffer()
	off := int(y)*s.fb.StrideBytes() + int(x)*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	p := rgb565(c)
	buf[off] = byte(p)
	buf[off+1] = byte(p >> 8)
}

// Display presents the framebuffer.
func (s *Screen) Display() error { return s.fb.Present() }

func (s *Screen) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	s.FillRect(Rect{X: x, Y: y, W: uint16(width), H: uint16(height)}, c)
	return nil
}

func (s *Screen) SetScroll(line int16)                              {}
func (s *Screen) SetScrollArea(topFixedArea, bottomFixedArea int16) {}
func (s *Screen) StopScroll()                                       {}

func (s *Screen) SetRotation(rotation drivers.Rotation) error { return nil }

// ScrollUp shifts the framebuffer up by lines pixels and fills the exposed area.
func (s *Screen) ScrollUp(lines int16, bg color.RGBA) error {
	w, h := s.Size()
	if lines <= 0 {
		return nil
	}
	if lines >= h {
		s.Clear(bg)
		return nil
	}
	buf := s.fb.Buffer()
	stride := s.fb.StrideBytes()
	n := int(lines) * stride
	copy(buf, buf[n:int(h)*stride])
	s.FillRect(Rect{Y: h - lines, W: uint16(w), H: uint16(lines)}, bg)
	return nil
}

func (s *Screen) Clear(c color.RGBA) {
	s.fb.ClearRGB(c.R, c.G, c.B)
}

func (s *Screen) FillRect(r Rect, c color.RGBA) {
	w, h := s.Size()
	cx1 := clamp(s.clip.Right(), 0, w)
	cy1 := clamp(s.clip.Bottom(), 0, h)
	cx0 := clamp(s.clip.X, 0, cx1)
	cy0 := clamp(s.clip.Y, 0, cy1)
	x0 := clamp(r.X, cx0, cx1)
	y0 := clamp(r.Y, cy0, cy1)
	x1 := clamp(r.Right(), cx0, cx1)
	y1 := clamp(r.Bottom(), cy0, cy1)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	p := rgb565(c)
	lo, hi := byte(p), byte(p>>8)
	buf := s.fb.Buffer()
	stride := s.fb.StrideBytes()
	for y := int(y0); y < int(y1); y++ {
		row := y * stride
		for x := int(x0); x < int(x1); x++ {
			off := row + x*2
			if off+1 >= len(buf) {
				break
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
}

// DrawLine draws a one pixel line with Bresenham's algorithm.
func (s *Screen) DrawLine(p0, p1 Point, c color.RGBA) {
	x0, y0, x1, y1 := int(p0.X), int(p0.Y), int(p1.X), int(p1.Y)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		s.SetPixel(int16(x0), int16(y0), c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// DrawText fills r with bg and renders text inside it, clipped to r.
func (s *Screen) DrawText(r Rect, text string, f *Font, bg, fg color.RGBA, flags Flags) {
	s.FillRect(r, bg)
	if f == nil || f.W <= 0 || f.H <= 0 || r.Empty() {
		return
	}
	cols := f.Cols(r.W)
	rows := f.Rows(r.H)
	if cols == 0 || rows == 0 {
		return
	}

	y := r.Y
	if flags&AlignVCenter != 0 {
		n := 0
		EachLine(text, cols, flags&WordBreak != 0, func(string) bool {
			n++
			return n < rows
		})
		y += (int16(r.H) - int16(n)*f.H) / 2
	}

	s.clip = r
	defer s.resetClip()

	row := 0
	EachLine(text, cols, flags&WordBreak != 0, func(line string) bool {
		x := r.X
		if flags&AlignHCenter != 0 {
			x += (int16(r.W) - int16(runeCount(line))*f.W) / 2
		}
		for _, ch := range line {
			tinyfont.DrawChar(s, f.Face, x, y+f.Offset, ch, fg)
			x += f.W
		}
		y += f.H
		row++
		return row < rows
	})
}

// DrawIcon fills r with bg and draws ic in fg, at the top-left of r or
// centered with AlignCenter flags.
func (s *Screen) DrawIcon(r Rect, ic *Icon, bg, fg color.RGBA, flags Flags) {
	s.FillRect(r, bg)
	if ic == nil {
		return
	}
	iw, ih := ic.Size()
	x, y := r.X, r.Y
	if flags&AlignHCenter != 0 {
		x += (int16(r.W) - int16(iw)) / 2
	}
	if flags&AlignVCenter != 0 {
		y += (int16(r.H) - int16(ih)) / 2
	}

	s.clip = r
	defer s.resetClip()

	sc := uint16(ic.Scale)
	for cy := 0; cy*ic.Scale < ih; cy++ {
		for cx := 0; cx*ic.Scale < iw; cx++ {
			if ic.Set(cx, cy) {
				s.FillRect(Rect{X: x + int16(cx*ic.Scale), Y: y + int16(cy*ic.Scale), W: sc, H: sc}, fg)
			}
		}
	}
}

func (s *Screen) Present() { _ = s.fb.Present() }

func rgb565(c color.RGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

func clamp(v, lo, hi int16) int16 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
