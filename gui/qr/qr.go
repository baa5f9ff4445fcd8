// Package qr renders QR codes into a reserved module buffer and draws them
// with a display.Painter.
package qr

import (
	"errors"

	"minipanel/gui/display"

	"rsc.io/qr"
)

// MaxModules is the largest symbol side the buffer holds (version 10).
const MaxModules = 57

// Quiet is the number of blank modules drawn around the symbol.
const Quiet = 2

var ErrTooLarge = errors.New("qr: text does not fit the reserved buffer")

// Code is a generated symbol held in a fixed bitmap.
type Code struct {
	Size    int
	modules [MaxModules * MaxModules]bool
}

// Encode generates the symbol for text at medium error correction into c.
// c keeps its previous content on error.
func (c *Code) Encode(text string) error {
	q, err := qr.Encode(text, qr.M)
	if err != nil {
		return err
	}
	if q.Size > MaxModules {
		return ErrTooLarge
	}
	c.Size = q.Size
	for y := 0; y < q.Size; y++ {
		for x := 0; x < q.Size; x++ {
			c.modules[y*MaxModules+x] = q.Black(x, y)
		}
	}
	return nil
}

// Black reports whether module (x, y) is dark.
func (c *Code) Black(x, y int) bool {
	if x < 0 || y < 0 || x >= c.Size || y >= c.Size {
		return false
	}
	return c.modules[y*MaxModules+x]
}

// Draw paints the code scaled to the largest whole module size that fits r,
// centered, white background and black modules.
func (c *Code) Draw(p display.Painter, r display.Rect) bool {
	if c.Size == 0 || p == nil {
		return false
	}
	side := r.W
	if r.H < side {
		side = r.H
	}
	n := uint16(c.Size + 2*Quiet)
	scale := side / n
	if scale == 0 {
		return false
	}
	p.FillRect(r, display.White)
	drawn := n * scale
	x0 := r.X + int16((r.W-drawn)/2) + int16(Quiet*scale)
	y0 := r.Y + int16((r.H-drawn)/2) + int16(Quiet*scale)
	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			if c.Black(x, y) {
				p.FillRect(display.R(x0+int16(x)*int16(scale), y0+int16(y)*int16(scale), scale, scale), display.Black)
			}
		}
	}
	return true
}
