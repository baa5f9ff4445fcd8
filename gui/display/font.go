package display

import (
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

// Font is a monospaced tinyfont face plus its cell metrics.
type Font struct {
	Face tinyfont.Fonter
	// W and H are the cell size; Offset is the baseline below the cell top.
	W, H, Offset int16
}

// NewFont measures face and returns its cell metrics.
func NewFont(face tinyfont.Fonter) *Font {
	_, outbox := tinyfont.LineWidth(face, "0")
	h := int16(face.GetYAdvance())
	return &Font{Face: face, W: int16(outbox), H: h, Offset: h * 3 / 4}
}

var (
	// FontSmall is used for register dumps and footnotes.
	FontSmall = NewFont(&proggy.TinySZ8pt7b)
	// FontNormal is used for titles, menus and the general error screens.
	FontNormal = NewFont(&freemono.Regular9pt7b)
)

// Cols returns how many cells of f fit in width pixels.
func (f *Font) Cols(width uint16) int {
	if f == nil || f.W <= 0 {
		return 0
	}
	return int(width) / int(f.W)
}

// Rows returns how many lines of f fit in height pixels.
func (f *Font) Rows(height uint16) int {
	if f == nil || f.H <= 0 {
		return 0
	}
	return int(height) / int(f.H)
}
