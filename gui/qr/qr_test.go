package qr

import (
	"image/color"
	"strings"
	"testing"

	"minipanel/gui/display"
)

type rectRecorder struct {
	fills []display.Rect
	black int
}

func (r *rectRecorder) Size() (int16, int16)                      { return 240, 320 }
func (r *rectRecorder) Clear(color.RGBA)                          {}
func (r *rectRecorder) DrawLine(_, _ display.Point, _ color.RGBA) {}
func (r *rectRecorder) DrawText(display.Rect, string, *display.Font, color.RGBA, color.RGBA, display.Flags) {
}
func (r *rectRecorder) DrawIcon(display.Rect, *display.Icon, color.RGBA, color.RGBA, display.Flags) {}
func (r *rectRecorder) Present()                                                                    {}
func (r *rectRecorder) FillRect(rc display.Rect, c color.RGBA) {
	r.fills = append(r.fills, rc)
	if c == display.Black {
		r.black++
	}
}

func TestEncodeAndDraw(t *testing.T) {
	var c Code
	if err := c.Encode("https://help.3dprinter.support/12201/sp"); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if c.Size < 21 || c.Size > MaxModules {
		t.Fatalf("size = %d", c.Size)
	}
	// Finder pattern corner is always dark.
	if !c.Black(0, 0) || c.Black(-1, 0) || c.Black(c.Size, 0) {
		t.Fatal("unexpected module values")
	}

	rec := &rectRecorder{}
	r := display.R(50, 153, 140, 140)
	if !c.Draw(rec, r) {
		t.Fatal("expected draw")
	}
	if rec.black == 0 {
		t.Fatal("expected dark modules")
	}
	for _, f := range rec.fills[1:] {
		if f.X < r.X || f.Right() > r.Right() || f.Y < r.Y || f.Bottom() > r.Bottom() {
			t.Fatalf("module %+v outside %+v", f, r)
		}
	}
}

func TestEncodeTooLargeKeepsPrevious(t *testing.T) {
	var c Code
	if err := c.Encode("short"); err != nil {
		t.Fatal(err)
	}
	size := c.Size
	if err := c.Encode(strings.Repeat("https://example.invalid/", 40)); err == nil {
		t.Fatal("expected error")
	}
	if c.Size != size {
		t.Fatal("expected previous code kept")
	}
}

func TestDrawTooSmall(t *testing.T) {
	var c Code
	if err := c.Encode("x"); err != nil {
		t.Fatal(err)
	}
	if c.Draw(&rectRecorder{}, display.R(0, 0, 10, 10)) {
		t.Fatal("expected no draw in a tiny rect")
	}
	var empty Code
	if empty.Draw(&rectRecorder{}, display.R(0, 0, 100, 100)) {
		t.Fatal("expected no draw for empty code")
	}
}
