package display

import (
	"image/color"
	"strings"
	"testing"

	"minipanel/hal"
)

type memFB struct {
	w, h     int
	buf      []byte
	presents int
}

func newMemFB(w, h int) *memFB { return &memFB{w: w, h: h, buf: make([]byte, w*h*2)} }

func (f *memFB) Width() int              { return f.w }
func (f *memFB) Height() int             { return f.h }
func (f *memFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *memFB) StrideBytes() int        { return f.w * 2 }
func (f *memFB) Buffer() []byte          { return f.buf }
func (f *memFB) Present() error          { f.presents++; return nil }
func (f *memFB) ClearRGB(r, g, b uint8) {
	p := rgb565(color.RGBA{R: r, G: g, B: b})
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i], f.buf[i+1] = byte(p), byte(p>>8)
	}
}

func (f *memFB) at(x, y int) uint16 {
	off := y*f.w*2 + x*2
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}

func TestFillRectClipsToScreen(t *testing.T) {
	fb := newMemFB(8, 8)
	s := NewScreen(fb)
	s.FillRect(R(-4, 6, 6, 10), White)

	white := rgb565(White)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := uint16(0)
			if x < 2 && y >= 6 {
				want = white
			}
			if got := fb.at(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %#x, want %#x", x, y, got, want)
			}
		}
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	fb := newMemFB(20, 20)
	s := NewScreen(fb)
	s.DrawLine(Point{1, 2}, Point{15, 9}, White)
	white := rgb565(White)
	if fb.at(1, 2) != white || fb.at(15, 9) != white {
		t.Fatal("expected both endpoints set")
	}
	s.Clear(Black)
	s.DrawLine(Point{2, 5}, Point{10, 5}, White)
	for x := 2; x <= 10; x++ {
		if fb.at(x, 5) != white {
			t.Fatalf("pixel %d not set", x)
		}
	}
}

func TestDrawTextStaysInsideRect(t *testing.T) {
	fb := newMemFB(120, 60)
	s := NewScreen(fb)
	r := R(10, 10, 40, uint16(FontNormal.H))
	s.DrawText(r, "WWWWWWWWWWWWWWWW", FontNormal, Navy, White, 0)

	white := rgb565(White)
	inside := 0
	for y := 0; y < fb.h; y++ {
		for x := 0; x < fb.w; x++ {
			if fb.at(x, y) != white {
				continue
			}
			if x < 10 || x >= 50 || y < 10 || y >= 10+int(FontNormal.H) {
				t.Fatalf("text pixel outside rect at (%d,%d)", x, y)
			}
			inside++
		}
	}
	if inside == 0 {
		t.Fatal("expected glyph pixels inside rect")
	}
}

func TestDrawIconScaled(t *testing.T) {
	fb := newMemFB(16, 16)
	s := NewScreen(fb)
	ic := NewIcon(2, "#.", ".#")
	s.DrawIcon(R(0, 0, 16, 16), ic, Black, White, 0)
	white := rgb565(White)
	if fb.at(0, 0) != white || fb.at(1, 1) != white || fb.at(2, 2) != white || fb.at(3, 3) != white {
		t.Fatal("expected scaled diagonal")
	}
	if fb.at(2, 0) != 0 || fb.at(0, 2) != 0 {
		t.Fatal("expected clear cells")
	}
}

func TestScrollUp(t *testing.T) {
	fb := newMemFB(4, 4)
	s := NewScreen(fb)
	s.FillRect(R(0, 2, 4, 1), White)
	if err := s.ScrollUp(2, Navy); err != nil {
		t.Fatal(err)
	}
	if fb.at(0, 0) != rgb565(White) {
		t.Fatal("expected row 2 moved to row 0")
	}
	if fb.at(0, 3) != rgb565(Navy) {
		t.Fatal("expected exposed rows filled")
	}
}

func TestEachLineWordBreak(t *testing.T) {
	var got []string
	EachLine("The heater is not\nheating  up as expected", 10, true, func(l string) bool {
		got = append(got, l)
		return true
	})
	want := []string{"The heater", "is not", "heating", "up as", "expected"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEachLineHardCutAndStop(t *testing.T) {
	var got []string
	EachLine("abcdefghijkl", 5, true, func(l string) bool {
		got = append(got, l)
		return len(got) < 2
	})
	if strings.Join(got, "|") != "abcde|fghij" {
		t.Fatalf("got %q", got)
	}

	got = got[:0]
	EachLine("abcdefgh\nxy", 3, false, func(l string) bool {
		got = append(got, l)
		return true
	})
	if strings.Join(got, "|") != "abc|xy" {
		t.Fatalf("got %q", got)
	}
}

func TestFontMetrics(t *testing.T) {
	for _, f := range []*Font{FontSmall, FontNormal} {
		if f.W <= 0 || f.H <= 0 || f.Offset <= 0 || f.Offset >= f.H {
			t.Fatalf("bad metrics %+v", *f)
		}
	}
}
