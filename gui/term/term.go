// Package term is a fixed-size character grid over a caller-supplied buffer.
//
// Fault screens print into a Terminal and then render it in one pass, so
// nothing here allocates once the buffer exists.
package term

import (
	"fmt"
	"image/color"

	"minipanel/gui/display"
)

// PrintfMax is the longest formatted string Printf keeps.
const PrintfMax = 255

// Terminal is a cols x rows character grid. Output past the last row is dropped.
type Terminal struct {
	buf        []byte
	cols, rows int
	col, row   int
	scratch    [PrintfMax + 1]byte
}

// BufferSize returns the buffer length New needs for cols x rows.
func BufferSize(cols, rows int) int {
	if cols <= 0 || rows <= 0 {
		return 0
	}
	return cols * rows
}

// New returns a terminal using buf as its grid. A short buffer reduces the
// row count to what fits.
func New(cols, rows int, buf []byte) *Terminal {
	t := &Terminal{}
	t.Init(cols, rows, buf)
	return t
}

// Init resets t in place to a cols x rows grid over buf.
func (t *Terminal) Init(cols, rows int, buf []byte) {
	if cols <= 0 || rows <= 0 {
		cols, rows = 0, 0
	} else if len(buf) < cols*rows {
		rows = len(buf) / cols
	}
	t.buf = buf[:cols*rows]
	t.cols, t.rows = cols, rows
	t.Clear()
}

// Clear blanks the grid and homes the cursor.
func (t *Terminal) Clear() {
	for i := range t.buf {
		t.buf[i] = ' '
	}
	t.col, t.row = 0, 0
}

func (t *Terminal) Cols() int { return t.cols }
func (t *Terminal) Rows() int { return t.rows }

// Row is the cursor row. It equals Rows once the grid is full.
func (t *Terminal) Row() int { return t.row }
func (t *Terminal) Col() int { return t.col }

// WriteChar puts one byte at the cursor. '\n' starts a new row, '\r'
// returns to column 0, and a full row wraps.
func (t *Terminal) WriteChar(c byte) {
	switch c {
	case '\n':
		t.col = 0
		t.row++
		return
	case '\r':
		t.col = 0
		return
	}
	if t.row >= t.rows {
		return
	}
	t.buf[t.row*t.cols+t.col] = c
	t.col++
	if t.col >= t.cols {
		t.col = 0
		t.row++
	}
}

func (t *Terminal) Write(p []byte) (int, error) {
	for _, c := range p {
		t.WriteChar(c)
	}
	return len(p), nil
}

func (t *Terminal) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		t.WriteChar(s[i])
	}
	return len(s), nil
}

// Printf formats into a fixed scratch buffer, truncates to PrintfMax bytes
// and writes the result. It returns the number of bytes written.
func (t *Terminal) Printf(format string, args ...any) int {
	out := fmt.Appendf(t.scratch[:0], format, args...)
	if len(out) > PrintfMax {
		out = out[:PrintfMax]
	}
	for _, c := range out {
		t.WriteChar(c)
	}
	return len(out)
}

// Line returns row i without trailing blanks.
func (t *Terminal) Line(i int) string {
	if i < 0 || i >= t.rows {
		return ""
	}
	b := t.buf[i*t.cols : (i+1)*t.cols]
	n := len(b)
	for n > 0 && b[n-1] == ' ' {
		n--
	}
	return string(b[:n])
}

// String returns the used rows joined by newlines.
func (t *Terminal) String() string {
	last := t.row
	if t.col > 0 && last < t.rows {
		last++
	}
	if last > t.rows {
		last = t.rows
	}
	var s []byte
	for i := 0; i < last; i++ {
		if i > 0 {
			s = append(s, '\n')
		}
		s = append(s, t.Line(i)...)
	}
	return string(s)
}

// Render draws every row of t with its top-left corner at (x, y).
func Render(p display.Painter, t *Terminal, x, y int16, f *display.Font, bg, fg color.RGBA) {
	if p == nil || t == nil || f == nil {
		return
	}
	w := uint16(t.cols) * uint16(f.W)
	for i := 0; i < t.rows; i++ {
		r := display.R(x, y+int16(i)*f.H, w, uint16(f.H))
		p.DrawText(r, t.Line(i), f, bg, fg, 0)
	}
}
