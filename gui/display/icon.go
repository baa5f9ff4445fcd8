package display

// Icon is a one-bit image stored as rows of '#' (set) and anything else
// (clear), drawn Scale pixels per cell.
type Icon struct {
	rows  []string
	w     int
	Scale int
}

// NewIcon builds an icon from ASCII art rows.
func NewIcon(scale int, rows ...string) *Icon {
	if scale < 1 {
		scale = 1
	}
	w := 0
	for _, r := range rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return &Icon{rows: rows, w: w, Scale: scale}
}

// Size returns the drawn size in pixels.
func (ic *Icon) Size() (w, h int) {
	if ic == nil {
		return 0, 0
	}
	return ic.w * ic.Scale, len(ic.rows) * ic.Scale
}

// Set reports whether art cell (cx, cy) is set.
func (ic *Icon) Set(cx, cy int) bool {
	if ic == nil || cy < 0 || cy >= len(ic.rows) || cx < 0 || cx >= len(ic.rows[cy]) {
		return false
	}
	return ic.rows[cy][cx] == '#'
}

// IconArrow points from the "Scan me" caption down to the QR code.
var IconArrow = NewIcon(4,
	"......##........",
	"......###.......",
	"......####......",
	".......####.....",
	"........###.....",
	"........####....",
	".........###....",
	".........###....",
	".........###....",
	".........###....",
	".........###....",
	"........####....",
	"..#.....###.....",
	"..##...####.....",
	"..###.####......",
	"..#######.......",
	"..######........",
	"..#######.......",
	"..########......",
	"................",
)

// IconUSB is the header USB drive indicator.
var IconUSB = NewIcon(1,
	"................",
	".......##.......",
	"......####......",
	".......##.......",
	".......##...###.",
	"..##...##...###.",
	".####..##....#..",
	".####..##....#..",
	"..#....##...#...",
	"...#...##..#....",
	"....#..##.#.....",
	".....####.......",
	".......##.......",
	"......####......",
	"......####......",
	"................",
)

// IconLAN is the header network indicator.
var IconLAN = NewIcon(1,
	"................",
	"......####......",
	"......#..#......",
	"......####......",
	".......##.......",
	".......##.......",
	"..############..",
	"..#....##....#..",
	"..#....##....#..",
	"..#....##....#..",
	"####..####..####",
	"#..#..#..#..#..#",
	"####..####..####",
	"................",
	"................",
	"................",
)
