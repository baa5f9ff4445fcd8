//go:build tinygo && (rp2040 || rp2350)

package hal

import (
	"machine"

	"tinygo.org/x/drivers/st7789"
)

const (
	panelWidth  = 240
	panelHeight = 320
)

// st7789Display keeps a little-endian RGB565 framebuffer in RAM and pushes
// it to the panel row by row on Present.
type st7789Display struct {
	logger Logger
	dev    st7789.Device
	fb     *st7789Framebuffer
	safe   bool
}

func newST7789Display(logger Logger) *st7789Display {
	machine.SPI0.Configure(machine.SPIConfig{
		SCK:       pinLCDSCK,
		SDO:       pinLCDSDO,
		Frequency: 40_000_000,
	})
	d := &st7789Display{
		logger: logger,
		dev:    st7789.New(machine.SPI0, pinLCDRST, pinLCDDC, pinLCDCS, pinLCDBL),
	}
	d.fb = &st7789Framebuffer{
		d:   d,
		buf: make([]byte, panelWidth*panelHeight*2),
		row: make([]byte, panelWidth*2),
	}
	_ = d.Init()
	return d
}

func (d *st7789Display) Framebuffer() Framebuffer { return d.fb }

func (d *st7789Display) Init() error {
	d.dev.Configure(st7789.Config{Width: panelWidth, Height: panelHeight})
	return nil
}

// SetSafeMode is a marker on this board: transfers are already blocking SPI.
func (d *st7789Display) SetSafeMode() {
	d.safe = true
}

type st7789Framebuffer struct {
	d   *st7789Display
	buf []byte
	row []byte
}

func (f *st7789Framebuffer) Width() int          { return panelWidth }
func (f *st7789Framebuffer) Height() int         { return panelHeight }
func (f *st7789Framebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *st7789Framebuffer) StrideBytes() int    { return panelWidth * 2 }
func (f *st7789Framebuffer) Buffer() []byte      { return f.buf }

func (f *st7789Framebuffer) ClearRGB(r, g, b uint8) {
	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *st7789Framebuffer) Present() error {
	stride := panelWidth * 2
	for y := 0; y < panelHeight; y++ {
		src := f.buf[y*stride : (y+1)*stride]
		// The panel expects big-endian pixels.
		for i := 0; i < stride; i += 2 {
			f.row[i] = src[i+1]
			f.row[i+1] = src[i]
		}
		if err := f.d.dev.DrawRGBBitmap8(0, int16(y), f.row, panelWidth, 1); err != nil {
			return err
		}
	}
	return nil
}
