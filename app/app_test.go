package app

import (
	"image/color"
	"io"
	"testing"

	"minipanel/cortexm"
	"minipanel/dump"
	"minipanel/fault"
	"minipanel/fault/catalog"
	"minipanel/gui/display"
)

type recPainter struct {
	texts  []string
	frames int
}

func (p *recPainter) Size() (int16, int16)                              { return 240, 320 }
func (p *recPainter) Clear(color.RGBA)                                  {}
func (p *recPainter) FillRect(display.Rect, color.RGBA)                 {}
func (p *recPainter) DrawLine(display.Point, display.Point, color.RGBA) {}
func (p *recPainter) DrawText(_ display.Rect, text string, _ *display.Font, _, _ color.RGBA, _ display.Flags) {
	p.texts = append(p.texts, text)
}
func (p *recPainter) DrawIcon(display.Rect, *display.Icon, color.RGBA, color.RGBA, display.Flags) {}
func (p *recPainter) Present()                                                                    { p.frames++ }

func (p *recPainter) has(s string) bool {
	for _, t := range p.texts {
		if t == s {
			return true
		}
	}
	return false
}

type memFlash struct{ mem []byte }

func newMemFlash(size int) *memFlash {
	f := &memFlash{mem: make([]byte, size)}
	for i := range f.mem {
		f.mem[i] = 0xFF
	}
	return f
}

func (f *memFlash) SizeBytes() uint32       { return uint32(len(f.mem)) }
func (f *memFlash) EraseBlockBytes() uint32 { return 4096 }
func (f *memFlash) ReadAt(p []byte, off uint32) (int, error) {
	if int(off) >= len(f.mem) {
		return 0, io.EOF
	}
	return copy(p, f.mem[off:]), nil
}
func (f *memFlash) WriteAt(p []byte, off uint32) (int, error) {
	for i, b := range p {
		f.mem[int(off)+i] &= b
	}
	return len(p), nil
}
func (f *memFlash) Erase(off, size uint32) error {
	for i := off; i < off+size && int(i) < len(f.mem); i++ {
		f.mem[i] = 0xFF
	}
	return nil
}

type lines []string

func (l *lines) WriteLineString(s string) { *l = append(*l, s) }

var zero int

func recovered(fn func()) (v any) {
	defer func() { v = recover() }()
	fn()
	return nil
}

func TestFaultSCBDivideByZero(t *testing.T) {
	v := recovered(func() { _ = 10 / zero })
	scb, ok := faultSCB(v, cortexm.SCB{})
	if !ok {
		t.Fatalf("divide by zero not mapped: %v", v)
	}
	if scb.CFSR() != cortexm.DIVBYZERO || scb.HFSR() != hfsrForced {
		t.Fatalf("cfsr=%08x hfsr=%08x", scb.CFSR(), scb.HFSR())
	}
	if scb.CPUID() != cpuidM4 {
		t.Fatalf("cpuid=%08x", scb.CPUID())
	}
}

func TestFaultSCBNilPointer(t *testing.T) {
	var p *struct{ n int }
	v := recovered(func() { _ = p.n })
	scb, ok := faultSCB(v, cortexm.SCB{})
	if !ok || scb.CFSR() != cortexm.DACCVIOL|cortexm.MMARVALID {
		t.Fatalf("ok=%v cfsr=%08x", ok, scb.CFSR())
	}
	c, _ := cortexm.PrimaryCause(scb.CFSR())
	if c.Bit != cortexm.DACCVIOL {
		t.Fatalf("primary cause %s", c.Name)
	}
}

func TestFaultSCBKeepsCapturedCPUID(t *testing.T) {
	var base cortexm.SCB
	base.SetCPUID(0x410FC271)
	v := recovered(func() { _ = 1 / zero })
	scb, _ := faultSCB(v, base)
	if scb.CPUID() != 0x410FC271 {
		t.Fatalf("cpuid=%08x", scb.CPUID())
	}
}

func TestFaultSCBPlainPanic(t *testing.T) {
	if _, ok := faultSCB("assertion failed", cortexm.SCB{}); ok {
		t.Fatal("string panic mapped to a hard fault")
	}
}

func newStore() *dump.Store {
	return dump.NewStore(newMemFlash(256*1024), dump.RegionOffset, 128*1024)
}

func TestPostmortemNoDump(t *testing.T) {
	p := &recPainter{}
	var log lines
	if showPostmortem(fault.New(fault.Config{Painter: p}), newStore(), &log) {
		t.Fatal("screen shown without a dump")
	}
	if p.frames != 0 || len(log) != 0 {
		t.Fatalf("frames=%d log=%v", p.frames, log)
	}
}

func TestPostmortemTempErrorShownOnce(t *testing.T) {
	st := newStore()
	if err := st.Save(&dump.Record{Flags: dump.FlagTempError, ErrCode: catalog.ThermalRunaway, Firmware: "1.2.3"}); err != nil {
		t.Fatal(err)
	}
	p := &recPainter{}
	rep := fault.New(fault.Config{Painter: p})
	if !showPostmortem(rep, st, nil) {
		t.Fatal("temp error not shown")
	}
	if !p.has("HOTEND THERMAL RUNAWAY") {
		t.Fatalf("texts=%v", p.texts)
	}
	sn, err := st.Open()
	if err != nil || !sn.Displayed() {
		t.Fatalf("dump not marked displayed: %v", err)
	}
	if showPostmortem(rep, st, nil) {
		t.Fatal("dump shown twice")
	}
}

func TestPostmortemHardFault(t *testing.T) {
	st := newStore()
	var scb cortexm.SCB
	scb.SetCFSR(cortexm.DIVBYZERO)
	if err := st.Save(&dump.Record{Flags: dump.FlagHardFault, SCB: scb, RAMBase: 0x20000000, RAM: make([]byte, 256)}); err != nil {
		t.Fatal(err)
	}
	p := &recPainter{}
	var log lines
	if !showPostmortem(fault.New(fault.Config{Painter: p}), st, &log) {
		t.Fatal("hard fault not shown")
	}
	if p.frames == 0 {
		t.Fatal("hard fault screen not presented")
	}
	if len(log) == 0 {
		t.Fatal("post-mortem not logged")
	}
}
