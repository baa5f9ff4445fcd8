package ui

import (
	"image/color"
	"io"
	"strings"
	"testing"

	"minipanel/gui/display"
	"minipanel/gui/header"
	"minipanel/gui/menu/tools"
	"minipanel/hal"
	"minipanel/proto"
	"minipanel/rtos"
	"minipanel/services/printer"
)

type recPainter struct {
	texts    []string
	presents int
}

func (p *recPainter) Size() (int16, int16)                              { return 240, 320 }
func (p *recPainter) Clear(color.RGBA)                                  {}
func (p *recPainter) FillRect(display.Rect, color.RGBA)                 {}
func (p *recPainter) DrawLine(display.Point, display.Point, color.RGBA) {}
func (p *recPainter) DrawText(_ display.Rect, text string, _ *display.Font, _, _ color.RGBA, _ display.Flags) {
	p.texts = append(p.texts, text)
}
func (p *recPainter) DrawIcon(display.Rect, *display.Icon, color.RGBA, color.RGBA, display.Flags) {}
func (p *recPainter) Present()                                                                    { p.presents++ }

func (p *recPainter) has(s string) bool {
	for _, t := range p.texts {
		if t == s {
			return true
		}
	}
	return false
}

type chanInput chan hal.InputEvent

func (c chanInput) Events() <-chan hal.InputEvent { return c }

type fakeMedia struct{ in bool }

func (m *fakeMedia) Inserted() bool                        { return m.in }
func (m *fakeMedia) Create(string) (io.WriteCloser, error) { return nil, hal.ErrMediaNotPresent }
func (m *fakeMedia) Open(string) (io.ReadCloser, error)    { return nil, hal.ErrMediaNotPresent }

type stepFunc func(*rtos.Context)

func (f stepFunc) Step(ctx *rtos.Context) { f(ctx) }

type rig struct {
	k     *rtos.Kernel
	st    *printer.Status
	in    chanInput
	media *fakeMedia
	p     *recPainter
	s     *Service
	sent  []string
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		k:     rtos.New(nil),
		st:    &printer.Status{},
		in:    make(chanInput, 16),
		media: &fakeMedia{},
		p:     &recPainter{},
	}
	ep := r.k.NewEndpoint(rtos.RightSend | rtos.RightRecv)
	r.s = New(Config{
		Painter:      r.p,
		Input:        r.in,
		Media:        r.media,
		Printer:      printer.NewClient(ep, r.st),
		Version:      "1.0.0",
		TimeoutTicks: 10,
	})
	if _, ok := r.k.AddTask("ui", r.s, 64); !ok {
		t.Fatal("add ui task")
	}
	sink := stepFunc(func(ctx *rtos.Context) {
		for {
			m, ok := ctx.Recv(ep)
			if !ok {
				return
			}
			if proto.Kind(m.Kind) == proto.MsgGcode {
				r.sent = append(r.sent, string(m.Payload()))
			}
		}
	})
	if _, ok := r.k.AddTask("sink", sink, 32); !ok {
		t.Fatal("add sink task")
	}
	r.run()
	return r
}

func (r *rig) run() {
	for r.k.Step() {
	}
}

func (r *rig) tick() {
	r.k.Tick()
	r.run()
}

func (r *rig) input(kinds ...hal.InputKind) {
	for _, k := range kinds {
		r.in <- hal.InputEvent{Kind: k, Steps: 1}
	}
	r.tick()
}

func TestHomeDrawnOnStart(t *testing.T) {
	r := newRig(t)
	if r.s.Title() != "Home" || r.s.Depth() != 1 {
		t.Fatalf("title=%q depth=%d", r.s.Title(), r.s.Depth())
	}
	if !r.p.has("Home") || r.p.presents == 0 {
		t.Fatal("home screen not drawn")
	}
}

func TestAutoHomeWaitsForPrinter(t *testing.T) {
	r := newRig(t)
	r.input(hal.InputEncoderUp, hal.InputClick)
	if r.s.Title() != "Calibration" {
		t.Fatalf("title=%q", r.s.Title())
	}

	r.st.Busy = true
	r.input(hal.InputEncoderUp, hal.InputClick)
	if strings.Join(r.sent, ",") != "G28" {
		t.Fatalf("sent=%v", r.sent)
	}
	if r.s.Title() != "Please wait" {
		t.Fatalf("title=%q", r.s.Title())
	}
	r.tick()
	r.tick()
	if r.s.Title() != "Please wait" {
		t.Fatal("wait screen closed while busy")
	}
	r.st.Busy = false
	r.tick()
	if r.s.Title() != "Calibration" {
		t.Fatalf("title=%q after the printer went idle", r.s.Title())
	}
}

func TestMenuTimeout(t *testing.T) {
	r := newRig(t)
	r.input(hal.InputClick)
	if r.s.Title() != "Settings" {
		t.Fatalf("title=%q", r.s.Title())
	}
	for i := 0; i < 12; i++ {
		r.tick()
	}
	if r.s.Depth() != 1 {
		t.Fatalf("depth=%d after timeout", r.s.Depth())
	}

	r.s.SetMenuTimeout(false)
	r.input(hal.InputClick)
	for i := 0; i < 12; i++ {
		r.tick()
	}
	if r.s.Title() != "Settings" {
		t.Fatal("menu closed with the timeout off")
	}
}

func TestMediaIndicator(t *testing.T) {
	r := newRig(t)
	if r.s.Header().StateUSB() != header.On {
		t.Fatalf("usb=%v", r.s.Header().StateUSB())
	}
	r.media.in = true
	r.tick()
	if r.s.Header().StateUSB() != header.Active {
		t.Fatalf("usb=%v after insert", r.s.Header().StateUSB())
	}
	r.media.in = false
	r.tick()
	if r.s.Header().StateUSB() != header.On {
		t.Fatalf("usb=%v after removal", r.s.Header().StateUSB())
	}
}

func TestConfirm(t *testing.T) {
	r := newRig(t)
	yes := 0
	r.s.Confirm("Sure?", func() { yes++ })
	r.tick()
	if r.s.Depth() != 2 || !r.p.has("Sure?") {
		t.Fatal("question not shown")
	}
	r.input(hal.InputClick)
	if yes != 0 || r.s.Depth() != 1 {
		t.Fatalf("default answer ran yes=%d depth=%d", yes, r.s.Depth())
	}

	r.s.Confirm("Sure?", func() { yes++ })
	r.input(hal.InputEncoderUp, hal.InputClick)
	if yes != 1 || r.s.Depth() != 1 {
		t.Fatalf("yes=%d depth=%d", yes, r.s.Depth())
	}
}

func TestMessageRunsDone(t *testing.T) {
	r := newRig(t)
	done := 0
	r.s.Message("Saved", func() { done++ })
	r.input(hal.InputEncoderDown)
	if done != 0 || r.s.Depth() != 2 {
		t.Fatal("message closed by the encoder")
	}
	r.input(hal.InputClick)
	if done != 1 || r.s.Depth() != 1 {
		t.Fatalf("done=%d depth=%d", done, r.s.Depth())
	}
}

func TestFilamentPreheat(t *testing.T) {
	r := newRig(t)
	r.input(hal.InputEncoderUp, hal.InputEncoderUp, hal.InputClick)
	if r.s.Title() != "Filament" {
		t.Fatalf("title=%q", r.s.Title())
	}
	r.input(hal.InputClick)
	if got := strings.Join(r.sent, ","); got != "M86 S1800,M104 S170 D215,M140 S60" {
		t.Fatalf("sent=%q", got)
	}
	if r.s.Depth() != 1 {
		t.Fatalf("depth=%d, want the filament menu closed", r.s.Depth())
	}
}

func TestTestScreenFollowsPrinter(t *testing.T) {
	r := newRig(t)
	r.st.Test = proto.TestFans
	r.s.Open(tools.ScreenTest)
	r.tick()
	r.tick()
	if r.s.Title() != "SelfTest" || r.s.Depth() != 2 {
		t.Fatalf("title=%q depth=%d", r.s.Title(), r.s.Depth())
	}
	r.st.Test = proto.TestNone
	r.tick()
	if r.s.Depth() != 1 {
		t.Fatalf("depth=%d after the test ended", r.s.Depth())
	}
}
