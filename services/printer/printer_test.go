package printer

import (
	"bytes"
	"strings"
	"testing"

	"minipanel/gcode"
	"minipanel/proto"
	"minipanel/rtos"
)

// fakeController acknowledges every line and records the commands.
type fakeController struct {
	out      bytes.Buffer
	lines    gcode.LineReader
	cmds     []string
	onCmd    func(cmd string) string
	resendN1 bool
}

func (f *fakeController) Read(p []byte) (int, error) {
	if f.out.Len() == 0 {
		return 0, nil
	}
	return f.out.Read(p)
}

func (f *fakeController) Write(p []byte) (int, error) {
	f.lines.Feed(p, func(line string) {
		sp := strings.IndexByte(line, ' ')
		star := strings.LastIndexByte(line, '*')
		cmd := line[sp+1 : star]
		if f.resendN1 && strings.HasPrefix(line, "N1 ") {
			f.resendN1 = false
			f.out.WriteString("Resend: 1\n")
			return
		}
		f.cmds = append(f.cmds, cmd)
		reply := "ok"
		if f.onCmd != nil {
			reply = f.onCmd(cmd)
		}
		f.out.WriteString(reply + "\n")
	})
	return len(p), nil
}

type stepFunc func(*rtos.Context)

func (f stepFunc) Step(ctx *rtos.Context) { f(ctx) }

type rig struct {
	k    *rtos.Kernel
	svc  *Service
	c    *Client
	ctrl *fakeController
}

func newRig(t *testing.T, cfg Config, script func(c *Client)) *rig {
	t.Helper()
	r := &rig{k: rtos.New(nil), ctrl: &fakeController{}}
	if cfg.Serial == nil {
		cfg.Serial = r.ctrl
	}
	ep := r.k.NewEndpoint(rtos.RightSend | rtos.RightRecv)
	r.svc = New(cfg, ep)
	if _, ok := r.k.AddTask("printer", r.svc, 64); !ok {
		t.Fatal("AddTask printer failed")
	}
	r.c = NewClient(ep, r.svc.Status())
	done := false
	r.k.AddTask("ui", stepFunc(func(ctx *rtos.Context) {
		if !done {
			done = true
			r.c.Attach(ctx)
			script(r.c)
			r.c.Attach(nil)
		}
		ctx.BlockOnTick()
	}), 64)
	return r
}

func (r *rig) run(ticks int) {
	for i := 0; i < ticks; i++ {
		for r.k.Step() {
		}
		r.k.Tick()
	}
}

func TestCommandsInOrderAndHomed(t *testing.T) {
	r := newRig(t, Config{}, func(c *Client) {
		c.Gcode("G28")
		c.Gcodef("G1 Z%d", 10)
		c.GcodeFront("M105")
	})
	r.run(10)

	if got := strings.Join(r.ctrl.cmds, ","); got != "M105,G28,G1 Z10" {
		t.Fatalf("cmds=%q", got)
	}
	if !r.c.AllAxesHomed() {
		t.Fatal("expected homed after G28")
	}
	if r.c.Busy() {
		t.Fatal("expected idle")
	}
	if r.svc.Status().Sent != 3 {
		t.Fatalf("sent=%d", r.svc.Status().Sent)
	}
}

func TestDisableSteppersClearsHomed(t *testing.T) {
	r := newRig(t, Config{}, func(c *Client) {
		c.Gcode("G28")
		c.Gcode("M84")
	})
	r.run(10)
	if r.c.AllAxesHomed() {
		t.Fatal("expected not homed after M84")
	}
}

func TestResend(t *testing.T) {
	r := newRig(t, Config{}, func(c *Client) { c.Gcode("G28") })
	r.ctrl.resendN1 = true
	r.run(6)
	if len(r.ctrl.cmds) != 1 || r.ctrl.cmds[0] != "G28" {
		t.Fatalf("cmds=%q", r.ctrl.cmds)
	}
	if !r.c.AllAxesHomed() {
		t.Fatal("expected homed after resend")
	}
}

func TestSelfTestRunsScriptAndFinishes(t *testing.T) {
	var seen []proto.Test
	r := newRig(t, Config{}, func(c *Client) { c.TestStart(proto.TestFans) })
	r.ctrl.onCmd = func(string) string {
		seen = append(seen, r.svc.Status().Test)
		return "ok"
	}
	r.run(10)
	if got := strings.Join(r.ctrl.cmds, ","); got != "M106 S255,G4 S3,M106 S0" {
		t.Fatalf("cmds=%q", got)
	}
	for _, s := range seen {
		if s != proto.TestFans {
			t.Fatalf("test state during script = %v", s)
		}
	}
	if r.c.Testing() != proto.TestNone {
		t.Fatal("expected test finished")
	}
}

func TestKillCallsHook(t *testing.T) {
	var title, module string
	killed := 0
	r := newRig(t, Config{OnKill: func(ti, m string) { title, module = ti, m; killed++ }}, func(c *Client) {
		c.Gcode("M104 S215")
		c.Gcode("G28")
	})
	r.ctrl.onCmd = func(cmd string) string {
		if cmd == "M104 S215" {
			return "Error:Thermal Runaway, system stopped! Heater_ID: 0\nError:Printer halted. kill() called!"
		}
		return "ok"
	}
	r.run(6)

	if killed != 1 {
		t.Fatalf("killed=%d", killed)
	}
	if title != "Thermal Runaway" || module != "Heater_ID: 0" {
		t.Fatalf("title=%q module=%q", title, module)
	}
	if len(r.ctrl.cmds) != 1 {
		t.Fatalf("commands after kill: %q", r.ctrl.cmds)
	}
	if !r.svc.Status().Killed {
		t.Fatal("expected killed status")
	}
}

func TestDetachedClientDrops(t *testing.T) {
	c := NewClient(rtos.Capability{}, nil)
	if c.Gcode("G28") || c.AllAxesHomed() || c.Testing() != proto.TestNone {
		t.Fatal("expected detached client to be inert")
	}
}
