package logger

import (
	"strings"
	"testing"

	"minipanel/rtos"
)

type lines []string

func (l *lines) WriteLineString(s string) { *l = append(*l, s) }
func (l *lines) WriteLineBytes(b []byte)  { *l = append(*l, string(b)) }

type stepFunc func(*rtos.Context)

func (f stepFunc) Step(ctx *rtos.Context) { f(ctx) }

func TestServiceWritesLines(t *testing.T) {
	k := rtos.New(nil)
	ep := k.NewEndpoint(rtos.RightSend | rtos.RightRecv)
	var out lines
	if _, ok := k.AddTask("logger", New(&out, ep), 32); !ok {
		t.Fatal("AddTask logger failed")
	}

	c := NewClient(ep)
	sent := false
	k.AddTask("client", stepFunc(func(ctx *rtos.Context) {
		if !sent {
			sent = true
			c.Print(ctx, "hello")
			c.Printf(ctx, "tick=%d", 3)
			c.Print(ctx, strings.Repeat("x", 200))
		}
		ctx.BlockOnTick()
	}), 32)

	for i := 0; i < 4; i++ {
		for k.Step() {
		}
		k.Tick()
	}

	if len(out) != 3 {
		t.Fatalf("got %d lines: %q", len(out), out)
	}
	if out[0] != "hello" || out[1] != "tick=3" {
		t.Fatalf("got %q", out)
	}
	if len(out[2]) != rtos.MaxMessageBytes {
		t.Fatalf("long line len=%d", len(out[2]))
	}
}

func TestZeroClientDrops(t *testing.T) {
	var c Client
	if c.Print(nil, "x") {
		t.Fatal("expected drop")
	}
	var nc *Client
	if nc.Printf(nil, "x") {
		t.Fatal("expected drop")
	}
}

func TestTeeSkipsNil(t *testing.T) {
	var a, b lines
	tee := Tee{&a, nil, &b}
	tee.WriteLineString("one")
	tee.WriteLineBytes([]byte("two"))
	if strings.Join(a, ",") != "one,two" || strings.Join(b, ",") != "one,two" {
		t.Fatalf("a=%v b=%v", a, b)
	}
}
