package rtos

import (
	"strings"
	"testing"
)

type funcTask func(*Context)

func (f funcTask) Step(ctx *Context) { f(ctx) }

func TestSendRecvWakesBlockedTask(t *testing.T) {
	k := New(nil)
	ep := k.NewEndpoint(RightSend | RightRecv)

	var got []string
	recv := funcTask(func(ctx *Context) {
		msg, ok := ctx.Recv(ep.Restrict(RightRecv))
		if ok {
			got = append(got, string(msg.Payload()))
		}
	})
	if _, ok := k.AddTask("recv", recv, 64); !ok {
		t.Fatal("AddTask failed")
	}

	if !k.Step() {
		t.Fatal("expected task to run")
	}
	if k.Step() {
		t.Fatal("blocked task should not run")
	}

	ctx := &Context{k: k}
	if res := ctx.SendToResult(ep.Restrict(RightSend), 1, []byte("hi")); res != SendOK {
		t.Fatalf("send: %s", res)
	}
	if !k.Step() {
		t.Fatal("expected wake after send")
	}
	if len(got) != 1 || got[0] != "hi" {
		t.Fatalf("got %q", got)
	}
}

func TestSendRights(t *testing.T) {
	k := New(nil)
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k}

	if res := ctx.SendToResult(ep.Restrict(RightRecv), 1, nil); res != SendErrToNoSendRight {
		t.Fatalf("got %s", res)
	}
	if res := ctx.SendToResult(Capability{}, 1, nil); res != SendErrInvalidToCap {
		t.Fatalf("got %s", res)
	}
	if res := ctx.SendToResult(ep, 1, make([]byte, MaxMessageBytes+1)); res != SendErrPayloadTooLarge {
		t.Fatalf("got %s", res)
	}
	for i := 0; i < mailboxSlots; i++ {
		if res := ctx.SendToResult(ep, 1, nil); res != SendOK {
			t.Fatalf("send %d: %s", i, res)
		}
	}
	if res := ctx.SendToResult(ep, 1, nil); res != SendErrQueueFull {
		t.Fatalf("got %s", res)
	}
	if _, ok := ctx.TryRecv(ep.Restrict(RightSend)); ok {
		t.Fatal("recv without right")
	}
}

func TestBlockOnTick(t *testing.T) {
	k := New(nil)
	runs := 0
	k.AddTask("tick", funcTask(func(ctx *Context) {
		runs++
		ctx.BlockOnTick()
	}), 64)

	k.Step()
	k.Step()
	if runs != 1 {
		t.Fatalf("runs=%d", runs)
	}
	k.Tick()
	k.Step()
	if runs != 2 {
		t.Fatalf("runs=%d", runs)
	}
	if k.NowTick() != 1 {
		t.Fatalf("tick=%d", k.NowTick())
	}
}

func TestArenaTCBLayout(t *testing.T) {
	k := New(NewArena(1024))
	var seen uint32
	id, ok := k.AddTask("marlin_server", funcTask(func(ctx *Context) {
		seen = k.Arena().Current()
		ctx.Push(0xCAFEBABE)
	}), 16)
	if !ok {
		t.Fatal("AddTask failed")
	}
	tcb := k.TaskTCB(id)
	a := k.Arena()
	if got := a.taskName(tcb); got != "marlin_server" {
		t.Fatalf("name=%q", got)
	}
	base := a.word(tcb + TCBStackBase)
	if base != tcb+TCBSize {
		t.Fatalf("base=%#x tcb=%#x", base, tcb)
	}
	if top := a.top(tcb); top != base-4 {
		t.Fatalf("empty top=%#x base=%#x", top, base)
	}

	k.Step()
	if seen != tcb {
		t.Fatalf("current=%#x want %#x", seen, tcb)
	}
	if top := a.top(tcb); top != base-4 {
		t.Fatalf("frame not popped: top=%#x", top)
	}
	// the step frame and pushed word stay in memory above the top
	if w := a.word(base + 8); w != 0xCAFEBABE {
		t.Fatalf("word=%#x", w)
	}
}

func TestArenaReadAt(t *testing.T) {
	a := NewArena(64)
	a.putWord(RAMBase+16, 0x11223344)
	var p [4]byte
	if n, err := a.ReadAt(p[:], RAMBase+16); n != 4 || err != nil {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if p[0] != 0x44 || p[3] != 0x11 {
		t.Fatalf("got % x", p)
	}
	if _, err := a.ReadAt(p[:], RAMBase-4); err != ErrOutOfRange {
		t.Fatalf("err=%v", err)
	}
	if n, err := a.ReadAt(p[:], RAMBase+62); n != 2 || err == nil {
		t.Fatalf("n=%d err=%v", n, err)
	}
}

func TestLongNameTruncated(t *testing.T) {
	a := NewArena(256)
	tcb, ok := a.allocTask("a_very_long_task_name", 4)
	if !ok {
		t.Fatal("alloc failed")
	}
	if got := a.taskName(tcb); got != "a_very_long_tas" {
		t.Fatalf("name=%q", got)
	}
}

func TestArenaFull(t *testing.T) {
	k := New(NewArena(128))
	if _, ok := k.AddTask("big", funcTask(func(*Context) {}), 64); ok {
		t.Fatal("expected arena full")
	}
}

func TestStackOverflowHook(t *testing.T) {
	k := New(NewArena(256))
	var handle uint32
	var name string
	k.SetOverflowHook(func(h uint32, n string) {
		handle, name = h, n
	})
	id, _ := k.AddTask("deep", funcTask(func(ctx *Context) {
		for i := 0; i < 8; i++ {
			ctx.Push(uint32(i))
		}
	}), 4)
	k.Step()
	if handle != k.TaskTCB(id) || name != "deep" {
		t.Fatalf("hook got %#x %q", handle, name)
	}
}

func TestPanicHandlerOnce(t *testing.T) {
	k := New(nil)
	var infos []PanicInfo
	k.SetPanicHandler(func(info PanicInfo) { infos = append(infos, info) })
	k.AddTask("bad", funcTask(func(*Context) {
		panic("boom")
	}), 32)

	k.Step()
	k.Step()
	if len(infos) != 1 {
		t.Fatalf("handler calls=%d", len(infos))
	}
	info := infos[0]
	if info.Value != "boom" || info.Name != "bad" {
		t.Fatalf("info=%+v", info)
	}
	if !strings.HasSuffix(info.File, "kernel_test.go") || info.Line == 0 {
		t.Fatalf("site=%s:%d", info.File, info.Line)
	}
	if !k.InPanicMode() {
		t.Fatal("expected panic mode")
	}
}

func TestMailboxWrapsInOrder(t *testing.T) {
	k := New(nil)
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k}

	kind := uint16(0)
	send := func(n int) {
		for range n {
			if !ctx.SendTo(ep, kind, nil) {
				t.Fatalf("send kind %d refused", kind)
			}
			kind++
		}
	}
	want := uint16(0)
	recv := func(n int) {
		for range n {
			msg, ok := ctx.TryRecv(ep)
			if !ok || msg.Kind != want {
				t.Fatalf("recv got kind %d ok=%v, want %d", msg.Kind, ok, want)
			}
			want++
		}
	}

	send(mailboxSlots)
	recv(3)
	send(3)
	if n := ctx.Pending(ep); n != mailboxSlots {
		t.Fatalf("pending %d", n)
	}
	if ctx.Pending(ep.Restrict(RightSend)) != 0 {
		t.Fatal("pending without receive right")
	}
	if ctx.SendTo(ep, kind, nil) {
		t.Fatal("full mailbox accepted a message")
	}
	recv(mailboxSlots)
	if _, ok := ctx.TryRecv(ep); ok || ctx.Pending(ep) != 0 {
		t.Fatal("mailbox not empty")
	}
}
