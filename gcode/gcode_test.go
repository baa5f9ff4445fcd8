package gcode

import (
	"strings"
	"testing"
)

func TestAppendLineChecksum(t *testing.T) {
	got := string(AppendLine(nil, 1, "G28"))
	cs := Checksum([]byte("N1 G28"))
	want := "N1 G28*" + itoa(int(cs)) + "\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var b []byte
	for v > 0 {
		b = append([]byte{byte('0' + v%10)}, b...)
		v /= 10
	}
	return string(b)
}

func TestQueuePushFront(t *testing.T) {
	var q Queue
	q.Push("G28")
	q.Push("G29")
	q.PushFront("M600")

	var got []string
	for q.Len() > 0 {
		cmd, _ := q.Peek()
		got = append(got, cmd)
		q.Pop()
	}
	if strings.Join(got, ",") != "M600,G28,G29" {
		t.Fatalf("got %v", got)
	}
	if _, ok := q.Peek(); ok {
		t.Fatal("expected empty queue")
	}
}

func TestQueueFull(t *testing.T) {
	var q Queue
	for i := 0; i < QueueSize; i++ {
		if !q.Push("M105") {
			t.Fatalf("push %d failed", i)
		}
	}
	if q.Push("M105") || q.PushFront("M112") {
		t.Fatal("expected full queue")
	}
	if q.Push(strings.Repeat("x", MaxCommand+1)) {
		t.Fatal("expected too long command to be rejected")
	}
}

func TestParseReply(t *testing.T) {
	cases := []struct {
		line string
		kind ReplyKind
	}{
		{"ok", ReplyOK},
		{"ok T:210.0 /210.0", ReplyOK},
		{"Resend: 7", ReplyResend},
		{"echo:busy: processing", ReplyBusy},
		{"Error:checksum mismatch, Last Line: 6", ReplyError},
		{"Error:Printer halted. kill() called!", ReplyHalted},
		{"start", ReplyOther},
	}
	for _, c := range cases {
		if got := ParseReply(c.line); got.Kind != c.kind {
			t.Fatalf("%q: kind=%d want %d", c.line, got.Kind, c.kind)
		}
	}
	if r := ParseReply("Resend: 7\r"); r.Line != 7 {
		t.Fatalf("line=%d", r.Line)
	}
}

func TestSplitKill(t *testing.T) {
	title, module := SplitKill("Thermal Runaway, system stopped! Heater_ID: 0")
	if title != "Thermal Runaway" || module != "Heater_ID: 0" {
		t.Fatalf("title=%q module=%q", title, module)
	}
	title, module = SplitKill("Emergency stop (M112)")
	if title != "Emergency stop (M112)" || module != "" {
		t.Fatalf("title=%q module=%q", title, module)
	}
}

func TestLineReader(t *testing.T) {
	var r LineReader
	var lines []string
	r.Feed([]byte("ok\nEr"), func(l string) { lines = append(lines, l) })
	r.Feed([]byte("ror:x\n"), func(l string) { lines = append(lines, l) })
	if strings.Join(lines, "|") != "ok|Error:x" {
		t.Fatalf("got %q", lines)
	}
}
