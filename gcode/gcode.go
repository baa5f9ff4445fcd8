// Package gcode frames commands for the motion controller and parses its
// replies. The protocol is line based: every command is sent as
// "N<line> <cmd>*<checksum>" and answered with "ok", a resend request or an
// error.
package gcode

import (
	"strconv"
	"strings"
)

const (
	// MaxCommand is the longest command the queue stores.
	MaxCommand = 96
	// QueueSize is the number of queued commands.
	QueueSize = 16
)

// Checksum is the XOR of every byte of b.
func Checksum(b []byte) byte {
	var cs byte
	for _, c := range b {
		cs ^= c
	}
	return cs
}

// AppendLine appends the framed form of cmd with line number n to dst,
// including the trailing newline.
func AppendLine(dst []byte, n uint32, cmd string) []byte {
	start := len(dst)
	dst = append(dst, 'N')
	dst = strconv.AppendUint(dst, uint64(n), 10)
	dst = append(dst, ' ')
	dst = append(dst, cmd...)
	cs := Checksum(dst[start:])
	dst = append(dst, '*')
	dst = strconv.AppendUint(dst, uint64(cs), 10)
	return append(dst, '\n')
}

// Queue is a fixed ring of pending commands.
type Queue struct {
	cmds [QueueSize][MaxCommand]byte
	lens [QueueSize]uint8
	head int
	n    int
}

func (q *Queue) Len() int { return q.n }

func (q *Queue) Clear() { q.head, q.n = 0, 0 }

func (q *Queue) put(slot int, cmd string) {
	q.lens[slot] = uint8(copy(q.cmds[slot][:], cmd))
}

// Push appends cmd. It reports false when the queue is full or cmd is too long.
func (q *Queue) Push(cmd string) bool {
	if q.n == QueueSize || len(cmd) > MaxCommand || cmd == "" {
		return false
	}
	q.put((q.head+q.n)%QueueSize, cmd)
	q.n++
	return true
}

// PushFront inserts cmd ahead of everything queued.
func (q *Queue) PushFront(cmd string) bool {
	if q.n == QueueSize || len(cmd) > MaxCommand || cmd == "" {
		return false
	}
	q.head = (q.head + QueueSize - 1) % QueueSize
	q.put(q.head, cmd)
	q.n++
	return true
}

// Peek returns the next command without removing it.
func (q *Queue) Peek() (string, bool) {
	if q.n == 0 {
		return "", false
	}
	return string(q.cmds[q.head][:q.lens[q.head]]), true
}

// Pop removes the next command.
func (q *Queue) Pop() {
	if q.n == 0 {
		return
	}
	q.head = (q.head + 1) % QueueSize
	q.n--
}

// ReplyKind classifies a controller line.
type ReplyKind uint8

const (
	ReplyOther ReplyKind = iota
	ReplyOK
	ReplyResend
	ReplyBusy
	ReplyError
	// ReplyHalted means the controller killed itself; the preceding error
	// names the cause.
	ReplyHalted
)

// Reply is one parsed controller line.
type Reply struct {
	Kind ReplyKind
	Text string
	// Line is the line number of a resend request.
	Line uint32
}

const haltedText = "Printer halted. kill() called!"

// ParseReply classifies one line without its newline.
func ParseReply(line string) Reply {
	line = strings.TrimRight(line, "\r ")
	switch {
	case line == "ok" || strings.HasPrefix(line, "ok "):
		return Reply{Kind: ReplyOK}
	case strings.HasPrefix(line, "Resend:"):
		n, err := strconv.ParseUint(strings.TrimSpace(line[len("Resend:"):]), 10, 32)
		if err != nil {
			return Reply{Kind: ReplyOther, Text: line}
		}
		return Reply{Kind: ReplyResend, Line: uint32(n)}
	case strings.HasPrefix(line, "echo:busy"):
		return Reply{Kind: ReplyBusy, Text: line}
	case strings.HasPrefix(line, "Error:"):
		text := line[len("Error:"):]
		if text == haltedText {
			return Reply{Kind: ReplyHalted, Text: text}
		}
		return Reply{Kind: ReplyError, Text: text}
	}
	return Reply{Kind: ReplyOther, Text: line}
}

const stoppedSep = ", system stopped! "

// SplitKill separates a kill message into the title shown on the error
// screen and the module that raised it. Thermal errors carry the heater
// ("Heater_ID: 0"); plain stops have no module.
func SplitKill(text string) (title, module string) {
	if i := strings.Index(text, stoppedSep); i >= 0 {
		return text[:i], text[i+len(stoppedSep):]
	}
	return text, ""
}

// LineReader splits a byte stream into lines using a fixed buffer. Lines
// longer than the buffer are cut.
type LineReader struct {
	buf [128]byte
	n   int
}

// Feed consumes p and calls fn for every complete line.
func (r *LineReader) Feed(p []byte, fn func(line string)) {
	for _, c := range p {
		if c == '\n' {
			fn(string(r.buf[:r.n]))
			r.n = 0
			continue
		}
		if r.n < len(r.buf) {
			r.buf[r.n] = c
			r.n++
		}
	}
}
