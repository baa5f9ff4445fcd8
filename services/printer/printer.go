// Package printer is the kernel task that talks to the motion controller.
//
// Commands reach it over IPC and wait in a fixed queue. One line is in
// flight at a time; the next is sent after the controller answers "ok".
// When the controller halts, the preceding error is handed to the kill hook.
package printer

import (
	"minipanel/gcode"
	"minipanel/hal"
	"minipanel/proto"
	"minipanel/rtos"
	"minipanel/services/logger"
)

// Status is the controller state visible to the UI. Only the printer task
// writes it.
type Status struct {
	Homed  bool
	Busy   bool
	Test   proto.Test
	Killed bool
	// Sent counts lines acknowledged by the controller.
	Sent uint32
}

// KillFunc receives the kill message split into title and module.
type KillFunc func(title, module string)

type Config struct {
	Serial hal.Serial
	Log    *logger.Client
	OnKill KillFunc
}

type Service struct {
	serial hal.Serial
	ep     rtos.Capability
	log    *logger.Client
	onKill KillFunc

	status Status

	q        gcode.Queue
	line     uint32
	inflight bool
	frame    []byte
	frameBuf [gcode.MaxCommand + 24]byte
	rx       [64]byte
	lines    gcode.LineReader

	lastErr    [96]byte
	lastErrLen int

	ctx *rtos.Context
}

func New(cfg Config, ep rtos.Capability) *Service {
	return &Service{
		serial: cfg.Serial,
		ep:     ep,
		log:    cfg.Log,
		onKill: cfg.OnKill,
	}
}

// Status returns the live state.
func (s *Service) Status() *Status { return &s.status }

func (s *Service) Step(ctx *rtos.Context) {
	s.ctx = ctx
	for {
		msg, ok := ctx.TryRecv(s.ep)
		if !ok {
			break
		}
		s.handle(&msg)
	}
	s.poll()
	s.flush()
	s.ctx = nil
	ctx.BlockOnTick()
}

func (s *Service) handle(msg *rtos.Message) {
	if s.status.Killed {
		return
	}
	switch proto.Kind(msg.Kind) {
	case proto.MsgGcode:
		if !s.q.Push(string(msg.Payload())) {
			s.log.Printf(s.ctx, "printer: queue full, dropped %q", msg.Payload())
		}
	case proto.MsgGcodeFront:
		if !s.q.PushFront(string(msg.Payload())) {
			s.log.Printf(s.ctx, "printer: queue full, dropped %q", msg.Payload())
		}
	case proto.MsgTestStart:
		t, ok := proto.DecodeTestPayload(msg.Payload())
		if !ok || t == proto.TestNone || s.status.Test != proto.TestNone {
			return
		}
		s.status.Test = t
		for _, cmd := range testScripts[t] {
			s.q.Push(cmd)
		}
		s.log.Printf(s.ctx, "printer: test %s started", t)
	case proto.MsgTestAbort:
		if s.status.Test == proto.TestNone {
			return
		}
		s.log.Printf(s.ctx, "printer: test %s aborted", s.status.Test)
		s.status.Test = proto.TestNone
		s.q.Clear()
		for _, cmd := range abortScript {
			s.q.Push(cmd)
		}
	}
}

func (s *Service) poll() {
	if s.serial == nil {
		return
	}
	for {
		n, err := s.serial.Read(s.rx[:])
		if n > 0 {
			s.lines.Feed(s.rx[:n], s.reply)
		}
		if n == 0 || err != nil {
			return
		}
	}
}

func (s *Service) reply(line string) {
	r := gcode.ParseReply(line)
	switch r.Kind {
	case gcode.ReplyOK:
		if !s.inflight {
			return
		}
		s.inflight = false
		if cmd, ok := s.q.Peek(); ok {
			s.applied(cmd)
		}
		s.q.Pop()
		s.status.Sent++
	case gcode.ReplyResend:
		if s.inflight && r.Line == s.line && s.serial != nil {
			_, _ = s.serial.Write(s.frame)
		}
	case gcode.ReplyBusy:
	case gcode.ReplyError:
		s.lastErrLen = copy(s.lastErr[:], r.Text)
		s.log.Printf(s.ctx, "printer: error %s", r.Text)
	case gcode.ReplyHalted:
		s.kill()
	default:
		if r.Text != "" {
			s.log.Printf(s.ctx, "printer: %s", r.Text)
		}
	}
}

// applied updates Status after the controller acknowledged cmd.
func (s *Service) applied(cmd string) {
	switch word(cmd) {
	case "G28":
		s.status.Homed = true
	case "M18", "M84":
		s.status.Homed = false
	}
}

func word(cmd string) string {
	for i := 0; i < len(cmd); i++ {
		if cmd[i] == ' ' {
			return cmd[:i]
		}
	}
	return cmd
}

func (s *Service) kill() {
	s.status.Killed = true
	s.status.Busy = false
	s.status.Test = proto.TestNone
	s.inflight = false
	s.q.Clear()

	title, module := gcode.SplitKill(string(s.lastErr[:s.lastErrLen]))
	s.log.Printf(s.ctx, "printer: killed: %s", title)
	if s.onKill != nil {
		s.onKill(title, module)
	}
}

func (s *Service) flush() {
	if s.status.Killed {
		return
	}
	if s.inflight || s.serial == nil {
		s.status.Busy = s.inflight
		return
	}
	cmd, ok := s.q.Peek()
	if !ok {
		s.status.Busy = false
		if s.status.Test != proto.TestNone {
			s.log.Printf(s.ctx, "printer: test %s done", s.status.Test)
			s.status.Test = proto.TestNone
		}
		return
	}
	s.line++
	s.frame = gcode.AppendLine(s.frameBuf[:0], s.line, cmd)
	if _, err := s.serial.Write(s.frame); err != nil {
		s.log.Printf(s.ctx, "printer: write: %v", err)
		return
	}
	s.inflight = true
	s.status.Busy = true
}

var testScripts = [...][]string{
	proto.TestFans:     {"M106 S255", "G4 S3", "M106 S0"},
	proto.TestXYZ:      {"G28", "G1 X180 Y180 Z50 F3000", "G1 X0 Y0 Z10 F3000"},
	proto.TestHeaters:  {"M104 S50", "M140 S50", "G4 S10", "M104 S0", "M140 S0"},
	proto.TestFansFine: {"M106 S64", "G4 S2", "M106 S128", "G4 S2", "M106 S0"},
}

var abortScript = []string{"M106 S0", "M104 S0", "M140 S0"}
