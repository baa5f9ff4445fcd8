// Package logger is the kernel task that owns the log sink. Other tasks send
// it MsgLogLine messages instead of writing to hal.Logger directly.
package logger

import (
	"fmt"

	"minipanel/hal"
	"minipanel/proto"
	"minipanel/rtos"
)

type Service struct {
	log hal.Logger
	ep  rtos.Capability
}

func New(log hal.Logger, ep rtos.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Step(ctx *rtos.Context) {
	for {
		msg, ok := ctx.Recv(s.ep)
		if !ok {
			return
		}
		if s.log == nil || msg.Kind != uint16(proto.MsgLogLine) {
			continue
		}
		s.log.WriteLineBytes(msg.Payload())
	}
}

// Client formats lines for the logger task. The zero value drops everything.
type Client struct {
	ep  rtos.Capability
	buf [rtos.MaxMessageBytes]byte
}

func NewClient(ep rtos.Capability) *Client {
	return &Client{ep: ep.Restrict(rtos.RightSend)}
}

// Print sends s, cut to the IPC payload size.
func (c *Client) Print(ctx *rtos.Context, s string) bool {
	if c == nil || ctx == nil || !c.ep.Valid() {
		return false
	}
	n := copy(c.buf[:], s)
	return ctx.SendTo(c.ep, uint16(proto.MsgLogLine), c.buf[:n])
}

func (c *Client) Printf(ctx *rtos.Context, format string, args ...any) bool {
	if c == nil {
		return false
	}
	b := fmt.Appendf(c.buf[:0], format, args...)
	if len(b) > rtos.MaxMessageBytes {
		b = b[:rtos.MaxMessageBytes]
	}
	if ctx == nil || !c.ep.Valid() {
		return false
	}
	return ctx.SendTo(c.ep, uint16(proto.MsgLogLine), b)
}

// Tee writes every line to each sink in order.
type Tee []hal.Logger

func (t Tee) WriteLineString(s string) {
	for _, l := range t {
		if l != nil {
			l.WriteLineString(s)
		}
	}
}

func (t Tee) WriteLineBytes(b []byte) {
	for _, l := range t {
		if l != nil {
			l.WriteLineBytes(b)
		}
	}
}
