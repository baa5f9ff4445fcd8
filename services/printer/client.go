package printer

import (
	"fmt"

	"minipanel/proto"
	"minipanel/rtos"
)

// Client is the UI side of the printer task. It sends through the context
// of the task currently running, set with Attach.
type Client struct {
	ep  rtos.Capability
	st  *Status
	ctx *rtos.Context
	buf [rtos.MaxMessageBytes]byte
}

func NewClient(ep rtos.Capability, st *Status) *Client {
	return &Client{ep: ep.Restrict(rtos.RightSend), st: st}
}

// Attach binds the client to the running task's context for one step.
// Attach(nil) detaches it.
func (c *Client) Attach(ctx *rtos.Context) {
	if c != nil {
		c.ctx = ctx
	}
}

func (c *Client) send(kind proto.Kind, payload []byte) bool {
	if c == nil || c.ctx == nil {
		return false
	}
	return c.ctx.SendTo(c.ep, uint16(kind), payload)
}

// Gcode queues cmd behind everything already queued.
func (c *Client) Gcode(cmd string) bool {
	if len(cmd) > rtos.MaxMessageBytes {
		return false
	}
	return c.send(proto.MsgGcode, []byte(cmd))
}

// GcodeFront queues cmd ahead of everything already queued.
func (c *Client) GcodeFront(cmd string) bool {
	if len(cmd) > rtos.MaxMessageBytes {
		return false
	}
	return c.send(proto.MsgGcodeFront, []byte(cmd))
}

func (c *Client) Gcodef(format string, args ...any) bool {
	if c == nil {
		return false
	}
	b := fmt.Appendf(c.buf[:0], format, args...)
	if len(b) > rtos.MaxMessageBytes {
		return false
	}
	return c.send(proto.MsgGcode, b)
}

func (c *Client) TestStart(t proto.Test) bool {
	return c.send(proto.MsgTestStart, proto.TestPayload(t))
}

func (c *Client) TestAbort() bool {
	return c.send(proto.MsgTestAbort, nil)
}

func (c *Client) AllAxesHomed() bool { return c != nil && c.st != nil && c.st.Homed }

// Testing reports the running self test, if any.
func (c *Client) Testing() proto.Test {
	if c == nil || c.st == nil {
		return proto.TestNone
	}
	return c.st.Test
}

func (c *Client) Busy() bool { return c != nil && c.st != nil && c.st.Busy }
