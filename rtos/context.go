package rtos

// Context provides task-local access to kernel operations for one step.
type Context struct {
	k      *Kernel
	taskID TaskID
	tcb    uint32

	blocked     bool
	blockOnTick bool
	blockOn     Endpoint
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// TCB returns the address of the current task's control block.
func (c *Context) TCB() uint32 { return c.tcb }

// Recv takes one message from the capability endpoint. When the queue is
// empty the task is blocked on the endpoint until a message arrives.
func (c *Context) Recv(epCap Capability) (Message, bool) {
	msg, ok := c.TryRecv(epCap)
	if ok {
		return msg, true
	}
	if epCap.valid() && epCap.canRecv() {
		c.blocked = true
		c.blockOnTick = false
		c.blockOn = epCap.ep
	}
	return Message{}, false
}

// TryRecv takes one message from the capability endpoint without blocking.
func (c *Context) TryRecv(epCap Capability) (Message, bool) {
	if !epCap.valid() || !epCap.canRecv() {
		return Message{}, false
	}
	return c.k.recv(epCap.ep)
}

// Pending is the number of messages queued on the capability endpoint, or
// zero without the receive right.
func (c *Context) Pending(epCap Capability) int {
	if !epCap.valid() || !epCap.canRecv() || epCap.ep >= c.k.endpointCount {
		return 0
	}
	return c.k.endpoints[epCap.ep].q.len()
}

// BlockOnTick blocks the task until the next Kernel.Tick call.
func (c *Context) BlockOnTick() {
	c.blocked = true
	c.blockOnTick = true
}

// Send sends a message to the capability endpoint.
func (c *Context) Send(fromCap, toCap Capability, kind uint16, payload []byte) bool {
	return c.SendCapResult(fromCap, toCap, kind, payload, Capability{}) == SendOK
}

// SendCapResult sends a message and transfers an optional capability.
func (c *Context) SendCapResult(fromCap, toCap Capability, kind uint16, payload []byte, xfer Capability) SendResult {
	if !fromCap.valid() {
		return SendErrInvalidFromCap
	}
	if !fromCap.canSend() {
		return SendErrFromNoSendRight
	}
	if !toCap.valid() {
		return SendErrInvalidToCap
	}
	if !toCap.canSend() {
		return SendErrToNoSendRight
	}
	return c.k.send(fromCap.ep, toCap.ep, kind, payload, xfer)
}

// SendTo sends a message to the capability endpoint.
//
// The message From field is set to 0 (unknown).
func (c *Context) SendTo(toCap Capability, kind uint16, payload []byte) bool {
	return c.SendToResult(toCap, kind, payload) == SendOK
}

// SendToResult is SendTo with the detailed outcome.
func (c *Context) SendToResult(toCap Capability, kind uint16, payload []byte) SendResult {
	if !toCap.valid() {
		return SendErrInvalidToCap
	}
	if !toCap.canSend() {
		return SendErrToNoSendRight
	}
	return c.k.send(0, toCap.ep, kind, payload, Capability{})
}

// NewEndpoint allocates a new endpoint and returns a capability for it.
func (c *Context) NewEndpoint(rights Rights) Capability {
	return c.k.NewEndpoint(rights)
}

// NowTick returns the kernel tick counter.
func (c *Context) NowTick() uint64 { return c.k.tick }

// Push places words on the task stack, most recent last. Pushing past the
// end of the stack calls the overflow hook; if the hook returns, the words
// are dropped.
func (c *Context) Push(words ...uint32) {
	for _, w := range words {
		if !c.k.arena.push(c.tcb, w) {
			if c.k.overflow != nil {
				c.k.overflow(c.tcb, c.k.arena.taskName(c.tcb))
			}
			return
		}
	}
}

// Pop removes n words from the task stack.
func (c *Context) Pop(n int) {
	c.k.arena.pop(c.tcb, n)
}
