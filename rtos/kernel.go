// Package rtos is a cooperative scheduler with capability-guarded IPC.
//
// Task control blocks and task stacks live in an Arena that mirrors the
// panel's RAM layout, so fault screens and crash dumps can read them by
// address.
package rtos

const (
	maxTasks     = 32
	maxEndpoints = 32
	mailboxSlots = 8
)

type TaskID uint8

// Rights define which operations are allowed for a capability.
type Rights uint8

const (
	RightSend Rights = 1 << iota
	RightRecv
)

// Endpoint identifies an IPC destination.
type Endpoint uint8

// Capability grants access to an IPC endpoint.
//
// It is opaque by construction (no exported fields) and may be transferred via IPC.
type Capability struct {
	ep     Endpoint
	rights Rights
}

func (c Capability) valid() bool { return c.rights != 0 }

func (c Capability) Valid() bool { return c.valid() }

func (c Capability) canSend() bool { return c.rights&RightSend != 0 }
func (c Capability) canRecv() bool { return c.rights&RightRecv != 0 }

// Restrict returns a capability with a reduced set of rights.
func (c Capability) Restrict(rights Rights) Capability {
	if !c.valid() {
		return Capability{}
	}
	r := c.rights & rights
	if r == 0 {
		return Capability{}
	}
	return Capability{ep: c.ep, rights: r}
}

// MaxMessageBytes is the maximum payload size for IPC messages.
const MaxMessageBytes = 128

// Message is a fixed-size IPC envelope.
type Message struct {
	From Endpoint
	To   Endpoint
	Kind uint16
	Len  uint16
	Data [MaxMessageBytes]byte
	Cap  Capability
}

// Payload returns the valid part of Data.
func (m *Message) Payload() []byte {
	n := int(m.Len)
	if n > MaxMessageBytes {
		n = MaxMessageBytes
	}
	return m.Data[:n]
}

// SendResult describes the outcome of a send attempt.
type SendResult uint8

const (
	SendOK SendResult = iota
	SendErrInvalidFromCap
	SendErrInvalidToCap
	SendErrFromNoSendRight
	SendErrToNoSendRight
	SendErrNoEndpoint
	SendErrPayloadTooLarge
	SendErrQueueFull
)

func (r SendResult) String() string {
	switch r {
	case SendOK:
		return "ok"
	case SendErrInvalidFromCap:
		return "invalid from capability"
	case SendErrInvalidToCap:
		return "invalid to capability"
	case SendErrFromNoSendRight:
		return "from capability has no send right"
	case SendErrToNoSendRight:
		return "to capability has no send right"
	case SendErrNoEndpoint:
		return "no such endpoint"
	case SendErrPayloadTooLarge:
		return "payload too large"
	case SendErrQueueFull:
		return "queue full"
	default:
		return "unknown"
	}
}

// Task is a cooperative unit of execution.
type Task interface {
	Step(*Context)
}

type endpointState struct {
	q        mailbox
	waitMask uint32
}

type taskState struct {
	task     Task
	runnable bool
	waiting  Endpoint
	tcb      uint32
}

// OverflowHook is called when a task pushes past the end of its stack.
// handle is the task's TCB address.
type OverflowHook func(handle uint32, name string)

// Kernel is a minimal cooperative scheduler plus IPC router.
type Kernel struct {
	endpoints     [maxEndpoints]endpointState
	endpointCount Endpoint

	tasks     [maxTasks]taskState
	taskCount TaskID

	rr TaskID

	tickWaitMask uint32
	tick         uint64

	arena    *Arena
	overflow OverflowHook

	panicked     bool
	panicHandler func(PanicInfo)
}

// New creates a kernel whose task memory lives in arena. A nil arena gets
// a default-sized one.
func New(arena *Arena) *Kernel {
	if arena == nil {
		arena = NewArena(DefaultArenaSize)
	}
	return &Kernel{arena: arena}
}

// Arena returns the task memory.
func (k *Kernel) Arena() *Arena { return k.arena }

// SetOverflowHook installs the stack overflow hook.
func (k *Kernel) SetOverflowHook(fn OverflowHook) { k.overflow = fn }

// NewEndpoint allocates a new endpoint and returns a capability for it.
func (k *Kernel) NewEndpoint(rights Rights) Capability {
	if k.endpointCount >= maxEndpoints {
		return Capability{}
	}
	ep := k.endpointCount
	k.endpointCount++
	return Capability{ep: ep, rights: rights}
}

// AddTask registers a task with a stack of stackWords words and returns its
// ID. ok is false when the task table or the arena is full.
func (k *Kernel) AddTask(name string, t Task, stackWords uint32) (id TaskID, ok bool) {
	if k.taskCount >= maxTasks {
		return 0, false
	}
	tcb, ok := k.arena.allocTask(name, stackWords)
	if !ok {
		return 0, false
	}
	id = k.taskCount
	k.taskCount++
	k.tasks[id] = taskState{task: t, runnable: true, tcb: tcb}
	return id, true
}

// TaskTCB returns the TCB address of a task.
func (k *Kernel) TaskTCB(id TaskID) uint32 {
	if id >= k.taskCount {
		return 0
	}
	return k.tasks[id].tcb
}

// Step runs at most one runnable task step. It reports whether a task ran.
func (k *Kernel) Step() bool {
	if k.taskCount == 0 {
		return false
	}

	for i := TaskID(0); i < k.taskCount; i++ {
		id := (k.rr + i) % k.taskCount
		st := &k.tasks[id]
		if st.task == nil || !st.runnable {
			continue
		}

		k.rr = (id + 1) % k.taskCount
		ctx := &Context{k: k, taskID: id, tcb: st.tcb}
		k.run(ctx, st)

		if ctx.blocked {
			st.runnable = false
			if ctx.blockOnTick {
				k.tickWaitMask |= 1 << id
			} else {
				st.waiting = ctx.blockOn
				if st.waiting < k.endpointCount {
					k.endpoints[st.waiting].waitMask |= 1 << id
				}
			}
		}
		return true
	}
	return false
}

// stepFrameMagic tags the frame the scheduler pushes around every step.
const stepFrameMagic = 0x5AFE0000

func (k *Kernel) run(ctx *Context, st *taskState) {
	k.arena.setCurrent(st.tcb)
	mark := k.arena.top(st.tcb)
	defer func() {
		if v := recover(); v != nil {
			file, line := panicSite()
			k.triggerPanic(PanicInfo{
				TaskID: ctx.taskID,
				Name:   k.arena.taskName(st.tcb),
				TCB:    st.tcb,
				Value:  v,
				File:   file,
				Line:   line,
			})
		}
		k.arena.setTop(st.tcb, mark)
	}()

	ctx.Push(stepFrameMagic|uint32(ctx.taskID), uint32(k.tick))
	st.task.Step(ctx)
}

// Tick advances the tick counter and wakes tasks blocked via Context.BlockOnTick.
func (k *Kernel) Tick() {
	k.tick++
	wait := k.tickWaitMask
	if wait == 0 {
		return
	}

	for tid := TaskID(0); tid < k.taskCount; tid++ {
		if wait&(1<<tid) == 0 {
			continue
		}
		k.tasks[tid].runnable = true
	}
	k.tickWaitMask = 0
}

// NowTick returns the tick counter.
func (k *Kernel) NowTick() uint64 { return k.tick }

func (k *Kernel) send(from Endpoint, to Endpoint, kind uint16, payload []byte, xfer Capability) SendResult {
	if to >= k.endpointCount {
		return SendErrNoEndpoint
	}
	if len(payload) > MaxMessageBytes {
		return SendErrPayloadTooLarge
	}

	var msg Message
	msg.From = from
	msg.To = to
	msg.Kind = kind
	msg.Len = uint16(len(payload))
	copy(msg.Data[:], payload)
	msg.Cap = xfer

	ep := &k.endpoints[to]
	if !ep.q.push(msg) {
		return SendErrQueueFull
	}

	wait := ep.waitMask
	if wait == 0 {
		return SendOK
	}

	for tid := TaskID(0); tid < k.taskCount; tid++ {
		if wait&(1<<tid) == 0 {
			continue
		}
		k.tasks[tid].runnable = true
		ep.waitMask &^= 1 << tid
	}
	return SendOK
}

func (k *Kernel) recv(to Endpoint) (Message, bool) {
	if to >= k.endpointCount {
		return Message{}, false
	}
	return k.endpoints[to].q.pop()
}
