package rtos

// PanicInfo contains details about a recovered task panic.
type PanicInfo struct {
	TaskID TaskID
	Name   string
	TCB    uint32
	Value  any
	Stack  []byte

	// File and Line locate the panicking statement when known.
	File string
	Line int
}

// InPanicMode reports whether a task has panicked.
func (k *Kernel) InPanicMode() bool { return k.panicked }

// SetPanicHandler installs the panic handler.
//
// The handler is invoked at most once (on the first panic). It must not panic.
func (k *Kernel) SetPanicHandler(fn func(PanicInfo)) {
	k.panicHandler = fn
}

func (k *Kernel) triggerPanic(info PanicInfo) {
	if k.panicked {
		return
	}
	k.panicked = true
	info.Stack = captureStack()
	if k.panicHandler != nil {
		k.panicHandler(info)
	}
}
