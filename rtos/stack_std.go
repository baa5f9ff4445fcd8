//go:build !tinygo

package rtos

import (
	"runtime"
	"runtime/debug"
	"strings"
)

func captureStack() []byte {
	return debug.Stack()
}

// panicSite returns the first frame outside the runtime and the scheduler's
// recover path, which is the statement that panicked.
func panicSite() (string, int) {
	var pcs [32]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "runtime.") && !strings.HasPrefix(f.Function, "minipanel/rtos.(*Kernel).run") {
			return f.File, f.Line
		}
		if !more {
			return "", 0
		}
	}
}
