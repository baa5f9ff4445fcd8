//go:build tinygo && cortexm

package cortexm

import (
	"runtime/volatile"
	"unsafe"
)

// CaptureSCB copies the live System Control Block.
func CaptureSCB() SCB {
	var s SCB
	for i := range s {
		r := (*volatile.Register32)(unsafe.Pointer(uintptr(SCBBase + i*4)))
		s[i] = r.Get()
	}
	return s
}
