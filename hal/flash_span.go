package hal

import (
	"fmt"
	"os"
)

// fit32 clamps a size reported by the machine package to the uint32 range
// the Flash interface uses. Negative sizes read as zero.
func fit32(v int64) uint32 {
	switch {
	case v <= 0:
		return 0
	case v > int64(^uint32(0)):
		return ^uint32(0)
	}
	return uint32(v)
}

// clipSpan returns how many of n bytes at off fit a chip of size bytes.
// It fails when off is past the end.
func clipSpan(off uint32, n int, size uint32) (int, bool) {
	if off >= size {
		return 0, false
	}
	return min(n, int(size-off)), true
}

// eraseSpan checks that an erase covers whole blocks inside the chip.
func eraseSpan(off, size, block, chip uint32) error {
	if block == 0 {
		return ErrNotImplemented
	}
	if off%block != 0 || size%block != 0 || off >= chip || size > chip-off {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}
	return nil
}
