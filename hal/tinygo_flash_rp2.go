//go:build tinygo && (rp2040 || rp2350)

package hal

import (
	"fmt"
	"machine"
)

// rp2Flash is the on-chip QSPI flash past the firmware image. The settings
// blocks and the crash dump region live here; offsets are relative to the
// start of machine.Flash, not to the XIP window.
type rp2Flash struct{}

func newRP2Flash() Flash { return rp2Flash{} }

func (rp2Flash) SizeBytes() uint32 { return fit32(machine.Flash.Size()) }

func (rp2Flash) EraseBlockBytes() uint32 { return fit32(machine.Flash.EraseBlockSize()) }

func (f rp2Flash) ReadAt(p []byte, off uint32) (int, error) {
	n, ok := clipSpan(off, len(p), f.SizeBytes())
	if !ok {
		return 0, fmt.Errorf("rp2 flash read at %#x: past end", off)
	}
	got, err := machine.Flash.ReadAt(p[:n], int64(off))
	if err != nil {
		return got, fmt.Errorf("rp2 flash read at %#x: %w", off, err)
	}
	return got, nil
}

// WriteAt programs p at off. The dump writer runs with interrupts off from
// the fault handler, so this must not allocate on success.
func (f rp2Flash) WriteAt(p []byte, off uint32) (int, error) {
	n, ok := clipSpan(off, len(p), f.SizeBytes())
	if !ok {
		return 0, fmt.Errorf("rp2 flash write at %#x: past end", off)
	}
	got, err := machine.Flash.WriteAt(p[:n], int64(off))
	if err != nil {
		return got, fmt.Errorf("rp2 flash write at %#x: %w", off, err)
	}
	return got, nil
}

func (f rp2Flash) Erase(off, size uint32) error {
	if size == 0 {
		return nil
	}
	bs := f.EraseBlockBytes()
	if err := eraseSpan(off, size, bs, f.SizeBytes()); err != nil {
		return err
	}
	return machine.Flash.EraseBlocks(int64(off/bs), int64(size/bs))
}
