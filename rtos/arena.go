package rtos

import (
	"encoding/binary"
	"errors"
	"io"
)

// RAMBase is the address of the first arena byte.
const RAMBase uint32 = 0x20000000

// DefaultArenaSize fits the panel's tasks with room to spare.
const DefaultArenaSize = 16 * 1024

// TCB layout. All fields are little-endian words except the name, which is
// NUL padded.
const (
	TCBSize       = 32
	TCBTopOfStack = 0  // address of the most recently pushed word
	TCBStackBase  = 4  // lowest stack address
	TCBName       = 8  // task name
	TCBNameLen    = 16 //
	TCBStackLimit = 24 // one past the highest stack address
	TCBNumber     = 28

	// CurrentTCB holds the address of the running task's TCB.
	CurrentTCB = RAMBase

	arenaHeader = 16
)

var ErrOutOfRange = errors.New("rtos: address out of range")

// Arena is the memory holding TCBs and task stacks. Stacks grow upward: an
// empty stack has its top one word below its base.
type Arena struct {
	mem  []byte
	next uint32
	n    uint32
}

// NewArena allocates an arena of size bytes.
func NewArena(size int) *Arena {
	if size < arenaHeader {
		size = arenaHeader
	}
	return &Arena{mem: make([]byte, size), next: arenaHeader}
}

// Base returns the arena's first address.
func (a *Arena) Base() uint32 { return RAMBase }

// Bytes returns the arena memory. The slice aliases live state.
func (a *Arena) Bytes() []byte { return a.mem }

// Current returns the address of the running task's TCB, or 0.
func (a *Arena) Current() uint32 { return a.word(CurrentTCB) }

// ReadAt reads live memory at addr. A read that runs past the end of the
// arena returns the bytes available and io.EOF.
func (a *Arena) ReadAt(p []byte, addr uint32) (int, error) {
	if addr < RAMBase || addr-RAMBase >= uint32(len(a.mem)) {
		return 0, ErrOutOfRange
	}
	n := copy(p, a.mem[addr-RAMBase:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (a *Arena) word(addr uint32) uint32 {
	off := addr - RAMBase
	if addr < RAMBase || off+4 > uint32(len(a.mem)) {
		return 0
	}
	return binary.LittleEndian.Uint32(a.mem[off:])
}

func (a *Arena) putWord(addr, v uint32) {
	off := addr - RAMBase
	if addr < RAMBase || off+4 > uint32(len(a.mem)) {
		return
	}
	binary.LittleEndian.PutUint32(a.mem[off:], v)
}

func (a *Arena) setCurrent(tcb uint32) { a.putWord(CurrentTCB, tcb) }

// allocTask carves a TCB followed by its stack out of the arena.
func (a *Arena) allocTask(name string, stackWords uint32) (uint32, bool) {
	need := uint32(TCBSize) + stackWords*4
	if stackWords == 0 || a.next+need > uint32(len(a.mem)) {
		return 0, false
	}
	tcb := RAMBase + a.next
	base := tcb + TCBSize
	a.next += need

	a.putWord(tcb+TCBTopOfStack, base-4)
	a.putWord(tcb+TCBStackBase, base)
	off := tcb - RAMBase + TCBName
	field := a.mem[off : off+TCBNameLen]
	clear(field)
	copy(field[:TCBNameLen-1], name)
	a.putWord(tcb+TCBStackLimit, base+stackWords*4)
	a.putWord(tcb+TCBNumber, a.n)
	a.n++
	return tcb, true
}

func (a *Arena) taskName(tcb uint32) string {
	off := tcb - RAMBase + TCBName
	if tcb < RAMBase || off+TCBNameLen > uint32(len(a.mem)) {
		return ""
	}
	field := a.mem[off : off+TCBNameLen]
	for i, b := range field {
		if b == 0 {
			return string(field[:i])
		}
	}
	return string(field)
}

func (a *Arena) top(tcb uint32) uint32 { return a.word(tcb + TCBTopOfStack) }

func (a *Arena) setTop(tcb, top uint32) { a.putWord(tcb+TCBTopOfStack, top) }

func (a *Arena) push(tcb, w uint32) bool {
	top := a.top(tcb) + 4
	if top+4 > a.word(tcb+TCBStackLimit) {
		return false
	}
	a.putWord(top, w)
	a.setTop(tcb, top)
	return true
}

func (a *Arena) pop(tcb uint32, n int) {
	base := a.word(tcb + TCBStackBase)
	top := a.top(tcb)
	for ; n > 0 && top >= base; n-- {
		top -= 4
	}
	a.setTop(tcb, top)
}
