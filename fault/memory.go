package fault

// Memory reads bytes at an absolute address: the live task arena after a
// trap, or a persisted dump after a hard fault.
type Memory interface {
	ReadAt(p []byte, addr uint32) (int, error)
}

// Image is live memory that can be copied into a dump.
type Image interface {
	Memory
	Base() uint32
	Bytes() []byte
}

// TaskSnapshot is the running task as recorded in its control block.
type TaskSnapshot struct {
	Name      string
	StackBase uint32
	StackTop  uint32
}

func readWord(m Memory, addr uint32) (uint32, bool) {
	var b [4]byte
	if m == nil {
		return 0, false
	}
	if n, err := m.ReadAt(b[:], addr); n != 4 || err != nil {
		return 0, false
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, true
}

// stackWindow returns how many stack words to print: every word from base
// up to and including top, but no more than capacity.
func stackWindow(base, top uint32, capacity int) int {
	if top < base || capacity <= 0 {
		return 0
	}
	words := (top-base)/4 + 1
	if words > uint32(capacity) {
		return capacity
	}
	return int(words)
}

// StackWords reads up to limit words of task's stack, from the top down. It
// stops early at the first word m cannot supply.
func StackWords(m Memory, task TaskSnapshot, limit int) []uint32 {
	n := stackWindow(task.StackBase, task.StackTop, limit)
	out := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		w, ok := readWord(m, task.StackTop-uint32(i)*4)
		if !ok {
			break
		}
		out = append(out, w)
	}
	return out
}
