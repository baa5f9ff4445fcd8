package fault

import "minipanel/rtos"

// CurrentTask reads the running task straight out of the scheduler's task
// control block. Only the fault paths may do this: by the time they run the
// scheduler's own accessors cannot be trusted, so the layout is read raw and
// every field is bounds checked.
func CurrentTask(m Memory) (TaskSnapshot, bool) {
	tcb, ok := readWord(m, rtos.CurrentTCB)
	if !ok || tcb == 0 {
		return TaskSnapshot{}, false
	}
	var raw [rtos.TCBSize]byte
	if n, err := m.ReadAt(raw[:], tcb); n != len(raw) || err != nil {
		return TaskSnapshot{}, false
	}
	le := func(off int) uint32 {
		return uint32(raw[off]) | uint32(raw[off+1])<<8 | uint32(raw[off+2])<<16 | uint32(raw[off+3])<<24
	}

	// The name may lack a terminator; the last byte is never part of it.
	name := raw[rtos.TCBName : rtos.TCBName+rtos.TCBNameLen-1]
	for i, c := range name {
		if c == 0 {
			name = name[:i]
			break
		}
	}
	return TaskSnapshot{
		Name:      string(name),
		StackTop:  le(rtos.TCBTopOfStack),
		StackBase: le(rtos.TCBStackBase),
	}, true
}
