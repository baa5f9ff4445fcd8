package fault

import (
	"minipanel/gui/display"
	"minipanel/gui/term"
)

// Trap shows an assertion style failure on the blue screen: the formatted
// message, the source location, the running task and the top of its stack.
// file may be empty and line may be -1. It never returns.
func (r *Reporter) Trap(format, file string, line int, args ...any) {
	r.disableInterrupts()
	task, _ := CurrentTask(r.cfg.Memory)
	r.StopCommon()
	r.drawTrap(&task, format, file, line, args...)
	r.Halt()
}

// StackOverflow is the scheduler's overflow hook.
func (r *Reporter) StackOverflow(handle uint32, name string) {
	if name == "" {
		r.Trap("STACK OVERFLOW\nHANDLE 0x%08x\nTaskname ERROR", "", -1, handle)
		return
	}
	r.Trap("STACK OVERFLOW\nHANDLE 0x%08x\n%s", "", -1, handle, name)
}

func (r *Reporter) drawTrap(task *TaskSnapshot, format, file string, line int, args ...any) *term.Terminal {
	t := r.newTerm(trapCols, trapRows)

	t.Printf(format, args...)
	t.WriteChar('\n')
	if file != "" {
		t.WriteString(basename(file))
		if line != -1 {
			t.WriteChar(' ')
		}
	}
	if line != -1 {
		t.Printf("%d", line)
	}
	if file != "" || line != -1 {
		t.WriteChar('\n')
	}

	t.Printf("TASK:%s\n", task.Name)
	t.Printf("b:%x", task.StackBase)
	t.Printf("t:%x", task.StackTop)

	lines := t.Rows() - t.Row() - 1
	n := stackWindow(task.StackBase, task.StackTop, lines*2)
	for i := 0; i < n; i++ {
		w, _ := readWord(r.cfg.Memory, task.StackTop-uint32(i)*4)
		t.Printf("%08x  ", w)
	}

	if p := r.cfg.Painter; p != nil {
		p.Clear(display.Navy)
		term.Render(p, t, padding, padding, display.FontNormal, display.Navy, display.White)
		r.printFooter(display.FontNormal, display.Navy)
		p.Present()
	}
	r.logTerm(t)
	return t
}

// basename strips everything up to the last '/' and then the last '\'.
func basename(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			path = path[i+1:]
			break
		}
	}
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
