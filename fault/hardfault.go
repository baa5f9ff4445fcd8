package fault

import (
	"minipanel/cortexm"
	"minipanel/gui/display"
	"minipanel/gui/term"
)

// Postmortem is processor state captured before a reset: the SCB block
// plus a RAM image readable by address.
type Postmortem interface {
	Memory
	SCB() *cortexm.SCB
}

// HardFault draws the decoded processor fault stored in pm. Unlike the
// other screens it returns, because the panel is healthy again by the time
// a stored dump is shown.
func (r *Reporter) HardFault(pm Postmortem) {
	if pm == nil {
		return
	}
	task, _ := CurrentTask(pm)
	t := r.drawHardFault(pm, &task)
	if p := r.cfg.Painter; p != nil {
		p.Clear(display.Navy)
		term.Render(p, t, padding, padding, display.FontSmall, display.Navy, display.White)
		r.printFooter(display.FontSmall, display.Navy)
		p.Present()
	}
	r.logTerm(t)
}

func (r *Reporter) drawHardFault(pm Postmortem, task *TaskSnapshot) *term.Terminal {
	t := r.newTerm(hfCols, hfRows)
	scb := pm.SCB()

	t.Printf("TASK: %s. ", task.Name)
	_, _ = t.Write(cortexm.AppendDescribeCFSR(r.line[:0], scb.CFSR()))
	t.WriteChar('\n')
	t.Printf("bot: 0x%08x top: 0x%08x\n", task.StackBase, task.StackTop)

	for _, reg := range cortexm.AppendAux(r.aux[:0], scb) {
		if reg.Name == "CPACR" {
			t.Printf("%s%08x\n", reg.Label, reg.Value)
			continue
		}
		t.Printf("%s%08x  ", reg.Label, reg.Value)
	}
	if t.Col() != 0 {
		t.WriteChar('\n')
	}

	const perRow = 3
	rows := t.Rows() - t.Row() - 1
	n := stackWindow(task.StackBase, task.StackTop, rows*perRow)
	for i := 0; i < n; i++ {
		w, _ := readWord(pm, task.StackTop-uint32(i)*4)
		t.Printf("0x%08x", w)
		if (i+1)%perRow != 0 {
			t.WriteChar(' ')
		}
	}
	return t
}
