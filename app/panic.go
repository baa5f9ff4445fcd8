package app

import (
	"fmt"
	"runtime"
	"strings"

	"minipanel/cortexm"
	"minipanel/dump"
	"minipanel/internal/buildinfo"
	"minipanel/rtos"
)

// cpuidM4 is reported when the SCB cannot be read, as on the host.
const cpuidM4 = 0x410FC241

// hfsrForced marks a configurable fault escalated to HardFault.
const hfsrForced = 1 << 30

// faultSCB maps a task panic to the SCB a Cortex-M would have recorded for
// the same bug. Panics with no processor equivalent report false.
func faultSCB(v any, base cortexm.SCB) (cortexm.SCB, bool) {
	err, ok := v.(runtime.Error)
	if !ok {
		return base, false
	}
	msg := err.Error()
	scb := base
	switch {
	case strings.Contains(msg, "divide by zero"):
		scb.SetCFSR(cortexm.DIVBYZERO)
	case strings.Contains(msg, "nil pointer"), strings.Contains(msg, "invalid memory address"):
		scb.SetCFSR(cortexm.DACCVIOL | cortexm.MMARVALID)
		scb.SetMMFAR(0)
	case strings.Contains(msg, "index out of range"), strings.Contains(msg, "slice bounds"):
		scb.SetCFSR(cortexm.PRECISERR | cortexm.BFARVALID)
		scb.SetBFAR(0)
	default:
		return base, false
	}
	scb.SetHFSR(hfsrForced)
	if scb.CPUID() == 0 {
		scb.SetCPUID(cpuidM4)
	}
	return scb, true
}

// installPanicHandler routes the first task panic to the fault reporter.
// Runtime faults become a hard fault dump shown after the reset; anything
// else is a trap on the blue screen.
func (s *system) installPanicHandler() {
	s.k.SetPanicHandler(func(info rtos.PanicInfo) {
		s.log.WriteLineString(fmt.Sprintf("panic: task=%s value=%v", info.Name, info.Value))
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line != "" {
				s.log.WriteLineString(line)
			}
		}

		if scb, ok := faultSCB(info.Value, cortexm.CaptureSCB()); ok {
			arena := s.k.Arena()
			rec := dump.Record{
				Flags:    dump.FlagHardFault,
				Firmware: buildinfo.Short(),
				SCB:      scb,
				RAMBase:  arena.Base(),
				RAM:      arena.Bytes(),
			}
			err := s.dumps.Save(&rec)
			if err == nil {
				s.log.WriteLineString("panic: hard fault dump saved")
				s.h.System().Reset()
				return
			}
			s.log.WriteLineString("panic: save dump: " + err.Error())
		}

		line := info.Line
		if line == 0 {
			line = -1
		}
		s.rep.Trap("%v", info.File, line, info.Value)
	})
}
