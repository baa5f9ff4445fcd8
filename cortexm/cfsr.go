package cortexm

// CFSR bits. MemManage in byte 0, BusFault in byte 1, UsageFault in the upper half.
const (
	IACCVIOL    = 1 << 0
	DACCVIOL    = 1 << 1
	MUNSTKERR   = 1 << 3
	MSTKERR     = 1 << 4
	MLSPERR     = 1 << 5
	MMARVALID   = 1 << 7
	IBUSERR     = 1 << 8
	PRECISERR   = 1 << 9
	IMPRECISERR = 1 << 10
	UNSTKERR    = 1 << 11
	STKERR      = 1 << 12
	LSPERR      = 1 << 13
	BFARVALID   = 1 << 15
	UNDEFINSTR  = 1 << 16
	INVSTATE    = 1 << 17
	INVPC       = 1 << 18
	NOCPC       = 1 << 19
	UNALIGNED   = 1 << 24
	DIVBYZERO   = 1 << 25
)

// Cause is one CFSR fault cause and the text shown for it.
type Cause struct {
	Name string
	Bit  uint32
	Text string
}

// Causes lists the fault causes in priority order. The valid-address bits
// are not causes and are absent.
var Causes = [...]Cause{
	{"IACCVIOL", IACCVIOL, "Fault on instruction access"},
	{"DACCVIOL", DACCVIOL, "Fault on direct data access"},
	{"MUNSTKERR", MUNSTKERR, "Context unstacking, because of an MPU access violation"},
	{"MSTKERR", MSTKERR, "Context stacking, because of an MPU access violation"},
	{"MLSPERR", MLSPERR, "During lazy floating-point state preservation"},
	{"IBUSERR", IBUSERR, "During instruction prefetching, precise"},
	{"PRECISERR", PRECISERR, "Precise data access error, precise"},
	{"IMPRECISERR", IMPRECISERR, "Imprecise data access error, imprecise"},
	{"UNSTKERR", UNSTKERR, "During exception unstacking"},
	{"STKERR", STKERR, "During exception stacking"},
	{"LSPERR", LSPERR, "During lazy floating-point state preservation "},
	{"UNDEFINSTR", UNDEFINSTR, "Undefined instruction"},
	{"INVSTATE", INVSTATE, "Attempt to enter an invalid instruction set state "},
	{"INVPC", INVPC, "Failed integrity check on exception return  "},
	{"NOCPC", NOCPC, "Attempt to access a non-existing coprocessor"},
	{"UNALIGNED", UNALIGNED, "Illegal unaligned load or store"},
	{"DIVBYZERO", DIVBYZERO, "Divide By 0"},
}

// CauseMask covers every cause bit in Causes.
const CauseMask = IACCVIOL | DACCVIOL | MUNSTKERR | MSTKERR | MLSPERR |
	IBUSERR | PRECISERR | IMPRECISERR | UNSTKERR | STKERR | LSPERR |
	UNDEFINSTR | INVSTATE | INVPC | NOCPC | UNALIGNED | DIVBYZERO

// PrimaryCause returns the single cause set in cfsr. ok is false when no
// cause or more than one cause is set.
func PrimaryCause(cfsr uint32) (c Cause, ok bool) {
	masked := cfsr & CauseMask
	for _, c := range Causes {
		if masked == c.Bit {
			return c, true
		}
	}
	return Cause{}, false
}

// DescribeCFSR returns the line shown for a fault status value.
func DescribeCFSR(cfsr uint32) string {
	if c, ok := PrimaryCause(cfsr); ok {
		return c.Text
	}
	return string(AppendDescribeCFSR(nil, cfsr))
}

const multipleErrors = "Multiple Errors CFSR :"

// AppendDescribeCFSR appends the DescribeCFSR line to dst. It does not
// allocate when dst has room, so the fault handler can use it.
func AppendDescribeCFSR(dst []byte, cfsr uint32) []byte {
	if c, ok := PrimaryCause(cfsr); ok {
		return append(dst, c.Text...)
	}
	dst = append(dst, multipleErrors...)
	const digits = "0123456789abcdef"
	for shift := 28; shift >= 0; shift -= 4 {
		dst = append(dst, digits[cfsr>>uint(shift)&0xF])
	}
	return dst
}

// SetCauses returns every cause bit set in cfsr, in table order.
func SetCauses(cfsr uint32) []Cause {
	var out []Cause
	for _, c := range Causes {
		if cfsr&c.Bit != 0 {
			out = append(out, c)
		}
	}
	return out
}

// Register is one auxiliary SCB register as printed under the fault cause.
type Register struct {
	Label string
	Name  string
	Value uint32
}

// AppendAux appends the auxiliary registers to dst in print order. Zero
// registers are omitted, and the fault address registers are included only
// when CFSR marks them valid. A caller-owned dst with capacity AuxCount
// keeps this allocation free.
func AppendAux(dst []Register, s *SCB) []Register {
	cfsr := s.CFSR()
	all := [...]struct {
		label, name string
		v           uint32
		show        bool
	}{
		{"CPUID:", "CPUID", s.CPUID(), true},
		{"ICSR :", "ICSR", s.ICSR(), true},
		{"VTOR :", "VTOR", s.VTOR(), true},
		{"AIRCR:", "AIRCR", s.AIRCR(), true},
		{"SCR  :", "SCR", s.SCR(), true},
		{"CCR  :", "CCR", s.CCR(), true},
		{"SHCSR:", "SHCSR", s.SHCSR(), true},
		{"HFSR :", "HFSR", s.HFSR(), true},
		{"DFSR :", "DFSR", s.DFSR(), true},
		{"MMFAR:", "MMFAR", s.MMFAR(), cfsr&MMARVALID != 0},
		{"BFAR :", "BFAR", s.BFAR(), cfsr&BFARVALID != 0},
		{"AFSR :", "AFSR", s.AFSR(), true},
		{"DFR  :", "DFR", s.DFR(), true},
		{"ADR  :", "ADR", s.ADR(), true},
		{"CPACR:", "CPACR", s.CPACR(), true},
	}
	for _, r := range all {
		if r.show && r.v != 0 {
			dst = append(dst, Register{Label: r.label, Name: r.name, Value: r.v})
		}
	}
	return dst
}

// AuxCount is the number of auxiliary registers AppendAux can emit.
const AuxCount = 15
