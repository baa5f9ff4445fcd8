// Package cortexm describes the ARMv7-M/ARMv8-M System Control Block as it
// is captured into crash dumps.
package cortexm

import "encoding/binary"

// SCBBase is the address of the System Control Block.
const SCBBase = 0xE000ED00

// SCBWords is the number of 32-bit words captured from SCBBase.
const SCBWords = 35

// SCBSize is the captured block size in bytes.
const SCBSize = SCBWords * 4

// Register byte offsets inside the block.
const (
	OffCPUID = 0x00
	OffICSR  = 0x04
	OffVTOR  = 0x08
	OffAIRCR = 0x0c
	OffSCR   = 0x10
	OffCCR   = 0x14
	OffSHCSR = 0x24
	OffCFSR  = 0x28
	OffHFSR  = 0x2c
	OffDFSR  = 0x30
	OffMMFAR = 0x34
	OffBFAR  = 0x38
	OffAFSR  = 0x3c
	OffDFR   = 0x48
	OffADR   = 0x4c
	OffCPACR = 0x88
)

// SCB is a captured copy of the System Control Block.
type SCB [SCBWords]uint32

// Word returns the register at byte offset off, or 0 when off is outside the block.
func (s *SCB) Word(off uint32) uint32 {
	i := off / 4
	if off%4 != 0 || i >= SCBWords {
		return 0
	}
	return s[i]
}

func (s *SCB) set(off, v uint32) { s[off/4] = v }

func (s *SCB) CPUID() uint32 { return s.Word(OffCPUID) }
func (s *SCB) ICSR() uint32  { return s.Word(OffICSR) }
func (s *SCB) VTOR() uint32  { return s.Word(OffVTOR) }
func (s *SCB) AIRCR() uint32 { return s.Word(OffAIRCR) }
func (s *SCB) SCR() uint32   { return s.Word(OffSCR) }
func (s *SCB) CCR() uint32   { return s.Word(OffCCR) }
func (s *SCB) SHCSR() uint32 { return s.Word(OffSHCSR) }
func (s *SCB) CFSR() uint32  { return s.Word(OffCFSR) }
func (s *SCB) HFSR() uint32  { return s.Word(OffHFSR) }
func (s *SCB) DFSR() uint32  { return s.Word(OffDFSR) }
func (s *SCB) MMFAR() uint32 { return s.Word(OffMMFAR) }
func (s *SCB) BFAR() uint32  { return s.Word(OffBFAR) }
func (s *SCB) AFSR() uint32  { return s.Word(OffAFSR) }
func (s *SCB) DFR() uint32   { return s.Word(OffDFR) }
func (s *SCB) ADR() uint32   { return s.Word(OffADR) }
func (s *SCB) CPACR() uint32 { return s.Word(OffCPACR) }

// SetCFSR, SetMMFAR and SetBFAR are used when synthesizing a fault record.
func (s *SCB) SetCFSR(v uint32)  { s.set(OffCFSR, v) }
func (s *SCB) SetMMFAR(v uint32) { s.set(OffMMFAR, v) }
func (s *SCB) SetBFAR(v uint32)  { s.set(OffBFAR, v) }
func (s *SCB) SetHFSR(v uint32)  { s.set(OffHFSR, v) }
func (s *SCB) SetCPUID(v uint32) { s.set(OffCPUID, v) }

// MarshalBinary encodes the block little-endian, as the core stores it.
func (s *SCB) MarshalBinary() ([]byte, error) {
	b := make([]byte, SCBSize)
	s.Put(b)
	return b, nil
}

// Put writes the block into b, which must hold SCBSize bytes.
func (s *SCB) Put(b []byte) {
	for i, w := range s {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
}

// UnmarshalBinary decodes a little-endian block; short input leaves the
// remaining words zero.
func (s *SCB) UnmarshalBinary(b []byte) error {
	*s = SCB{}
	for i := 0; i < SCBWords && (i+1)*4 <= len(b); i++ {
		s[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return nil
}
