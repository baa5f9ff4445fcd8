// Package dump stores a post-mortem image in flash: a small header, the
// System Control Block, the stacked core registers and a copy of task RAM.
//
// Region layout (little-endian):
//
//	0x000  header (HeaderSize bytes)
//	0x040  SCB, cortexm.SCBSize bytes
//	0x100  core registers r0-r3, r12, lr, pc, psr
//	0x200  RAM image, RAMLen bytes
package dump

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"minipanel/cortexm"
)

const (
	Magic   = 0x504d5044 // "DPMP"
	Version = 1

	HeaderSize = 0x40
	OffSCB     = 0x40
	OffRegs    = 0x100
	OffRAM     = 0x200

	versionLen = HeaderSize - 0x18

	// NotDisplayed is the erased value of the displayed byte.
	NotDisplayed = 0xFF
)

var (
	ErrNoDump  = errors.New("dump: no dump")
	ErrCorrupt = errors.New("dump: corrupt")
)

// Flags record why the dump was taken.
type Flags uint8

const (
	FlagHardFault Flags = 1 << iota
	FlagWatchdog
	FlagTempError
	FlagTrap
)

func (f Flags) String() string {
	var out []byte
	add := func(s string) {
		if len(out) > 0 {
			out = append(out, '|')
		}
		out = append(out, s...)
	}
	if f&FlagHardFault != 0 {
		add("hardfault")
	}
	if f&FlagWatchdog != 0 {
		add("watchdog")
	}
	if f&FlagTempError != 0 {
		add("temperror")
	}
	if f&FlagTrap != 0 {
		add("trap")
	}
	if len(out) == 0 {
		return "none"
	}
	return string(out)
}

// Regs are the core registers stacked on exception entry.
type Regs struct {
	R0, R1, R2, R3, R12, LR, PC, PSR uint32
}

// Header is the decoded region header.
type Header struct {
	Flags     Flags
	Displayed bool
	ErrCode   uint16
	RAMBase   uint32
	RAMLen    uint32
	Firmware  string
}

// Record is what Save writes.
type Record struct {
	Flags    Flags
	ErrCode  uint16
	Firmware string
	SCB      cortexm.SCB
	Regs     Regs
	RAMBase  uint32
	RAM      []byte
}

// Size returns the region bytes a record with ramLen bytes of RAM needs.
func Size(ramLen uint32) uint32 { return OffRAM + ramLen }

func putHeader(b []byte, r *Record) {
	binary.LittleEndian.PutUint32(b[0:], Magic)
	binary.LittleEndian.PutUint16(b[4:], Version)
	b[6] = byte(r.Flags)
	b[7] = NotDisplayed
	binary.LittleEndian.PutUint16(b[8:], r.ErrCode)
	binary.LittleEndian.PutUint32(b[0x0c:], r.RAMBase)
	binary.LittleEndian.PutUint32(b[0x10:], uint32(len(r.RAM)))
	n := copy(b[0x18:HeaderSize], r.Firmware)
	for i := 0x18 + n; i < HeaderSize; i++ {
		b[i] = 0
	}
}

func parseHeader(b []byte) (Header, error) {
	magic := binary.LittleEndian.Uint32(b[0:])
	if magic == 0xFFFFFFFF || magic == 0 {
		return Header{}, ErrNoDump
	}
	if magic != Magic {
		return Header{}, fmt.Errorf("%w: magic %08x", ErrCorrupt, magic)
	}
	if v := binary.LittleEndian.Uint16(b[4:]); v != Version {
		return Header{}, fmt.Errorf("%w: version %d", ErrCorrupt, v)
	}
	fw := b[0x18:HeaderSize]
	n := 0
	for n < len(fw) && fw[n] != 0 {
		n++
	}
	return Header{
		Flags:     Flags(b[6]),
		Displayed: b[7] != NotDisplayed,
		ErrCode:   binary.LittleEndian.Uint16(b[8:]),
		RAMBase:   binary.LittleEndian.Uint32(b[0x0c:]),
		RAMLen:    binary.LittleEndian.Uint32(b[0x10:]),
		Firmware:  string(fw[:n]),
	}, nil
}

func putRegs(b []byte, r *Regs) {
	for i, v := range [...]uint32{r.R0, r.R1, r.R2, r.R3, r.R12, r.LR, r.PC, r.PSR} {
		binary.LittleEndian.PutUint32(b[i*4:], v)
	}
}

func parseRegs(b []byte) Regs {
	w := func(i int) uint32 { return binary.LittleEndian.Uint32(b[i*4:]) }
	return Regs{w(0), w(1), w(2), w(3), w(4), w(5), w(6), w(7)}
}

// Device is byte-addressed storage holding a dump region.
type Device interface {
	ReadAt(p []byte, off uint32) (int, error)
}

// Snapshot is a dump opened for reading. Its ReadAt reads task RAM by the
// address it had when the dump was taken.
type Snapshot struct {
	dev  Device
	base uint32
	hdr  Header
	scb  cortexm.SCB
	regs Regs
}

// Load decodes the dump region starting at base on dev.
func Load(dev Device, base uint32) (*Snapshot, error) {
	var b [OffRAM]byte
	if err := readFull(dev, b[:], base); err != nil {
		return nil, err
	}
	hdr, err := parseHeader(b[:HeaderSize])
	if err != nil {
		return nil, err
	}
	sn := &Snapshot{dev: dev, base: base, hdr: hdr, regs: parseRegs(b[OffRegs:])}
	_ = sn.scb.UnmarshalBinary(b[OffSCB : OffSCB+cortexm.SCBSize])
	return sn, nil
}

func readFull(dev Device, p []byte, off uint32) error {
	for len(p) > 0 {
		n, err := dev.ReadAt(p, off)
		if n == 0 && err == nil {
			err = io.ErrUnexpectedEOF
		}
		if err != nil && !(errors.Is(err, io.EOF) && n == len(p)) {
			return fmt.Errorf("dump: read at %#x: %w", off, err)
		}
		p = p[n:]
		off += uint32(n)
	}
	return nil
}

func (s *Snapshot) Header() Header    { return s.hdr }
func (s *Snapshot) SCB() *cortexm.SCB { return &s.scb }
func (s *Snapshot) Regs() Regs        { return s.regs }
func (s *Snapshot) Flags() Flags      { return s.hdr.Flags }
func (s *Snapshot) ErrCode() uint16   { return s.hdr.ErrCode }
func (s *Snapshot) Displayed() bool   { return s.hdr.Displayed }
func (s *Snapshot) RAMBase() uint32   { return s.hdr.RAMBase }
func (s *Snapshot) RAMLen() uint32    { return s.hdr.RAMLen }
func (s *Snapshot) Firmware() string  { return s.hdr.Firmware }
func (s *Snapshot) Size() uint32      { return Size(s.hdr.RAMLen) }

// ReadAt reads captured RAM at address addr.
func (s *Snapshot) ReadAt(p []byte, addr uint32) (int, error) {
	if addr < s.hdr.RAMBase || addr-s.hdr.RAMBase >= s.hdr.RAMLen {
		return 0, fmt.Errorf("dump: address %#08x outside image", addr)
	}
	rel := addr - s.hdr.RAMBase
	n := len(p)
	if uint32(n) > s.hdr.RAMLen-rel {
		n = int(s.hdr.RAMLen - rel)
	}
	if err := readFull(s.dev, p[:n], s.base+OffRAM+rel); err != nil {
		return 0, err
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteTo copies the raw region, header included, to w.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	var buf [512]byte
	var total int64
	size := s.Size()
	for off := uint32(0); off < size; {
		n := uint32(len(buf))
		if n > size-off {
			n = size - off
		}
		if err := readFull(s.dev, buf[:n], s.base+off); err != nil {
			return total, err
		}
		m, err := w.Write(buf[:n])
		total += int64(m)
		if err != nil {
			return total, err
		}
		off += n
	}
	return total, nil
}

// ReaderAtDevice adapts an io.ReaderAt, such as a dump file, to Device.
type ReaderAtDevice struct {
	R io.ReaderAt
}

func (d ReaderAtDevice) ReadAt(p []byte, off uint32) (int, error) {
	return d.R.ReadAt(p, int64(off))
}
