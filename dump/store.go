package dump

import (
	"fmt"

	"minipanel/hal"
)

// Flash layout shared by the firmware and the dump tool.
const (
	// SettingsOffset is where the settings record lives.
	SettingsOffset = 0
	// RegionOffset is where the dump region starts.
	RegionOffset = 64 * 1024
)

// Store keeps one dump in a flash region.
type Store struct {
	flash hal.Flash
	base  uint32
	size  uint32

	hdr [OffRAM]byte
}

// NewStore returns a store for the size bytes of f starting at base.
func NewStore(f hal.Flash, base, size uint32) *Store {
	return &Store{flash: f, base: base, size: size}
}

func (s *Store) eraseSpan(n uint32) uint32 {
	blk := s.flash.EraseBlockBytes()
	if blk == 0 {
		return n
	}
	return (n + blk - 1) / blk * blk
}

// Save erases the region and writes r. The header goes last so a dump cut
// short by a reset reads as absent rather than half written.
func (s *Store) Save(r *Record) error {
	if s.flash == nil {
		return hal.ErrNotImplemented
	}
	need := Size(uint32(len(r.RAM)))
	if need > s.size {
		return fmt.Errorf("dump: %d bytes do not fit region of %d", need, s.size)
	}
	if err := s.flash.Erase(s.base, s.eraseSpan(need)); err != nil {
		return fmt.Errorf("dump: erase: %w", err)
	}
	if len(r.RAM) > 0 {
		if _, err := s.flash.WriteAt(r.RAM, s.base+OffRAM); err != nil {
			return fmt.Errorf("dump: write ram: %w", err)
		}
	}

	b := s.hdr[:]
	for i := range b {
		b[i] = 0xFF
	}
	r.SCB.Put(b[OffSCB:])
	putRegs(b[OffRegs:], &r.Regs)
	if _, err := s.flash.WriteAt(b[HeaderSize:], s.base+HeaderSize); err != nil {
		return fmt.Errorf("dump: write registers: %w", err)
	}
	putHeader(b[:HeaderSize], r)
	if _, err := s.flash.WriteAt(b[:HeaderSize], s.base); err != nil {
		return fmt.Errorf("dump: write header: %w", err)
	}
	return nil
}

// Open returns the stored dump, or ErrNoDump.
func (s *Store) Open() (*Snapshot, error) {
	if s.flash == nil {
		return nil, ErrNoDump
	}
	sn, err := Load(s.flash, s.base)
	if err != nil {
		return nil, err
	}
	if Size(sn.RAMLen()) > s.size {
		return nil, fmt.Errorf("%w: ram length %d", ErrCorrupt, sn.RAMLen())
	}
	return sn, nil
}

// MarkDisplayed clears the displayed byte in place. Clearing bits needs no erase.
func (s *Store) MarkDisplayed() error {
	if s.flash == nil {
		return hal.ErrNotImplemented
	}
	if _, err := s.flash.WriteAt([]byte{0}, s.base+7); err != nil {
		return fmt.Errorf("dump: mark displayed: %w", err)
	}
	return nil
}

// Clear erases the header block, which drops the dump.
func (s *Store) Clear() error {
	if s.flash == nil {
		return hal.ErrNotImplemented
	}
	return s.flash.Erase(s.base, s.eraseSpan(HeaderSize))
}
