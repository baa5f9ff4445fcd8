// Package settings keeps the panel's persisted variables in one flash
// block. The record is a msgpack body behind a small header:
//
//	0x00  magic "PSET"
//	0x04  body length
//	0x08  CRC-32 (IEEE) of the body
//	0x0c  body
package settings

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"minipanel/hal"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

const (
	magic      = 0x54455350 // "PSET"
	headerSize = 12

	// BlockSize is the flash span the record occupies.
	BlockSize = 4096
)

var (
	ErrCorrupt = errors.New("settings: corrupt record")
	ErrEmpty   = errors.New("settings: no record")
)

// FileSort orders the file browser.
type FileSort uint8

const (
	SortByTime FileSort = iota
	SortByName
)

// Settings are the persisted variables.
type Settings struct {
	MenuTimeout  bool     `msgpack:"menu_timeout" yaml:"menu_timeout"`
	FileSort     FileSort `msgpack:"file_sort" yaml:"file_sort"`
	Timezone     int8     `msgpack:"timezone" yaml:"timezone"`
	SoundMode    uint8    `msgpack:"sound_mode" yaml:"sound_mode"`
	SoundVolume  uint8    `msgpack:"sound_volume" yaml:"sound_volume"`
	Language     string   `msgpack:"language" yaml:"language"`
	LastFilament uint8    `msgpack:"last_filament" yaml:"last_filament"`
}

// Defaults returns the factory settings.
func Defaults() Settings {
	return Settings{
		MenuTimeout: true,
		FileSort:    SortByTime,
		SoundVolume: 5,
		Language:    "en",
	}
}

// Clamp forces out of range values back into range.
func (s *Settings) Clamp() {
	if s.FileSort > SortByName {
		s.FileSort = SortByTime
	}
	if s.Timezone < -12 || s.Timezone > 12 {
		s.Timezone = 0
	}
	if s.SoundVolume > 10 {
		s.SoundVolume = 10
	}
	if s.Language == "" {
		s.Language = "en"
	}
}

// Encode returns the flash record for s.
func Encode(s *Settings) ([]byte, error) {
	body, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("settings: encode: %w", err)
	}
	if headerSize+len(body) > BlockSize {
		return nil, fmt.Errorf("settings: record of %d bytes exceeds block", len(body))
	}
	rec := make([]byte, headerSize+len(body))
	binary.LittleEndian.PutUint32(rec[0:], magic)
	binary.LittleEndian.PutUint32(rec[4:], uint32(len(body)))
	binary.LittleEndian.PutUint32(rec[8:], crc32.ChecksumIEEE(body))
	copy(rec[headerSize:], body)
	return rec, nil
}

// Decode parses a flash record. Fields absent from an older record keep
// their defaults.
func Decode(rec []byte) (Settings, error) {
	s := Defaults()
	if len(rec) < headerSize {
		return s, ErrCorrupt
	}
	m := binary.LittleEndian.Uint32(rec[0:])
	if m == 0xFFFFFFFF {
		return s, ErrEmpty
	}
	if m != magic {
		return s, ErrCorrupt
	}
	n := binary.LittleEndian.Uint32(rec[4:])
	if n > uint32(len(rec)-headerSize) {
		return s, ErrCorrupt
	}
	body := rec[headerSize : headerSize+n]
	if crc32.ChecksumIEEE(body) != binary.LittleEndian.Uint32(rec[8:]) {
		return s, ErrCorrupt
	}
	if err := msgpack.Unmarshal(body, &s); err != nil {
		return Defaults(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	s.Clamp()
	return s, nil
}

// Store holds the current settings and writes them back to flash.
type Store struct {
	flash hal.Flash
	off   uint32
	cur   Settings
}

// Open loads the record at off. A missing or corrupt record yields the
// defaults together with the error, so callers can log it and carry on.
func Open(f hal.Flash, off uint32) (*Store, error) {
	st := &Store{flash: f, off: off, cur: Defaults()}
	err := st.Load()
	return st, err
}

// Load re-reads flash.
func (st *Store) Load() error {
	if st.flash == nil {
		return hal.ErrNotImplemented
	}
	buf := make([]byte, BlockSize)
	if _, err := st.flash.ReadAt(buf, st.off); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("settings: read: %w", err)
	}
	s, err := Decode(buf)
	st.cur = s
	return err
}

// Get returns a copy of the current settings.
func (st *Store) Get() Settings { return st.cur }

// Update applies fn and persists the result.
func (st *Store) Update(fn func(*Settings)) error {
	s := st.cur
	fn(&s)
	s.Clamp()
	st.cur = s
	return st.save()
}

// Set replaces the settings and persists them.
func (st *Store) Set(s Settings) error {
	return st.Update(func(cur *Settings) { *cur = s })
}

// FactoryReset writes the defaults.
func (st *Store) FactoryReset() error {
	return st.Set(Defaults())
}

func (st *Store) save() error {
	if st.flash == nil {
		return hal.ErrNotImplemented
	}
	rec, err := Encode(&st.cur)
	if err != nil {
		return err
	}
	if err := st.flash.Erase(st.off, BlockSize); err != nil {
		return fmt.Errorf("settings: erase: %w", err)
	}
	if _, err := st.flash.WriteAt(rec, st.off); err != nil {
		return fmt.Errorf("settings: write: %w", err)
	}
	return nil
}

// WriteBinary writes the raw record, as stored in flash, to w.
func (st *Store) WriteBinary(w io.Writer) error {
	rec, err := Encode(&st.cur)
	if err != nil {
		return err
	}
	_, err = w.Write(rec)
	return err
}

// ReadBinary replaces the settings with a raw record read from r.
func (st *Store) ReadBinary(r io.Reader) error {
	rec, err := io.ReadAll(io.LimitReader(r, BlockSize))
	if err != nil {
		return fmt.Errorf("settings: read binary: %w", err)
	}
	s, err := Decode(rec)
	if err != nil {
		return err
	}
	return st.Set(s)
}

// ExportYAML writes the settings as YAML.
func (st *Store) ExportYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&st.cur); err != nil {
		return fmt.Errorf("settings: yaml: %w", err)
	}
	return enc.Close()
}

// ImportYAML reads settings from YAML. Keys not present keep their current
// values.
func (st *Store) ImportYAML(r io.Reader) error {
	s := st.cur
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return fmt.Errorf("settings: yaml: %w", err)
	}
	return st.Set(s)
}
