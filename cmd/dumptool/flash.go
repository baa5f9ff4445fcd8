package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"minipanel/dump"
)

const (
	defaultFlashSize = 2 * 1024 * 1024
	eraseSize        = 4096
)

// flashFile is a flash image on disk with NOR semantics: erase sets bytes to
// 0xFF and writes may only clear bits.
type flashFile struct {
	f    *os.File
	size uint32

	scratch []byte
}

// openFlashFile opens the image at path. A missing image is created erased
// when create is set.
func openFlashFile(path string, create bool) (*flashFile, error) {
	flags := os.O_RDWR
	if create {
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open flash file %q: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat flash file %q: %w", path, err)
	}

	ff := &flashFile{f: f, size: uint32(st.Size()), scratch: make([]byte, eraseSize)}
	for i := range ff.scratch {
		ff.scratch[i] = 0xFF
	}
	if st.Size() == 0 {
		if !create {
			_ = f.Close()
			return nil, fmt.Errorf("flash file %q is empty", path)
		}
		ff.size = defaultFlashSize
		if err := f.Truncate(int64(ff.size)); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("truncate flash file %q to %d: %w", path, ff.size, err)
		}
		if err := ff.Erase(0, ff.size); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("erase flash file %q: %w", path, err)
		}
	}
	if ff.size <= dump.RegionOffset || ff.size%eraseSize != 0 {
		_ = f.Close()
		return nil, fmt.Errorf("flash file %q: bad size %d", path, ff.size)
	}
	return ff, nil
}

func (f *flashFile) Close() error { return f.f.Close() }

func (f *flashFile) SizeBytes() uint32       { return f.size }
func (f *flashFile) EraseBlockBytes() uint32 { return eraseSize }

func (f *flashFile) ReadAt(p []byte, off uint32) (int, error) {
	if off >= f.size {
		return 0, fmt.Errorf("flash read at %d: %w", off, os.ErrInvalid)
	}
	maxN := int(f.size - off)
	if len(p) > maxN {
		p = p[:maxN]
	}
	return f.f.ReadAt(p, int64(off))
}

func (f *flashFile) WriteAt(p []byte, off uint32) (int, error) {
	if off >= f.size {
		return 0, fmt.Errorf("flash write at %d: %w", off, os.ErrInvalid)
	}
	maxN := int(f.size - off)
	if len(p) > maxN {
		p = p[:maxN]
	}

	prev := make([]byte, len(p))
	if _, err := f.f.ReadAt(prev, int64(off)); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("flash read before write at %d: %w", off, err)
	}
	for i := range p {
		if prev[i]&p[i] != p[i] {
			return 0, errors.New("flash write requires erase")
		}
	}
	return f.f.WriteAt(p, int64(off))
}

func (f *flashFile) Erase(off, size uint32) error {
	if size == 0 {
		return nil
	}
	if off%eraseSize != 0 || size%eraseSize != 0 || off >= f.size || off+size > f.size {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}
	for size > 0 {
		if _, err := f.f.WriteAt(f.scratch, int64(off)); err != nil {
			return fmt.Errorf("flash erase block at %d: %w", off, err)
		}
		off += eraseSize
		size -= eraseSize
	}
	return nil
}

// dumpStore returns the store over the dump region of f.
func (f *flashFile) dumpStore() *dump.Store {
	return dump.NewStore(f, dump.RegionOffset, f.size-dump.RegionOffset)
}
