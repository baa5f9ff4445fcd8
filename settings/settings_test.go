package settings

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type memFlash struct{ mem []byte }

func newMemFlash() *memFlash {
	f := &memFlash{mem: make([]byte, 2*BlockSize)}
	for i := range f.mem {
		f.mem[i] = 0xFF
	}
	return f
}

func (f *memFlash) SizeBytes() uint32       { return uint32(len(f.mem)) }
func (f *memFlash) EraseBlockBytes() uint32 { return BlockSize }
func (f *memFlash) ReadAt(p []byte, off uint32) (int, error) {
	return copy(p, f.mem[off:]), nil
}
func (f *memFlash) WriteAt(p []byte, off uint32) (int, error) {
	return copy(f.mem[off:], p), nil
}
func (f *memFlash) Erase(off, size uint32) error {
	for i := off; i < off+size; i++ {
		f.mem[i] = 0xFF
	}
	return nil
}

func TestOpenEmptyGivesDefaults(t *testing.T) {
	st, err := Open(newMemFlash(), 0)
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("err=%v", err)
	}
	if st.Get() != Defaults() {
		t.Fatalf("got %+v", st.Get())
	}
}

func TestUpdatePersists(t *testing.T) {
	f := newMemFlash()
	st, _ := Open(f, BlockSize)
	if err := st.Update(func(s *Settings) {
		s.Timezone = -5
		s.FileSort = SortByName
		s.SoundMode = 3
		s.Language = "cs"
	}); err != nil {
		t.Fatal(err)
	}

	again, err := Open(f, BlockSize)
	if err != nil {
		t.Fatal(err)
	}
	got := again.Get()
	if got.Timezone != -5 || got.FileSort != SortByName || got.SoundMode != 3 || got.Language != "cs" {
		t.Fatalf("got %+v", got)
	}
}

func TestCorruptRecord(t *testing.T) {
	f := newMemFlash()
	st, _ := Open(f, 0)
	if err := st.Update(func(s *Settings) { s.SoundVolume = 7 }); err != nil {
		t.Fatal(err)
	}
	f.mem[headerSize] ^= 0xFF

	st, err := Open(f, 0)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err=%v", err)
	}
	if st.Get().SoundVolume != Defaults().SoundVolume {
		t.Fatalf("got %+v", st.Get())
	}
}

func TestClamp(t *testing.T) {
	s := Settings{FileSort: 9, Timezone: 40, SoundVolume: 99}
	s.Clamp()
	if s.FileSort != SortByTime || s.Timezone != 0 || s.SoundVolume != 10 || s.Language != "en" {
		t.Fatalf("got %+v", s)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	st, _ := Open(newMemFlash(), 0)
	_ = st.Update(func(s *Settings) { s.Timezone = 2 })

	var buf bytes.Buffer
	if err := st.ExportYAML(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "timezone: 2") {
		t.Fatalf("yaml:\n%s", buf.String())
	}

	other, _ := Open(newMemFlash(), 0)
	if err := other.ImportYAML(strings.NewReader("timezone: 2\nsound_volume: 9\n")); err != nil {
		t.Fatal(err)
	}
	got := other.Get()
	if got.Timezone != 2 || got.SoundVolume != 9 || !got.MenuTimeout {
		t.Fatalf("got %+v", got)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	st, _ := Open(newMemFlash(), 0)
	_ = st.Update(func(s *Settings) { s.LastFilament = 3 })

	var buf bytes.Buffer
	if err := st.WriteBinary(&buf); err != nil {
		t.Fatal(err)
	}
	other, _ := Open(newMemFlash(), 0)
	if err := other.ReadBinary(&buf); err != nil {
		t.Fatal(err)
	}
	if other.Get().LastFilament != 3 {
		t.Fatalf("got %+v", other.Get())
	}
	if err := other.ReadBinary(strings.NewReader("junk")); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err=%v", err)
	}
}

func TestFactoryReset(t *testing.T) {
	f := newMemFlash()
	st, _ := Open(f, 0)
	_ = st.Update(func(s *Settings) { s.MenuTimeout = false })
	if err := st.FactoryReset(); err != nil {
		t.Fatal(err)
	}
	again, _ := Open(f, 0)
	if !again.Get().MenuTimeout {
		t.Fatal("expected defaults after reset")
	}
}
