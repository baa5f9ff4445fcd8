//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// hostMedia maps the USB drive onto a directory. A missing directory reads
// as an ejected drive.
type hostMedia struct {
	dir string
}

func (m *hostMedia) Inserted() bool {
	if m.dir == "" {
		return false
	}
	st, err := os.Stat(m.dir)
	return err == nil && st.IsDir()
}

func (m *hostMedia) path(name string) (string, error) {
	if !m.Inserted() {
		return "", ErrMediaNotPresent
	}
	clean := filepath.Base(filepath.Clean("/" + name))
	if clean == "/" || clean == "." {
		return "", fmt.Errorf("media: invalid name %q", name)
	}
	return filepath.Join(m.dir, clean), nil
}

func (m *hostMedia) Create(name string) (io.WriteCloser, error) {
	p, err := m.path(name)
	if err != nil {
		return nil, err
	}
	return os.Create(p)
}

func (m *hostMedia) Open(name string) (io.ReadCloser, error) {
	p, err := m.path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}
