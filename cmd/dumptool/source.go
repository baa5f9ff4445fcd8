package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"minipanel/dump"

	"github.com/spf13/cobra"
)

// source is an opened dump plus where it came from.
type source struct {
	name  string
	sn    *dump.Snapshot
	close func() error
}

// openSource opens the raw dump file in args, or the dump region of the
// flash image when args is empty.
func openSource(cmd *cobra.Command, args []string, log *slog.Logger) (*source, error) {
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("open dump: %w", err)
		}
		sn, err := dump.Load(dump.ReaderAtDevice{R: f}, 0)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("%s: %w", args[0], err)
		}
		log.Debug("loaded dump file", "path", args[0], "bytes", sn.Size())
		return &source{name: args[0], sn: sn, close: f.Close}, nil
	}

	path := getStringFlag(cmd, "flash")
	ff, err := openFlashFile(path, false)
	if err != nil {
		return nil, err
	}
	sn, err := ff.dumpStore().Open()
	if err != nil {
		_ = ff.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("loaded dump region", "flash", path, "offset", dump.RegionOffset, "bytes", sn.Size())
	return &source{name: path, sn: sn, close: ff.Close}, nil
}

// raw returns the dump region bytes.
func (s *source) raw() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.sn.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	return buf.Bytes(), nil
}
