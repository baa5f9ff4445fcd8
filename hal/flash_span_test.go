package hal

import (
	"errors"
	"os"
	"testing"
)

func TestFit32(t *testing.T) {
	cases := map[int64]uint32{-1: 0, 0: 0, 4096: 4096, 1 << 40: ^uint32(0)}
	for in, want := range cases {
		if got := fit32(in); got != want {
			t.Fatalf("fit32(%d)=%d want %d", in, got, want)
		}
	}
}

func TestClipSpan(t *testing.T) {
	if n, ok := clipSpan(0, 16, 64); !ok || n != 16 {
		t.Fatalf("inside: %d %v", n, ok)
	}
	if n, ok := clipSpan(60, 16, 64); !ok || n != 4 {
		t.Fatalf("tail: %d %v", n, ok)
	}
	if _, ok := clipSpan(64, 1, 64); ok {
		t.Fatal("read at end accepted")
	}
}

func TestEraseSpan(t *testing.T) {
	if err := eraseSpan(4096, 8192, 4096, 16384); err != nil {
		t.Fatal(err)
	}
	for _, c := range [][2]uint32{{100, 4096}, {0, 100}, {16384, 4096}, {12288, 8192}} {
		if err := eraseSpan(c[0], c[1], 4096, 16384); !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("erase %v: %v", c, err)
		}
	}
	if err := eraseSpan(0, 4096, 0, 16384); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("no block size: %v", err)
	}
}
