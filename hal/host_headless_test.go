//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunFramesStopsAtLimit(t *testing.T) {
	n := 0
	err := runFrames(context.Background(), time.Millisecond, 3, func() error {
		n++
		return nil
	})
	if err != nil || n != 3 {
		t.Fatalf("frames=%d err=%v", n, err)
	}
}

func TestRunFramesReturnsFrameError(t *testing.T) {
	boom := errors.New("watchdog")
	n := 0
	err := runFrames(context.Background(), time.Millisecond, 0, func() error {
		n++
		if n == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) || n != 2 {
		t.Fatalf("frames=%d err=%v", n, err)
	}
}

func TestRunFramesHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	n := 0
	err := runFrames(ctx, time.Millisecond, 0, func() error {
		n++
		if n == 5 {
			cancel()
		}
		return nil
	})
	if !errors.Is(err, context.Canceled) || n != 5 {
		t.Fatalf("frames=%d err=%v", n, err)
	}
}
