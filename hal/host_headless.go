//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the windowless host runner used for CI runs of
// the panel firmware.
type HeadlessConfig struct {
	Enabled bool
	// Hz is the frame rate. Every frame advances the panel clock and runs
	// the firmware loop StepBudget times.
	Hz         int
	StepBudget int
	// Ticks stops the run after that many frames; zero runs until ctx ends.
	Ticks uint64
	Host  HostConfig
}

// RunHeadless runs the panel firmware without a window. It returns when
// ctx ends or after cfg.Ticks frames, and stops early on a firmware error.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	period := time.Second / time.Duration(cfg.Hz)
	if period <= 0 {
		return fmt.Errorf("headless: frame rate %d Hz too high", cfg.Hz)
	}
	budget := max(cfg.StepBudget, 1)

	h := newHost(cfg.Host)
	step := newApp(h)
	return runFrames(ctx, period, cfg.Ticks, func() error {
		h.t.advance()
		if step == nil {
			return nil
		}
		for range budget {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
}

// runFrames calls frame once per period. It stops when ctx ends or frame
// fails, and after limit frames unless limit is zero.
func runFrames(ctx context.Context, period time.Duration, limit uint64, frame func() error) error {
	tk := time.NewTicker(period)
	defer tk.Stop()

	for n := uint64(0); limit == 0 || n < limit; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
		}
		if err := frame(); err != nil {
			return fmt.Errorf("headless frame %d: %w", n, err)
		}
	}
	return nil
}
