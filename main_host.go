//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"minipanel/app"
	"minipanel/hal"
)

func main() {
	var cfg hal.HeadlessConfig
	var appCfg app.Config
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&cfg.Host.FlashPath, "flash", "", "Flash image file (default $PANEL_FLASH_PATH or panel.flash).")
	flag.StringVar(&cfg.Host.USBDir, "usb", "", "Directory standing in for the USB drive.")
	flag.BoolVar(&appCfg.Console, "console", false, "Keep the log console on screen instead of the menus.")
	flag.StringVar(&appCfg.Language, "lang", "", "Override the stored UI language (en, cs, de).")
	flag.BoolVar(&appCfg.Debug, "debug", false, "Enable debug menu items.")
	flag.Parse()

	newApp := func(h hal.HAL) func() error { return app.New(h, appCfg) }

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(cfg.Host, newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
