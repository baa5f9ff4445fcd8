package main

import (
	"fmt"
	"log/slog"
	"os"

	"minipanel/internal/buildinfo"

	"github.com/spf13/cobra"
)

const defaultFlashPath = "panel.flash"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dumptool",
		Short: "Inspect panel crash dumps",
		Long: `dumptool decodes the post-mortem dump the panel writes after a hard fault,
watchdog reset or thermal error. It reads the dump region of a flash image or
a raw dump file copied from the panel's USB stick.`,
		Version:       buildinfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flash := os.Getenv("PANEL_FLASH_PATH")
	if flash == "" {
		flash = defaultFlashPath
	}
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("flash", flash, "Flash image holding the dump region")
	cmd.PersistentFlags().String("lang", "en", "Language of help links")

	cmd.AddCommand(NewDecodeCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewArchiveCmd())
	cmd.AddCommand(NewSynthCmd())
	cmd.AddCommand(NewCatalogCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, _ = cmd.Root().PersistentFlags().GetBool("verbose")
	}
	return verbose
}

func getStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, _ = cmd.Root().PersistentFlags().GetString(name)
	}
	return v
}

func setupLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if getVerboseFlag(cmd) {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
