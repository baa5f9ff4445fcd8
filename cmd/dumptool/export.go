package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"minipanel/dump/report"

	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [dump-file]",
		Short: "Write a crash dump report or raw dump to a file",
		Long: `Write the decoded report in the chosen format, or with --raw the dump
region exactly as the panel stores it. Without --out the file is named after
the firmware version and the dump reason.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExportCmd,
	}
	cmd.Flags().StringP("format", "f", "markdown", "Report format: markdown, yaml, json, msgpack")
	cmd.Flags().StringP("out", "o", "", "Output file")
	cmd.Flags().Bool("raw", false, "Write the raw dump region instead of a report")
	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	log := setupLogger(cmd)
	name, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	raw, _ := cmd.Flags().GetBool("raw")
	format, err := report.ParseFormat(name)
	if err != nil {
		return err
	}

	src, err := openSource(cmd, args, log)
	if err != nil {
		return err
	}
	defer func() { _ = src.close() }()

	r := report.Build(src.sn, getStringFlag(cmd, "lang"))
	if out == "" {
		ext := format.Ext()
		if raw {
			ext = ".bin"
		}
		out = exportName(r, ext)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if raw {
		_, err = src.sn.WriteTo(f)
	} else {
		err = report.Write(f, r, format)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", out, err)
	}
	log.Info("exported dump", "source", src.name, "out", out, "raw", raw)
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// exportName builds "dump_<firmware>_<flags><ext>", safe for any filesystem.
func exportName(r *report.Report, ext string) string {
	fw := r.Firmware
	if fw == "" {
		fw = "unknown"
	}
	clean := func(s string) string {
		return strings.Map(func(c rune) rune {
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-':
				return c
			}
			return '_'
		}, s)
	}
	return filepath.Clean("dump_" + clean(fw) + "_" + clean(r.Flags) + ext)
}
