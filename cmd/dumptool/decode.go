package main

import (
	"fmt"

	"minipanel/dump/report"

	"github.com/spf13/cobra"
)

// NewDecodeCmd creates the decode command.
func NewDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [dump-file]",
		Short: "Print a crash dump report",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDecodeCmd,
	}
	cmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, yaml, json")
	return cmd
}

func runDecodeCmd(cmd *cobra.Command, args []string) error {
	log := setupLogger(cmd)
	name, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(name)
	if err != nil {
		return err
	}
	if format == report.Msgpack {
		return fmt.Errorf("decode: msgpack is binary, use export")
	}

	src, err := openSource(cmd, args, log)
	if err != nil {
		return err
	}
	defer func() { _ = src.close() }()

	r := report.Build(src.sn, getStringFlag(cmd, "lang"))
	log.Info("decoded dump", "source", src.name, "summary", r.Summary())
	return report.Write(cmd.OutOrStdout(), r, format)
}
