package main

import (
	"fmt"

	"minipanel/internal/buildinfo"

	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dumptool version %s\n", buildinfo.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", buildinfo.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", buildinfo.Date)
		},
	}
}
