package main

import (
	"fmt"
	"time"

	"minipanel/dump/archive"
	"minipanel/dump/report"

	"github.com/spf13/cobra"
)

// NewArchiveCmd creates the archive command and its subcommands.
func NewArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Keep decoded dumps in a local database",
	}
	cmd.PersistentFlags().String("db", "dumps", "Archive directory")

	cmd.AddCommand(&cobra.Command{
		Use:   "add [dump-file]",
		Short: "Decode a dump and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runArchiveAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List archived dumps, newest first",
		Args:  cobra.NoArgs,
		RunE:  runArchiveListCmd,
	})
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print an archived report",
		Args:  cobra.ExactArgs(1),
		RunE:  runArchiveShowCmd,
	}
	show.Flags().StringP("format", "f", "markdown", "Output format: markdown, yaml, json")
	cmd.AddCommand(show)
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an archived dump",
		Args:  cobra.ExactArgs(1),
		RunE:  runArchiveRmCmd,
	})
	return cmd
}

func openArchive(cmd *cobra.Command) (*archive.Archive, error) {
	return archive.Open(getStringFlag(cmd, "db"))
}

func runArchiveAddCmd(cmd *cobra.Command, args []string) error {
	log := setupLogger(cmd)
	src, err := openSource(cmd, args, log)
	if err != nil {
		return err
	}
	defer func() { _ = src.close() }()

	raw, err := src.raw()
	if err != nil {
		return err
	}
	r := report.Build(src.sn, getStringFlag(cmd, "lang"))

	a, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	id, err := a.Add(cmd.Context(), src.name, r, raw)
	if err != nil {
		return err
	}
	log.Info("archived dump", "id", id, "db", a.Path(), "summary", r.Summary())
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func runArchiveListCmd(cmd *cobra.Command, _ []string) error {
	a, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	list, err := a.List(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, e := range list {
		fmt.Fprintf(w, "%s  %s  %-10s %s\n", e.ID, e.ArchivedAt.Local().Format(time.DateTime), e.Firmware, e.Summary)
	}
	return nil
}

func runArchiveShowCmd(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(name)
	if err != nil {
		return err
	}
	a, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	e, err := a.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return report.Write(cmd.OutOrStdout(), e.Report, format)
}

func runArchiveRmCmd(cmd *cobra.Command, args []string) error {
	a, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return a.Delete(cmd.Context(), args[0])
}
