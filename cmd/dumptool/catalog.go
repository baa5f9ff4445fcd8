package main

import (
	"strconv"

	"minipanel/fault/catalog"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"
)

// NewCatalogCmd creates the catalog command.
func NewCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the error codes the panel can show",
		Args:  cobra.NoArgs,
		RunE:  runCatalogCmd,
	}
}

func runCatalogCmd(cmd *cobra.Command, _ []string) error {
	lang := getStringFlag(cmd, "lang")
	rows := make([][]string, 0, len(catalog.Entries))
	for _, e := range catalog.Entries {
		rows = append(rows, []string{
			strconv.Itoa(int(e.Code)),
			e.Title,
			e.Text,
			string(catalog.AppendLongURL(nil, e.Code, lang)),
		})
	}
	md := markdown.NewMarkdown(cmd.OutOrStdout())
	md.H1("Error codes")
	md.PlainText("")
	md.Table(markdown.TableSet{Header: []string{"Code", "Title", "Text", "Help"}, Rows: rows})
	return md.Build()
}
