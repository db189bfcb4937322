package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/shouni/go-picturebook-kit/pkg/catalog"

	"github.com/spf13/cobra"
)

// storiesCmd は、選べるストーリーの一覧を表示するのだ。
var storiesCmd = &cobra.Command{
	Use:     "stories",
	Short:   "選べるストーリーの種類とページ数を表示するのだ。",
	Example: "  picturebook stories",
	Args:    cobra.NoArgs,
	RunE:    storiesCommand,
}

func storiesCommand(cmd *cobra.Command, args []string) error {
	cat := catalog.Default()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tPAGES\tDEFAULT")
	for _, a := range cat.Archetypes() {
		def := ""
		if a.ID == cat.DefaultID() {
			def = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", a.ID, a.Label, a.PageCount(), def)
	}
	return w.Flush()
}
