package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/richardissailing/PyAccessibility/rule"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in accessibility rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSEVERITY\tWCAG\tDESCRIPTION")
		for _, info := range rule.NewCatalog().List() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				info.ID, info.DefaultSeverity, info.Criterion, info.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
