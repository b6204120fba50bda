package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finsight/kpiscan/internal/catalog"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the active pattern catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(cfg.Extraction.CatalogPath)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tINDUSTRY\tTEMPLATES\tUNITS\tCONTEXT\tEXCLUDE")
		for _, p := range cat.Patterns() {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
				p.Type,
				p.IndustryHint,
				len(p.Templates),
				strings.Join(p.UnitClasses, ","),
				strings.Join(p.ContextKeywords, ","),
				strings.Join(p.ExcludeKeywords, ","),
			)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}
