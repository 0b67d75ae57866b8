package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"strata/internal/driver"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols <file>",
	Short: "Dump the symbol table of one file",
	Long: `Analyze a single file and print every declared symbol with its kind,
reference counts, lifetime classification and declared type.`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbols,
}

func runSymbols(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	// The dump needs the full tables, so the diagnostics-only cache
	// path is skipped on purpose.
	c := driver.NewContext(cfg)
	u, err := c.AnalyzeFile(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tREADS\tWRITES\tONCE\tDEFINED\tTYPE")
	for _, e := range u.Table.AllSymbols() {
		reads, writes := 0, 0
		once, defined := "-", "-"
		if col := u.Table.References(e.ID); col != nil {
			reads, writes = col.ReadCount(), col.WriteCount()
			once = yesNo(col.AssignedOnceInLifetime())
			defined = yesNo(col.IsWellDefined())
		}
		typ := "-"
		if ti, ok := u.Table.DeclaredType(e.ID); ok {
			typ = u.Table.Describe(ti)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			e.Name, e.Kind, reads, writes, once, defined, typ)
	}
	return w.Flush()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
