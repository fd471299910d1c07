package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/quickcalc/pkg/format"
	"github.com/lemonberrylabs/quickcalc/pkg/stdlib"
)

func newFunctionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the built-in functions and constants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CONSTANT\tVALUE\tDESCRIPTION")
			for _, name := range stdlib.ConstantNames() {
				v, _ := stdlib.Constant(name)
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, format.Result(v), stdlib.Describe(name))
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "FUNCTION\tDESCRIPTION")
			for _, name := range stdlib.FunctionNames() {
				fmt.Fprintf(w, "%s(x)\t%s\n", name, stdlib.Describe(name))
			}
			return w.Flush()
		},
	}
}
