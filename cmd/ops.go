package cmd

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// ops: list the active precedence table
var OpsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List the binary operator precedence table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := loadTable()
		if err != nil {
			return err
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Operator", "Precedence"})
		for _, op := range tbl.Operators() {
			prec, _ := tbl.Lookup(op)
			table.Append([]string{string(op), strconv.Itoa(prec)})
		}
		table.Render()
		return nil
	},
}
