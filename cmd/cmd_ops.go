package cmd

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/born-ml/onnxinspect/inspect"
)

func newOpsCmd() *cobra.Command {
	opsCmd := &cobra.Command{
		Use:   "ops MODEL",
		Short: "Show the operator histogram of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := inspect.Load(args[0])
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), rep.Ops)
			}
			writeOps(cmd.OutOrStdout(), rep.Ops)
			return nil
		},
	}
	opsCmd.Flags().Bool("json", false, "Emit JSON instead of text")
	return opsCmd
}

func writeOps(w io.Writer, ops []inspect.OpCount) {
	table := newTable(w)
	table.SetHeader([]string{"OP", "COUNT"})
	for _, op := range ops {
		table.Append([]string{op.OpType, strconv.Itoa(op.Count)})
	}
	table.Render()
}
