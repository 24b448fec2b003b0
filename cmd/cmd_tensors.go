package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/born-ml/onnxinspect/inspect"
	"github.com/born-ml/onnxinspect/internal/format"
)

func newTensorsCmd() *cobra.Command {
	tensorsCmd := &cobra.Command{
		Use:   "tensors MODEL",
		Short: "List the weight tensors of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := inspect.Load(args[0])
			if err != nil {
				return err
			}

			withStats, _ := cmd.Flags().GetBool("stats")
			var stats map[string]inspect.WeightStats
			if withStats {
				all, err := inspect.FileStats(args[0])
				if err != nil {
					return err
				}
				stats = make(map[string]inspect.WeightStats, len(all))
				for _, s := range all {
					stats[s.Name] = s
				}
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				if withStats {
					return writeJSON(cmd.OutOrStdout(), struct {
						Initializers []inspect.InitializerInfo      `json:"initializers"`
						Stats        map[string]inspect.WeightStats `json:"stats"`
					}{rep.Initializers, stats})
				}
				return writeJSON(cmd.OutOrStdout(), rep.Initializers)
			}

			writeTensors(cmd.OutOrStdout(), rep.Initializers, stats)
			return nil
		},
	}
	tensorsCmd.Flags().Bool("stats", false, "Decode payloads and report min/max/mean")
	tensorsCmd.Flags().Bool("json", false, "Emit JSON instead of text")
	return tensorsCmd
}

func writeTensors(w io.Writer, inits []inspect.InitializerInfo, stats map[string]inspect.WeightStats) {
	table := newTable(w)
	header := []string{"NAME", "TYPE", "SHAPE", "SIZE"}
	if stats != nil {
		header = append(header, "MIN", "MAX", "MEAN")
	}
	table.SetHeader(header)

	for _, init := range inits {
		size := format.HumanBytes(init.Bytes)
		if init.External {
			size += " (external)"
		}
		row := []string{init.Name, init.Type.String(), fmt.Sprint(init.Dims), size}
		if stats != nil {
			if s, ok := stats[init.Name]; ok {
				row = append(row,
					fmt.Sprintf("%.4g", s.Min),
					fmt.Sprintf("%.4g", s.Max),
					fmt.Sprintf("%.4g", s.Mean))
			} else {
				row = append(row, "-", "-", "-")
			}
		}
		table.Append(row)
	}
	table.Render()
}
