package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/born-ml/onnxinspect/inspect"
	"github.com/born-ml/onnxinspect/internal/format"
)

func newShowCmd() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show MODEL",
		Short: "Show a model summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := inspect.Load(args[0])
			if err != nil {
				return err
			}
			verbose, _ := cmd.Flags().GetBool("verbose")
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			showInfo(cmd.OutOrStdout(), rep, verbose)
			return nil
		},
	}
	showCmd.Flags().BoolP("verbose", "v", false, "Include metadata and weight tensors")
	showCmd.Flags().Bool("json", false, "Emit JSON instead of text")
	return showCmd
}

func showInfo(w io.Writer, rep *inspect.Report, verbose bool) {
	tableRender := func(header string, rows func() [][]string) {
		data := rows()
		if len(data) == 0 {
			return
		}
		fmt.Fprintln(w, " ", header)
		table := newTable(w)
		table.AppendBulk(data)
		table.Render()
		fmt.Fprintln(w)
	}

	tableRender("Model", func() (rows [][]string) {
		if rep.Producer != "" {
			producer := rep.Producer
			if rep.ProducerVersion != "" {
				producer += " " + rep.ProducerVersion
			}
			rows = append(rows, []string{"", "producer", producer})
		}
		rows = append(rows, []string{"", "ir version", strconv.FormatInt(rep.IRVersion, 10)})
		for _, opset := range rep.Opsets {
			domain := opset.Domain
			if domain == "" {
				domain = "ai.onnx"
			}
			rows = append(rows, []string{"", "opset", fmt.Sprintf("%s v%d", domain, opset.Version)})
		}
		if rep.Domain != "" {
			rows = append(rows, []string{"", "domain", rep.Domain})
		}
		if rep.ModelVersion != 0 {
			rows = append(rows, []string{"", "model version", strconv.FormatInt(rep.ModelVersion, 10)})
		}
		if rep.GraphName != "" {
			rows = append(rows, []string{"", "graph", rep.GraphName})
		}
		rows = append(rows, []string{"", "nodes", strconv.Itoa(rep.NodeCount)})
		rows = append(rows, []string{"", "weights", strconv.Itoa(len(rep.Initializers))})
		if rep.ParamCount > 0 {
			rows = append(rows, []string{"", "parameters", format.HumanNumber(uint64(rep.ParamCount))}) //nolint:gosec // G115: non-negative.
		}
		if rep.FileSize > 0 {
			rows = append(rows, []string{"", "file size", format.HumanBytes(rep.FileSize)})
		}
		return
	})

	tableRender("Inputs", func() (rows [][]string) {
		for _, in := range rep.Inputs {
			name := in.Name
			if in.Initializer {
				name += " (initializer)"
			}
			rows = append(rows, []string{"", name, in.Type.String(), in.ShapeString()})
		}
		return
	})

	tableRender("Outputs", func() (rows [][]string) {
		for _, out := range rep.Outputs {
			rows = append(rows, []string{"", out.Name, out.Type.String(), out.ShapeString()})
		}
		return
	})

	if !verbose {
		return
	}

	tableRender("Metadata", func() (rows [][]string) {
		for _, kv := range rep.Metadata {
			rows = append(rows, []string{"", kv.Key, truncateValue(kv.Value)})
		}
		return
	})

	tableRender("Tensors", func() (rows [][]string) {
		for _, init := range rep.Initializers {
			size := format.HumanBytes(init.Bytes)
			if init.External {
				size += " (external)"
			}
			rows = append(rows, []string{"", init.Name, init.Type.String(), fmt.Sprint(init.Dims), size})
		}
		return
	})
}

// truncateValue keeps metadata values to one readable line; exporters stuff
// whole JSON configs in here.
func truncateValue(s string) string {
	return runewidth.Truncate(s, 80, "...")
}
