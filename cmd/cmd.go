// Package cmd wires the onnxinspect command-line interface.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const version = "v0.1.0"

// NewCLI builds the root command with all subcommands attached.
func NewCLI() *cobra.Command {
	if os.Getenv("ONNXINSPECT_DEBUG") != "" {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "onnxinspect",
		Short:         "Inspect ONNX model metadata",
		Long:          "Inspect ONNX model metadata: inputs, outputs, operators, and weights.\nModels are parsed, never executed.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.AddCommand(
		newInputsCmd(),
		newOutputsCmd(),
		newShowCmd(),
		newOpsCmd(),
		newTensorsCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "onnxinspect %s\n", version)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable applies the borderless table style used for all listings.
func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}
