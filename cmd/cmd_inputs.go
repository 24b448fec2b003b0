package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/born-ml/onnxinspect/inspect"
)

func newInputsCmd() *cobra.Command {
	inputsCmd := &cobra.Command{
		Use:   "inputs MODEL",
		Short: "List the declared inputs of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := inspect.Load(args[0])
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), rep.Inputs)
			}
			writeTensorBlocks(cmd.OutOrStdout(), "Model Inputs:", rep.Inputs)
			return nil
		},
	}
	inputsCmd.Flags().Bool("json", false, "Emit JSON instead of text")
	return inputsCmd
}

func newOutputsCmd() *cobra.Command {
	outputsCmd := &cobra.Command{
		Use:   "outputs MODEL",
		Short: "List the declared outputs of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := inspect.Load(args[0])
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), rep.Outputs)
			}
			writeTensorBlocks(cmd.OutOrStdout(), "Model Outputs:", rep.Outputs)
			return nil
		},
	}
	outputsCmd.Flags().Bool("json", false, "Emit JSON instead of text")
	return outputsCmd
}

// writeTensorBlocks prints one block per tensor, in declaration order.
func writeTensorBlocks(w io.Writer, header string, infos []inspect.TensorInfo) {
	fmt.Fprintln(w, header)
	for _, info := range infos {
		name := info.Name
		if info.Initializer {
			name += " (initializer)"
		}
		fmt.Fprintf(w, "- Name: %s\n", name)
		fmt.Fprintf(w, "- Shape: %s\n", info.ShapeString())
		fmt.Fprintf(w, "- Type: %s\n", info.Type)
	}
}
