// Command onnxinspect prints metadata from ONNX model files.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/onnxinspect/cmd"
)

func main() {
	if err := cmd.NewCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
