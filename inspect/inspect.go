// Package inspect provides the public ONNX model inspection API.
//
// It reads model metadata only: declared inputs and outputs with their
// shapes and element types, operator usage, initializer descriptors, and the
// exporter-stamped model fields. Graphs are never executed.
//
// # Example Usage
//
//	import "github.com/born-ml/onnxinspect/inspect"
//
//	rep, err := inspect.Load("lama_fp32.onnx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, in := range rep.Inputs {
//	    fmt.Printf("%s  %s  %s\n", in.Name, in.ShapeString(), in.Type)
//	}
//
// The actual implementation lives in the internal packages.
package inspect

import (
	internalinspect "github.com/born-ml/onnxinspect/internal/inspect"
	"github.com/born-ml/onnxinspect/internal/onnx"
)

// Report is the full inspection result for one model.
type Report = internalinspect.Report

// TensorInfo describes one declared graph input or output.
type TensorInfo = internalinspect.TensorInfo

// Dim is one dimension of a tensor shape.
type Dim = internalinspect.Dim

// OpCount is one entry of the operator histogram.
type OpCount = internalinspect.OpCount

// InitializerInfo describes one weight tensor without its payload.
type InitializerInfo = internalinspect.InitializerInfo

// MetaEntry is one metadata_props key/value pair.
type MetaEntry = internalinspect.MetaEntry

// Opset is one opset_import entry.
type Opset = internalinspect.Opset

// WeightStats summarizes a decoded tensor payload.
type WeightStats = internalinspect.WeightStats

// Load parses the ONNX file at path and builds its inspection report.
//
// Errors from reading or decoding the file are returned unhandled; a missing
// file surfaces as an *os.PathError, garbage bytes as a decode error.
func Load(path string) (*Report, error) {
	return internalinspect.Load(path)
}

// FromBytes builds a report from raw ONNX model bytes.
func FromBytes(data []byte) (*Report, error) {
	return internalinspect.FromBytes(data)
}

// FileStats parses the model at path and returns payload statistics for
// every initializer whose data can be decoded in-file. Externally stored and
// non-numeric tensors are skipped.
func FileStats(path string) ([]WeightStats, error) {
	model, err := onnx.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return internalinspect.ModelStats(model), nil
}
