// Package onnx decodes serialized ONNX models.
//
// ONNX (Open Neural Network Exchange) files are protobuf messages following
// onnx.proto. This package implements a hand-written wire-format decoder for
// the subset of that schema needed for model inspection, without generated
// protobuf code or external dependencies.
//
// Key types:
//   - ModelProto: top-level model with metadata and graph
//   - GraphProto: computation graph with nodes, inputs, outputs, initializers
//   - ValueInfoProto: input/output tensor declarations (name, shape, type)
//   - TensorProto: weight/initializer tensor with dims, type, and payload
//
// Unknown fields are skipped by wire type, so models produced by newer
// exporters still decode.
//
// Example:
//
//	model, err := onnx.ParseFile("lama_fp32.onnx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, in := range model.Graph.Inputs {
//	    fmt.Println(in.Name)
//	}
package onnx
