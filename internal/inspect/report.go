// Package inspect turns a parsed ONNX model into inspection reports.
//
// A Report is a flattened, ordering-stable view of the model metadata:
// inputs and outputs in declaration order, operator counts, initializer
// descriptors, and the model-level fields exporters stamp into the file.
// Nothing here executes the graph.
package inspect

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/born-ml/onnxinspect/internal/onnx"
)

// Dim is one dimension of a tensor shape. A fixed dimension carries Value;
// a dynamic one carries Param (the exporter's symbolic name) when available.
type Dim struct {
	Value   int64  `json:"value,omitempty"`
	Param   string `json:"param,omitempty"`
	Dynamic bool   `json:"dynamic,omitempty"`
}

// String renders the dimension the way shape listings print it: the fixed
// value, the symbolic name, or "?" for a fully unknown dimension.
func (d Dim) String() string {
	if !d.Dynamic {
		return strconv.FormatInt(d.Value, 10)
	}
	if d.Param != "" {
		return d.Param
	}
	return "?"
}

// TensorInfo describes one declared graph input or output.
type TensorInfo struct {
	Name        string        `json:"name"`
	Type        onnx.DataType `json:"elem_type"`
	Shape       []Dim         `json:"shape"`
	Initializer bool          `json:"initializer,omitempty"`
}

// ShapeString renders the shape as "1 x 3 x 256 x 256", or "scalar" for a
// rank-0 tensor.
func (t TensorInfo) ShapeString() string {
	if len(t.Shape) == 0 {
		return "scalar"
	}
	parts := make([]string, len(t.Shape))
	for i, d := range t.Shape {
		parts[i] = d.String()
	}
	return strings.Join(parts, " x ")
}

// OpCount is one entry of the operator histogram.
type OpCount struct {
	OpType string `json:"op_type"`
	Count  int    `json:"count"`
}

// InitializerInfo describes one weight tensor without its payload.
type InitializerInfo struct {
	Name     string        `json:"name"`
	Type     onnx.DataType `json:"elem_type"`
	Dims     []int64       `json:"dims"`
	Elements int64         `json:"elements"`
	Bytes    int64         `json:"bytes"`
	External bool          `json:"external,omitempty"`
}

// MetaEntry is one metadata_props key/value pair, in file order.
type MetaEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Opset is one opset_import entry.
type Opset struct {
	Domain  string `json:"domain"`
	Version int64  `json:"version"`
}

// Report is the full inspection result for one model file.
type Report struct {
	Path            string            `json:"path,omitempty"`
	FileSize        int64             `json:"file_size,omitempty"`
	IRVersion       int64             `json:"ir_version"`
	Opsets          []Opset           `json:"opsets,omitempty"`
	Producer        string            `json:"producer,omitempty"`
	ProducerVersion string            `json:"producer_version,omitempty"`
	Domain          string            `json:"domain,omitempty"`
	ModelVersion    int64             `json:"model_version,omitempty"`
	GraphName       string            `json:"graph_name,omitempty"`
	Inputs          []TensorInfo      `json:"inputs"`
	Outputs         []TensorInfo      `json:"outputs"`
	Ops             []OpCount         `json:"ops,omitempty"`
	Initializers    []InitializerInfo `json:"initializers,omitempty"`
	Metadata        []MetaEntry       `json:"metadata,omitempty"`
	NodeCount       int               `json:"node_count"`
	ParamCount      int64             `json:"param_count"`
}

// Build flattens a parsed model into a Report. A model without a graph
// yields a report with model-level fields only.
func Build(model *onnx.ModelProto) *Report {
	rep := &Report{
		IRVersion:       model.IRVersion,
		Producer:        model.ProducerName,
		ProducerVersion: model.ProducerVersion,
		Domain:          model.Domain,
		ModelVersion:    model.ModelVersion,
	}
	for _, op := range model.OpsetImport {
		rep.Opsets = append(rep.Opsets, Opset{Domain: op.Domain, Version: op.Version})
	}
	for _, kv := range model.MetadataProps {
		rep.Metadata = append(rep.Metadata, MetaEntry{Key: kv.Key, Value: kv.Value})
	}

	graph := model.Graph
	if graph == nil {
		return rep
	}
	rep.GraphName = graph.Name
	rep.NodeCount = len(graph.Nodes)

	// Initializer-backed inputs (weights declared as inputs, pre-IR4 style)
	// are flagged so listings can tell them from runtime inputs.
	initNames := make(map[string]bool, len(graph.Initializers))
	for i := range graph.Initializers {
		initNames[graph.Initializers[i].Name] = true
	}

	for i := range graph.Inputs {
		info := valueInfo(&graph.Inputs[i])
		info.Initializer = initNames[info.Name]
		rep.Inputs = append(rep.Inputs, info)
	}
	for i := range graph.Outputs {
		rep.Outputs = append(rep.Outputs, valueInfo(&graph.Outputs[i]))
	}

	counts := make(map[string]int)
	for i := range graph.Nodes {
		counts[graph.Nodes[i].OpType]++
	}
	for op, n := range counts {
		rep.Ops = append(rep.Ops, OpCount{OpType: op, Count: n})
	}
	sort.Slice(rep.Ops, func(i, j int) bool {
		if rep.Ops[i].Count != rep.Ops[j].Count {
			return rep.Ops[i].Count > rep.Ops[j].Count
		}
		return rep.Ops[i].OpType < rep.Ops[j].OpType
	})

	for i := range graph.Initializers {
		t := &graph.Initializers[i]
		info := InitializerInfo{
			Name:     t.Name,
			Type:     t.DataType,
			Dims:     t.Dims,
			Elements: t.NumElements(),
			External: t.DataLocation == onnx.DataLocationExternal,
		}
		info.Bytes = payloadBytes(t)
		rep.Initializers = append(rep.Initializers, info)
		rep.ParamCount += info.Elements
	}

	return rep
}

// Load parses the model at path and builds its report.
func Load(path string) (*Report, error) {
	model, err := onnx.ParseFile(path)
	if err != nil {
		return nil, err
	}
	rep := Build(model)
	rep.Path = path
	if fi, err := os.Stat(path); err == nil {
		rep.FileSize = fi.Size()
	}
	return rep, nil
}

// FromBytes builds a report from raw model bytes.
func FromBytes(data []byte) (*Report, error) {
	model, err := onnx.Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(model), nil
}

// Input returns the input with the given name.
func (r *Report) Input(name string) (TensorInfo, error) {
	for _, in := range r.Inputs {
		if in.Name == name {
			return in, nil
		}
	}
	return TensorInfo{}, fmt.Errorf("no input named %q", name)
}

// RuntimeInputs returns the inputs the caller must feed at inference time,
// i.e. declared inputs not backed by an initializer.
func (r *Report) RuntimeInputs() []TensorInfo {
	var out []TensorInfo
	for _, in := range r.Inputs {
		if !in.Initializer {
			out = append(out, in)
		}
	}
	return out
}

func valueInfo(vi *onnx.ValueInfoProto) TensorInfo {
	info := TensorInfo{Name: vi.Name}
	if vi.Type == nil || vi.Type.Tensor == nil {
		return info
	}
	tt := vi.Type.Tensor
	info.Type = tt.ElemType
	if tt.Shape == nil {
		return info
	}
	for _, d := range tt.Shape.Dims {
		if d.HasValue {
			info.Shape = append(info.Shape, Dim{Value: d.Value})
		} else {
			info.Shape = append(info.Shape, Dim{Param: d.Param, Dynamic: true})
		}
	}
	return info
}

// payloadBytes reports the stored size of a tensor payload, falling back to
// the size implied by type and element count when data lives externally or
// in the typed legacy fields.
func payloadBytes(t *onnx.TensorProto) int64 {
	if len(t.RawData) > 0 {
		return int64(len(t.RawData))
	}
	switch {
	case len(t.FloatData) > 0:
		return int64(len(t.FloatData)) * 4
	case len(t.Int32Data) > 0:
		return int64(len(t.Int32Data)) * 4
	case len(t.Int64Data) > 0:
		return int64(len(t.Int64Data)) * 8
	case len(t.DoubleData) > 0:
		return int64(len(t.DoubleData)) * 8
	}
	return t.NumElements() * int64(t.DataType.Size())
}
