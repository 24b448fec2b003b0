package onnx

// Struct mirrors of the onnx.proto messages relevant to inspection.
// Field numbers are documented next to each decoder case in decode.go.

// ModelProto is the top-level ONNX model.
type ModelProto struct {
	IRVersion       int64
	ProducerName    string
	ProducerVersion string
	Domain          string
	ModelVersion    int64
	DocString       string
	Graph           *GraphProto
	OpsetImport     []OperatorSetID
	MetadataProps   []StringStringEntry
}

// GraphProto is the computation graph.
type GraphProto struct {
	Name         string
	DocString    string
	Nodes        []NodeProto
	Inputs       []ValueInfoProto
	Outputs      []ValueInfoProto
	ValueInfo    []ValueInfoProto
	Initializers []TensorProto
}

// NodeProto is a single operation in the graph.
type NodeProto struct {
	Name    string
	OpType  string
	Domain  string
	Inputs  []string
	Outputs []string
}

// ValueInfoProto declares a named tensor (graph input, output, or
// intermediate value) together with its type.
type ValueInfoProto struct {
	Name      string
	DocString string
	Type      *TypeProto
}

// TypeProto wraps the tensor type. Sequence, map, and optional types are
// skipped during decode; Tensor stays nil for those.
type TypeProto struct {
	Tensor *TensorTypeProto
}

// TensorTypeProto carries element type and shape.
type TensorTypeProto struct {
	ElemType DataType
	Shape    *TensorShapeProto
}

// TensorShapeProto is an ordered list of dimensions.
type TensorShapeProto struct {
	Dims []DimensionProto
}

// DimensionProto is one dimension: either a fixed Value or a symbolic Param
// (e.g. "batch_size"). Both may be unset for a fully unknown dimension.
type DimensionProto struct {
	Value    int64
	Param    string
	HasValue bool
}

// TensorProto is a constant tensor, typically a weight initializer.
type TensorProto struct {
	Name         string
	DataType     DataType
	Dims         []int64
	RawData      []byte
	FloatData    []float32
	Int32Data    []int32
	Int64Data    []int64
	DoubleData   []float64
	DocString    string
	DataLocation int32
}

// TensorProto.DataLocation values.
const (
	DataLocationDefault  = 0
	DataLocationExternal = 1
)

// OperatorSetID names an opset domain and version required by the model.
type OperatorSetID struct {
	Domain  string
	Version int64
}

// StringStringEntry is a key/value pair from metadata_props.
type StringStringEntry struct {
	Key   string
	Value string
}

// NumElements returns the element count implied by Dims, or 0 for a tensor
// with any zero dimension. A scalar (no dims) has one element.
func (t *TensorProto) NumElements() int64 {
	n := int64(1)
	for _, d := range t.Dims {
		n *= d
	}
	return n
}

// Opset returns the version imported for the default ONNX domain, or 0 if
// the model does not declare one.
func (m *ModelProto) Opset() int64 {
	for _, op := range m.OpsetImport {
		if op.Domain == "" || op.Domain == "ai.onnx" {
			return op.Version
		}
	}
	return 0
}
