// Package onnxtest builds ONNX protobuf bytes for test fixtures.
//
// The encoder is intentionally minimal: just enough of the wire format to
// construct well-formed models covering the fields the decoder reads.
package onnxtest

import "github.com/born-ml/onnxinspect/internal/onnx"

// Msg accumulates an encoded protobuf message.
type Msg struct {
	data []byte
}

// Varint appends a varint-typed field.
func (m *Msg) Varint(field int, v int64) *Msg {
	m.tag(field, 0)
	m.uvarint(uint64(v)) //nolint:gosec // G115: two's-complement varint.
	return m
}

// Bytes appends a length-delimited field.
func (m *Msg) Bytes(field int, b []byte) *Msg {
	m.tag(field, 2)
	m.uvarint(uint64(len(b)))
	m.data = append(m.data, b...)
	return m
}

// String appends a string field.
func (m *Msg) String(field int, s string) *Msg {
	return m.Bytes(field, []byte(s))
}

// Message appends an embedded message field.
func (m *Msg) Message(field int, sub *Msg) *Msg {
	return m.Bytes(field, sub.Build())
}

// Build returns the encoded bytes.
func (m *Msg) Build() []byte { return m.data }

func (m *Msg) tag(field, wire int) {
	m.uvarint(uint64(field<<3 | wire)) //nolint:gosec // G115: small positive.
}

func (m *Msg) uvarint(v uint64) {
	for v >= 0x80 {
		m.data = append(m.data, byte(v)|0x80)
		v >>= 7
	}
	m.data = append(m.data, byte(v))
}

// Dim is one dimension of a value-info shape: a fixed Value when Param is
// empty, a symbolic dimension otherwise.
type Dim struct {
	Value int64
	Param string
}

// TensorSpec declares a graph input or output.
type TensorSpec struct {
	Name string
	Type onnx.DataType
	Dims []Dim
}

// NodeSpec declares one graph node.
type NodeSpec struct {
	Name    string
	OpType  string
	Inputs  []string
	Outputs []string
}

// InitSpec declares a weight initializer.
type InitSpec struct {
	Name string
	Type onnx.DataType
	Dims []int64
	Raw  []byte
}

// ModelSpec describes a complete test model.
type ModelSpec struct {
	IRVersion    int64 // defaults to 8
	Opset        int64 // defaults to 17
	Producer     string
	GraphName    string
	Inputs       []TensorSpec
	Outputs      []TensorSpec
	Nodes        []NodeSpec
	Initializers []InitSpec
	Metadata     [][2]string
}

// Encode serializes spec as ModelProto bytes.
func Encode(spec ModelSpec) []byte {
	if spec.IRVersion == 0 {
		spec.IRVersion = 8
	}
	if spec.Opset == 0 {
		spec.Opset = 17
	}

	m := &Msg{}
	m.Varint(1, spec.IRVersion)
	if spec.Producer != "" {
		m.String(2, spec.Producer)
	}
	m.Message(7, encodeGraph(spec))
	m.Message(8, (&Msg{}).String(1, "").Varint(2, spec.Opset))
	for _, kv := range spec.Metadata {
		m.Message(14, (&Msg{}).String(1, kv[0]).String(2, kv[1]))
	}
	return m.Build()
}

func encodeGraph(spec ModelSpec) *Msg {
	g := &Msg{}
	for _, n := range spec.Nodes {
		node := &Msg{}
		for _, in := range n.Inputs {
			node.String(1, in)
		}
		for _, out := range n.Outputs {
			node.String(2, out)
		}
		if n.Name != "" {
			node.String(3, n.Name)
		}
		node.String(4, n.OpType)
		g.Message(1, node)
	}
	if spec.GraphName != "" {
		g.String(2, spec.GraphName)
	}
	for _, init := range spec.Initializers {
		t := &Msg{}
		for _, d := range init.Dims {
			t.Varint(1, d)
		}
		t.Varint(2, int64(init.Type))
		t.String(8, init.Name)
		t.Bytes(9, init.Raw)
		g.Message(5, t)
	}
	for _, in := range spec.Inputs {
		g.Message(11, encodeValueInfo(in))
	}
	for _, out := range spec.Outputs {
		g.Message(12, encodeValueInfo(out))
	}
	return g
}

func encodeValueInfo(ts TensorSpec) *Msg {
	shape := &Msg{}
	for _, d := range ts.Dims {
		dim := &Msg{}
		if d.Param != "" {
			dim.String(2, d.Param)
		} else {
			dim.Varint(1, d.Value)
		}
		shape.Message(1, dim)
	}
	tensorType := (&Msg{}).Varint(1, int64(ts.Type)).Message(2, shape)
	return (&Msg{}).String(1, ts.Name).Message(2, (&Msg{}).Message(1, tensorType))
}
