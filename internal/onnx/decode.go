package onnx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
)

// Protobuf wire types.
const (
	wireVarint  = 0
	wireFixed64 = 1
	wireBytes   = 2
	wireFixed32 = 5
)

var errVarintOverflow = errors.New("varint overflow")

// ParseFile reads and decodes an ONNX model file.
//
//nolint:gosec // G304: the path comes from the user; opening it is the point.
func ParseFile(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return Parse(data)
}

// Parse decodes an ONNX model from raw protobuf bytes.
func Parse(data []byte) (*ModelProto, error) {
	m, err := decodeModel(data)
	if err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	// A well-formed ModelProto always carries an ir_version and a graph.
	// Arbitrary bytes can decode as a run of unknown fields; reject that.
	if m.IRVersion == 0 && m.Graph == nil {
		return nil, errors.New("decode model: no recognizable ONNX fields")
	}
	slog.Debug("parsed onnx model",
		"ir_version", m.IRVersion,
		"producer", m.ProducerName,
		"opset", m.Opset())
	return m, nil
}

// reader walks a protobuf-encoded buffer.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) more() bool { return r.pos < len(r.buf) }

func (r *reader) uvarint() (uint64, error) {
	var v uint64
	var shift uint
	for {
		if r.pos >= len(r.buf) {
			return 0, io.ErrUnexpectedEOF
		}
		b := r.buf[r.pos]
		r.pos++
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, errVarintOverflow
		}
	}
}

func (r *reader) tag() (field, wire int, err error) {
	t, err := r.uvarint()
	if err != nil {
		return 0, 0, err
	}
	if t>>3 == 0 {
		return 0, 0, errors.New("field number 0")
	}
	return int(t >> 3), int(t & 0x7), nil
}

func (r *reader) int64() (int64, error) {
	v, err := r.uvarint()
	return int64(v), err //nolint:gosec // G115: two's-complement varint.
}

func (r *reader) bytes() ([]byte, error) {
	n, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	end := r.pos + int(n) //nolint:gosec // G115: bounds-checked below.
	if n > uint64(len(r.buf)) || end > len(r.buf) || end < r.pos {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos:end]
	r.pos = end
	return b, nil
}

func (r *reader) string() (string, error) {
	b, err := r.bytes()
	return string(b), err
}

func (r *reader) skip(wire int) error {
	switch wire {
	case wireVarint:
		_, err := r.uvarint()
		return err
	case wireFixed64:
		return r.advance(8)
	case wireBytes:
		_, err := r.bytes()
		return err
	case wireFixed32:
		return r.advance(4)
	default:
		return fmt.Errorf("unsupported wire type %d", wire)
	}
}

func (r *reader) advance(n int) error {
	if r.pos+n > len(r.buf) {
		return io.ErrUnexpectedEOF
	}
	r.pos += n
	return nil
}

// decodeModel decodes a ModelProto message.
func decodeModel(buf []byte) (*ModelProto, error) {
	m := &ModelProto{}
	r := &reader{buf: buf}
	for r.more() {
		field, wire, err := r.tag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1: // ir_version
			m.IRVersion, err = r.int64()
		case 2: // producer_name
			m.ProducerName, err = r.string()
		case 3: // producer_version
			m.ProducerVersion, err = r.string()
		case 4: // domain
			m.Domain, err = r.string()
		case 5: // model_version
			m.ModelVersion, err = r.int64()
		case 6: // doc_string
			m.DocString, err = r.string()
		case 7: // graph
			var sub []byte
			if sub, err = r.bytes(); err == nil {
				m.Graph, err = decodeGraph(sub)
			}
		case 8: // opset_import
			var sub []byte
			if sub, err = r.bytes(); err == nil {
				var opset OperatorSetID
				if opset, err = decodeOperatorSetID(sub); err == nil {
					m.OpsetImport = append(m.OpsetImport, opset)
				}
			}
		case 14: // metadata_props
			var sub []byte
			if sub, err = r.bytes(); err == nil {
				var entry StringStringEntry
				if entry, err = decodeStringStringEntry(sub); err == nil {
					m.MetadataProps = append(m.MetadataProps, entry)
				}
			}
		default:
			err = r.skip(wire)
		}
		if err != nil {
			return nil, fmt.Errorf("model field %d: %w", field, err)
		}
	}
	return m, nil
}

// decodeGraph decodes a GraphProto message.
func decodeGraph(buf []byte) (*GraphProto, error) {
	g := &GraphProto{}
	r := &reader{buf: buf}
	for r.more() {
		field, wire, err := r.tag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1: // node
			var sub []byte
			if sub, err = r.bytes(); err == nil {
				var n NodeProto
				if n, err = decodeNode(sub); err == nil {
					g.Nodes = append(g.Nodes, n)
				}
			}
		case 2: // name
			g.Name, err = r.string()
		case 5: // initializer
			var sub []byte
			if sub, err = r.bytes(); err == nil {
				var t TensorProto
				if t, err = decodeTensor(sub); err == nil {
					g.Initializers = append(g.Initializers, t)
				}
			}
		case 10: // doc_string
			g.DocString, err = r.string()
		case 11: // input
			err = appendValueInfo(r, &g.Inputs)
		case 12: // output
			err = appendValueInfo(r, &g.Outputs)
		case 13: // value_info
			err = appendValueInfo(r, &g.ValueInfo)
		default:
			err = r.skip(wire)
		}
		if err != nil {
			return nil, fmt.Errorf("graph field %d: %w", field, err)
		}
	}
	return g, nil
}

func appendValueInfo(r *reader, dst *[]ValueInfoProto) error {
	sub, err := r.bytes()
	if err != nil {
		return err
	}
	vi, err := decodeValueInfo(sub)
	if err != nil {
		return err
	}
	*dst = append(*dst, vi)
	return nil
}

// decodeNode decodes a NodeProto message. Attributes (field 5) are skipped:
// inspection only needs op identity and connectivity.
func decodeNode(buf []byte) (NodeProto, error) {
	var n NodeProto
	r := &reader{buf: buf}
	for r.more() {
		field, wire, err := r.tag()
		if err != nil {
			return n, err
		}
		switch field {
		case 1: // input
			var s string
			if s, err = r.string(); err == nil {
				n.Inputs = append(n.Inputs, s)
			}
		case 2: // output
			var s string
			if s, err = r.string(); err == nil {
				n.Outputs = append(n.Outputs, s)
			}
		case 3: // name
			n.Name, err = r.string()
		case 4: // op_type
			n.OpType, err = r.string()
		case 7: // domain
			n.Domain, err = r.string()
		default:
			err = r.skip(wire)
		}
		if err != nil {
			return n, fmt.Errorf("node field %d: %w", field, err)
		}
	}
	return n, nil
}

// decodeTensor decodes a TensorProto message.
func decodeTensor(buf []byte) (TensorProto, error) {
	var t TensorProto
	r := &reader{buf: buf}
	for r.more() {
		field, wire, err := r.tag()
		if err != nil {
			return t, err
		}
		switch field {
		case 1: // dims (repeated int64, possibly packed)
			err = decodeInt64s(r, wire, &t.Dims)
		case 2: // data_type
			var v int64
			if v, err = r.int64(); err == nil {
				t.DataType = DataType(v) //nolint:gosec // G115: enum fits int32.
			}
		case 4: // float_data (packed)
			var sub []byte
			if sub, err = r.bytes(); err == nil {
				for i := 0; i+4 <= len(sub); i += 4 {
					bits := binary.LittleEndian.Uint32(sub[i:])
					t.FloatData = append(t.FloatData, math.Float32frombits(bits))
				}
			}
		case 5: // int32_data (packed)
			var sub []byte
			if sub, err = r.bytes(); err == nil {
				p := &reader{buf: sub}
				for p.more() {
					var v int64
					if v, err = p.int64(); err != nil {
						break
					}
					t.Int32Data = append(t.Int32Data, int32(v)) //nolint:gosec // G115
				}
			}
		case 7: // int64_data (packed)
			var sub []byte
			if sub, err = r.bytes(); err == nil {
				p := &reader{buf: sub}
				for p.more() {
					var v int64
					if v, err = p.int64(); err != nil {
						break
					}
					t.Int64Data = append(t.Int64Data, v)
				}
			}
		case 8: // name
			t.Name, err = r.string()
		case 9: // raw_data
			t.RawData, err = r.bytes()
		case 10: // double_data (packed)
			var sub []byte
			if sub, err = r.bytes(); err == nil {
				for i := 0; i+8 <= len(sub); i += 8 {
					bits := binary.LittleEndian.Uint64(sub[i:])
					t.DoubleData = append(t.DoubleData, math.Float64frombits(bits))
				}
			}
		case 12: // doc_string
			t.DocString, err = r.string()
		case 14: // data_location
			var v int64
			if v, err = r.int64(); err == nil {
				t.DataLocation = int32(v) //nolint:gosec // G115: enum fits int32.
			}
		default:
			err = r.skip(wire)
		}
		if err != nil {
			return t, fmt.Errorf("tensor field %d: %w", field, err)
		}
	}
	return t, nil
}

// decodeInt64s handles a repeated int64 field in either packed or unpacked
// encoding.
func decodeInt64s(r *reader, wire int, dst *[]int64) error {
	if wire == wireBytes {
		sub, err := r.bytes()
		if err != nil {
			return err
		}
		p := &reader{buf: sub}
		for p.more() {
			v, err := p.int64()
			if err != nil {
				return err
			}
			*dst = append(*dst, v)
		}
		return nil
	}
	v, err := r.int64()
	if err != nil {
		return err
	}
	*dst = append(*dst, v)
	return nil
}

// decodeValueInfo decodes a ValueInfoProto message.
func decodeValueInfo(buf []byte) (ValueInfoProto, error) {
	var vi ValueInfoProto
	r := &reader{buf: buf}
	for r.more() {
		field, wire, err := r.tag()
		if err != nil {
			return vi, err
		}
		switch field {
		case 1: // name
			vi.Name, err = r.string()
		case 2: // type
			var sub []byte
			if sub, err = r.bytes(); err == nil {
				vi.Type, err = decodeType(sub)
			}
		case 3: // doc_string
			vi.DocString, err = r.string()
		default:
			err = r.skip(wire)
		}
		if err != nil {
			return vi, fmt.Errorf("value_info field %d: %w", field, err)
		}
	}
	return vi, nil
}

// decodeType decodes a TypeProto message. Only tensor_type is materialized;
// sequence/map/optional variants leave Tensor nil.
func decodeType(buf []byte) (*TypeProto, error) {
	tp := &TypeProto{}
	r := &reader{buf: buf}
	for r.more() {
		field, wire, err := r.tag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1: // tensor_type
			var sub []byte
			if sub, err = r.bytes(); err == nil {
				tp.Tensor, err = decodeTensorType(sub)
			}
		default:
			err = r.skip(wire)
		}
		if err != nil {
			return nil, fmt.Errorf("type field %d: %w", field, err)
		}
	}
	return tp, nil
}

// decodeTensorType decodes a TypeProto.Tensor message.
func decodeTensorType(buf []byte) (*TensorTypeProto, error) {
	tt := &TensorTypeProto{}
	r := &reader{buf: buf}
	for r.more() {
		field, wire, err := r.tag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1: // elem_type
			var v int64
			if v, err = r.int64(); err == nil {
				tt.ElemType = DataType(v) //nolint:gosec // G115: enum fits int32.
			}
		case 2: // shape
			var sub []byte
			if sub, err = r.bytes(); err == nil {
				tt.Shape, err = decodeShape(sub)
			}
		default:
			err = r.skip(wire)
		}
		if err != nil {
			return nil, fmt.Errorf("tensor_type field %d: %w", field, err)
		}
	}
	return tt, nil
}

// decodeShape decodes a TensorShapeProto message.
func decodeShape(buf []byte) (*TensorShapeProto, error) {
	s := &TensorShapeProto{}
	r := &reader{buf: buf}
	for r.more() {
		field, wire, err := r.tag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1: // dim
			var sub []byte
			if sub, err = r.bytes(); err == nil {
				var d DimensionProto
				if d, err = decodeDimension(sub); err == nil {
					s.Dims = append(s.Dims, d)
				}
			}
		default:
			err = r.skip(wire)
		}
		if err != nil {
			return nil, fmt.Errorf("shape field %d: %w", field, err)
		}
	}
	return s, nil
}

// decodeDimension decodes a TensorShapeProto.Dimension message.
func decodeDimension(buf []byte) (DimensionProto, error) {
	var d DimensionProto
	r := &reader{buf: buf}
	for r.more() {
		field, wire, err := r.tag()
		if err != nil {
			return d, err
		}
		switch field {
		case 1: // dim_value
			if d.Value, err = r.int64(); err == nil {
				d.HasValue = true
			}
		case 2: // dim_param
			d.Param, err = r.string()
		default:
			err = r.skip(wire)
		}
		if err != nil {
			return d, fmt.Errorf("dimension field %d: %w", field, err)
		}
	}
	return d, nil
}

// decodeOperatorSetID decodes an OperatorSetIdProto message.
func decodeOperatorSetID(buf []byte) (OperatorSetID, error) {
	var op OperatorSetID
	r := &reader{buf: buf}
	for r.more() {
		field, wire, err := r.tag()
		if err != nil {
			return op, err
		}
		switch field {
		case 1: // domain
			op.Domain, err = r.string()
		case 2: // version
			op.Version, err = r.int64()
		default:
			err = r.skip(wire)
		}
		if err != nil {
			return op, fmt.Errorf("opset field %d: %w", field, err)
		}
	}
	return op, nil
}

// decodeStringStringEntry decodes a StringStringEntryProto message.
func decodeStringStringEntry(buf []byte) (StringStringEntry, error) {
	var e StringStringEntry
	r := &reader{buf: buf}
	for r.more() {
		field, wire, err := r.tag()
		if err != nil {
			return e, err
		}
		switch field {
		case 1: // key
			e.Key, err = r.string()
		case 2: // value
			e.Value, err = r.string()
		default:
			err = r.skip(wire)
		}
		if err != nil {
			return e, fmt.Errorf("metadata entry field %d: %w", field, err)
		}
	}
	return e, nil
}
