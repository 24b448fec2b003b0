package onnx

import (
	"encoding/json"
	"strconv"
)

// DataType is the TensorProto.DataType enum from onnx.proto.
type DataType int32

// Tensor element types.
const (
	TypeUndefined  DataType = 0
	TypeFloat      DataType = 1  // float32
	TypeUint8      DataType = 2
	TypeInt8       DataType = 3
	TypeUint16     DataType = 4
	TypeInt16      DataType = 5
	TypeInt32      DataType = 6
	TypeInt64      DataType = 7
	TypeString     DataType = 8
	TypeBool       DataType = 9
	TypeFloat16    DataType = 10
	TypeDouble     DataType = 11 // float64
	TypeUint32     DataType = 12
	TypeUint64     DataType = 13
	TypeComplex64  DataType = 14
	TypeComplex128 DataType = 15
	TypeBFloat16   DataType = 16
)

var dataTypeNames = map[DataType]string{
	TypeUndefined:  "UNDEFINED",
	TypeFloat:      "FLOAT",
	TypeUint8:      "UINT8",
	TypeInt8:       "INT8",
	TypeUint16:     "UINT16",
	TypeInt16:      "INT16",
	TypeInt32:      "INT32",
	TypeInt64:      "INT64",
	TypeString:     "STRING",
	TypeBool:       "BOOL",
	TypeFloat16:    "FLOAT16",
	TypeDouble:     "DOUBLE",
	TypeUint32:     "UINT32",
	TypeUint64:     "UINT64",
	TypeComplex64:  "COMPLEX64",
	TypeComplex128: "COMPLEX128",
	TypeBFloat16:   "BFLOAT16",
}

// String returns the enum name as spelled in onnx.proto, e.g. "FLOAT" for
// float32. Unknown codes render as the raw number.
func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return strconv.Itoa(int(t))
}

// MarshalJSON emits the enum name, matching what the text listings print.
func (t DataType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Size returns the byte width of one element, or 0 for variable-width and
// unknown types (STRING, UNDEFINED).
func (t DataType) Size() int {
	switch t {
	case TypeUint8, TypeInt8, TypeBool:
		return 1
	case TypeUint16, TypeInt16, TypeFloat16, TypeBFloat16:
		return 2
	case TypeFloat, TypeInt32, TypeUint32:
		return 4
	case TypeDouble, TypeInt64, TypeUint64, TypeComplex64:
		return 8
	case TypeComplex128:
		return 16
	default:
		return 0
	}
}
