package inspect

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/born-ml/onnxinspect/internal/onnx"
)

func f32raw(vals ...float32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func TestStatsFloat32(t *testing.T) {
	tensor := &onnx.TensorProto{
		Name:     "w",
		DataType: onnx.TypeFloat,
		Dims:     []int64{4},
		RawData:  f32raw(-1, 0.5, 0.5, 2),
	}

	stats, err := Stats(tensor)
	require.NoError(t, err)

	assert.Equal(t, "w", stats.Name)
	assert.Equal(t, 4, stats.Count)
	assert.InDelta(t, -1.0, stats.Min, 1e-9)
	assert.InDelta(t, 2.0, stats.Max, 1e-9)
	assert.InDelta(t, 0.5, stats.Mean, 1e-9)
}

func TestStatsFloat16(t *testing.T) {
	buf := make([]byte, 6)
	for i, v := range []float32{-2, 0, 2} {
		binary.LittleEndian.PutUint16(buf[2*i:], float16.Fromfloat32(v).Bits())
	}
	tensor := &onnx.TensorProto{Name: "h", DataType: onnx.TypeFloat16, RawData: buf}

	stats, err := Stats(tensor)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, -2.0, stats.Min, 1e-6)
	assert.InDelta(t, 2.0, stats.Max, 1e-6)
	assert.InDelta(t, 0.0, stats.Mean, 1e-6)
}

func TestStatsBFloat16(t *testing.T) {
	// bfloat16 is the top half of the float32 bit pattern.
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint16(buf[0:], uint16(math.Float32bits(1.0)>>16))
	binary.LittleEndian.PutUint16(buf[2:], uint16(math.Float32bits(3.0)>>16))
	tensor := &onnx.TensorProto{Name: "b", DataType: onnx.TypeBFloat16, RawData: buf}

	stats, err := Stats(tensor)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 1.0, stats.Min, 1e-6)
	assert.InDelta(t, 3.0, stats.Max, 1e-6)
	assert.InDelta(t, 2.0, stats.Mean, 1e-6)
}

func TestStatsInt64(t *testing.T) {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:], uint64(math.MaxUint64)) // -1
	binary.LittleEndian.PutUint64(buf[8:], 5)
	tensor := &onnx.TensorProto{Name: "idx", DataType: onnx.TypeInt64, RawData: buf}

	stats, err := Stats(tensor)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, stats.Min, 1e-9)
	assert.InDelta(t, 5.0, stats.Max, 1e-9)
}

func TestStatsLegacyFloatData(t *testing.T) {
	tensor := &onnx.TensorProto{
		Name:      "legacy",
		DataType:  onnx.TypeFloat,
		FloatData: []float32{1, 2, 3},
	}

	stats, err := Stats(tensor)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 2.0, stats.Mean, 1e-9)
}

func TestStatsExternalData(t *testing.T) {
	tensor := &onnx.TensorProto{
		Name:         "big",
		DataType:     onnx.TypeFloat,
		DataLocation: onnx.DataLocationExternal,
	}

	_, err := Stats(tensor)
	assert.ErrorIs(t, err, ErrExternalData)
}

func TestStatsUnsupportedType(t *testing.T) {
	tensor := &onnx.TensorProto{
		Name:     "labels",
		DataType: onnx.TypeString,
		RawData:  []byte("abc"),
	}

	_, err := Stats(tensor)
	assert.Error(t, err)
}

func TestStatsEmptyPayload(t *testing.T) {
	stats, err := Stats(&onnx.TensorProto{Name: "empty", DataType: onnx.TypeFloat})
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
}
