package inspect

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/onnxinspect/internal/onnx"
	"github.com/born-ml/onnxinspect/internal/onnx/onnxtest"
)

func inpaintReport(t *testing.T) *Report {
	t.Helper()
	data := onnxtest.Encode(onnxtest.ModelSpec{
		IRVersion: 8,
		Opset:     17,
		Producer:  "pytorch",
		GraphName: "torch_jit",
		Inputs: []onnxtest.TensorSpec{
			{Name: "input_0", Type: onnx.TypeFloat, Dims: fixedDims(1, 3, 256, 256)},
			{Name: "mask", Type: onnx.TypeFloat, Dims: fixedDims(1, 1, 256, 256)},
		},
		Outputs: []onnxtest.TensorSpec{
			{Name: "output", Type: onnx.TypeFloat, Dims: fixedDims(1, 3, 256, 256)},
		},
		Nodes: []onnxtest.NodeSpec{
			{Name: "c0", OpType: "Concat", Inputs: []string{"input_0", "mask"}, Outputs: []string{"h0"}},
			{Name: "conv0", OpType: "Conv", Inputs: []string{"h0", "conv.weight"}, Outputs: []string{"h1"}},
			{Name: "conv1", OpType: "Conv", Inputs: []string{"h1", "conv.weight"}, Outputs: []string{"output"}},
		},
		Initializers: []onnxtest.InitSpec{
			{Name: "conv.weight", Type: onnx.TypeFloat, Dims: []int64{4, 4}, Raw: make([]byte, 64)},
		},
		Metadata: [][2]string{{"author", "lama"}},
	})

	rep, err := FromBytes(data)
	require.NoError(t, err)
	return rep
}

func fixedDims(vals ...int64) []onnxtest.Dim {
	out := make([]onnxtest.Dim, len(vals))
	for i, v := range vals {
		out[i] = onnxtest.Dim{Value: v}
	}
	return out
}

func TestBuildInputs(t *testing.T) {
	rep := inpaintReport(t)

	require.Len(t, rep.Inputs, 2)

	want := []TensorInfo{
		{Name: "input_0", Type: onnx.TypeFloat, Shape: []Dim{{Value: 1}, {Value: 3}, {Value: 256}, {Value: 256}}},
		{Name: "mask", Type: onnx.TypeFloat, Shape: []Dim{{Value: 1}, {Value: 1}, {Value: 256}, {Value: 256}}},
	}
	if diff := cmp.Diff(want, rep.Inputs); diff != "" {
		t.Errorf("inputs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSummaryFields(t *testing.T) {
	rep := inpaintReport(t)

	assert.Equal(t, int64(8), rep.IRVersion)
	assert.Equal(t, "pytorch", rep.Producer)
	assert.Equal(t, "torch_jit", rep.GraphName)
	assert.Equal(t, 3, rep.NodeCount)
	assert.Equal(t, int64(16), rep.ParamCount)
	require.Len(t, rep.Opsets, 1)
	assert.Equal(t, int64(17), rep.Opsets[0].Version)
	require.Len(t, rep.Metadata, 1)
	assert.Equal(t, MetaEntry{Key: "author", Value: "lama"}, rep.Metadata[0])
}

func TestBuildOpsHistogram(t *testing.T) {
	rep := inpaintReport(t)

	want := []OpCount{
		{OpType: "Conv", Count: 2},
		{OpType: "Concat", Count: 1},
	}
	assert.Equal(t, want, rep.Ops)
}

func TestBuildInitializers(t *testing.T) {
	rep := inpaintReport(t)

	require.Len(t, rep.Initializers, 1)
	init := rep.Initializers[0]
	assert.Equal(t, "conv.weight", init.Name)
	assert.Equal(t, onnx.TypeFloat, init.Type)
	assert.Equal(t, []int64{4, 4}, init.Dims)
	assert.Equal(t, int64(16), init.Elements)
	assert.Equal(t, int64(64), init.Bytes)
	assert.False(t, init.External)
}

func TestBuildInitializerBackedInput(t *testing.T) {
	data := onnxtest.Encode(onnxtest.ModelSpec{
		Inputs: []onnxtest.TensorSpec{
			{Name: "x", Type: onnx.TypeFloat, Dims: fixedDims(1, 4)},
			{Name: "w", Type: onnx.TypeFloat, Dims: fixedDims(4, 4)},
		},
		Initializers: []onnxtest.InitSpec{
			{Name: "w", Type: onnx.TypeFloat, Dims: []int64{4, 4}, Raw: make([]byte, 64)},
		},
	})
	rep, err := FromBytes(data)
	require.NoError(t, err)

	require.Len(t, rep.Inputs, 2)
	assert.False(t, rep.Inputs[0].Initializer)
	assert.True(t, rep.Inputs[1].Initializer)

	runtime := rep.RuntimeInputs()
	require.Len(t, runtime, 1)
	assert.Equal(t, "x", runtime[0].Name)
}

func TestBuildDynamicShape(t *testing.T) {
	data := onnxtest.Encode(onnxtest.ModelSpec{
		Inputs: []onnxtest.TensorSpec{
			{Name: "tokens", Type: onnx.TypeInt64, Dims: []onnxtest.Dim{
				{Param: "batch"},
				{Param: "seq_len"},
			}},
		},
	})
	rep, err := FromBytes(data)
	require.NoError(t, err)

	require.Len(t, rep.Inputs, 1)
	assert.Equal(t, "batch x seq_len", rep.Inputs[0].ShapeString())
}

func TestBuildNoGraph(t *testing.T) {
	rep := Build(&onnx.ModelProto{IRVersion: 8, ProducerName: "test"})

	assert.Empty(t, rep.Inputs)
	assert.Empty(t, rep.Outputs)
	assert.Zero(t, rep.NodeCount)
	assert.Equal(t, "test", rep.Producer)
}

func TestInputLookup(t *testing.T) {
	rep := inpaintReport(t)

	in, err := rep.Input("mask")
	require.NoError(t, err)
	assert.Equal(t, "1 x 1 x 256 x 256", in.ShapeString())

	_, err = rep.Input("nope")
	assert.Error(t, err)
}

func TestDimString(t *testing.T) {
	tests := []struct {
		name string
		dim  Dim
		want string
	}{
		{name: "fixed", dim: Dim{Value: 256}, want: "256"},
		{name: "symbolic", dim: Dim{Param: "batch", Dynamic: true}, want: "batch"},
		{name: "unknown", dim: Dim{Dynamic: true}, want: "?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dim.String())
		})
	}
}

func TestShapeStringScalar(t *testing.T) {
	info := TensorInfo{Name: "threshold", Type: onnx.TypeFloat}
	assert.Equal(t, "scalar", info.ShapeString())
}
