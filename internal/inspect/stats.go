package inspect

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"

	bfloat16 "github.com/d4l3k/go-bfloat16"
	"github.com/x448/float16"

	"github.com/born-ml/onnxinspect/internal/onnx"
)

// ErrExternalData marks tensors whose payload lives outside the model file.
var ErrExternalData = errors.New("tensor data stored externally")

// WeightStats summarizes a decoded tensor payload.
type WeightStats struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// Stats decodes the payload of an initializer tensor and computes min, max,
// and mean. Returns ErrExternalData for externally stored tensors and an
// error for element types that have no numeric interpretation.
func Stats(t *onnx.TensorProto) (WeightStats, error) {
	stats := WeightStats{Name: t.Name}

	if t.DataLocation == onnx.DataLocationExternal {
		return stats, fmt.Errorf("%s: %w", t.Name, ErrExternalData)
	}

	vals, err := decodePayload(t)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", t.Name, err)
	}
	if len(vals) == 0 {
		return stats, nil
	}

	stats.Count = len(vals)
	stats.Min = vals[0]
	stats.Max = vals[0]
	sum := 0.0
	for _, v := range vals {
		stats.Min = math.Min(stats.Min, v)
		stats.Max = math.Max(stats.Max, v)
		sum += v
	}
	stats.Mean = sum / float64(len(vals))
	return stats, nil
}

// ModelStats computes Stats for every initializer whose payload can be
// decoded in-file. External and non-numeric tensors are skipped.
func ModelStats(model *onnx.ModelProto) []WeightStats {
	if model.Graph == nil {
		return nil
	}
	var out []WeightStats
	for i := range model.Graph.Initializers {
		stats, err := Stats(&model.Graph.Initializers[i])
		if err != nil {
			slog.Debug("skipping initializer stats", "tensor", model.Graph.Initializers[i].Name, "err", err)
			continue
		}
		out = append(out, stats)
	}
	return out
}

// decodePayload widens the tensor payload to float64, from raw_data when
// present, otherwise from the legacy typed fields.
//
//nolint:gocyclo,cyclop // One case per ONNX element type.
func decodePayload(t *onnx.TensorProto) ([]float64, error) {
	if len(t.RawData) == 0 {
		switch {
		case len(t.FloatData) > 0:
			return widen(t.FloatData, func(v float32) float64 { return float64(v) }), nil
		case len(t.Int32Data) > 0:
			return widen(t.Int32Data, func(v int32) float64 { return float64(v) }), nil
		case len(t.Int64Data) > 0:
			return widen(t.Int64Data, func(v int64) float64 { return float64(v) }), nil
		case len(t.DoubleData) > 0:
			return t.DoubleData, nil
		}
		return nil, nil
	}

	raw := t.RawData
	switch t.DataType {
	case onnx.TypeFloat:
		return decodeFixed(raw, 4, func(b []byte) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}), nil
	case onnx.TypeDouble:
		return decodeFixed(raw, 8, func(b []byte) float64 {
			return math.Float64frombits(binary.LittleEndian.Uint64(b))
		}), nil
	case onnx.TypeFloat16:
		return decodeFixed(raw, 2, func(b []byte) float64 {
			return float64(float16.Frombits(binary.LittleEndian.Uint16(b)).Float32())
		}), nil
	case onnx.TypeBFloat16:
		f32s := bfloat16.DecodeFloat32(raw)
		return widen(f32s, func(v float32) float64 { return float64(v) }), nil
	case onnx.TypeInt64:
		return decodeFixed(raw, 8, func(b []byte) float64 {
			return float64(int64(binary.LittleEndian.Uint64(b))) //nolint:gosec // G115
		}), nil
	case onnx.TypeInt32:
		return decodeFixed(raw, 4, func(b []byte) float64 {
			return float64(int32(binary.LittleEndian.Uint32(b))) //nolint:gosec // G115
		}), nil
	case onnx.TypeUint32:
		return decodeFixed(raw, 4, func(b []byte) float64 {
			return float64(binary.LittleEndian.Uint32(b))
		}), nil
	case onnx.TypeUint64:
		return decodeFixed(raw, 8, func(b []byte) float64 {
			return float64(binary.LittleEndian.Uint64(b))
		}), nil
	case onnx.TypeInt16:
		return decodeFixed(raw, 2, func(b []byte) float64 {
			return float64(int16(binary.LittleEndian.Uint16(b))) //nolint:gosec // G115
		}), nil
	case onnx.TypeUint16:
		return decodeFixed(raw, 2, func(b []byte) float64 {
			return float64(binary.LittleEndian.Uint16(b))
		}), nil
	case onnx.TypeInt8:
		return decodeFixed(raw, 1, func(b []byte) float64 {
			return float64(int8(b[0])) //nolint:gosec // G115
		}), nil
	case onnx.TypeUint8, onnx.TypeBool:
		return decodeFixed(raw, 1, func(b []byte) float64 {
			return float64(b[0])
		}), nil
	default:
		return nil, fmt.Errorf("element type %s has no numeric decoding", t.DataType)
	}
}

func decodeFixed(raw []byte, width int, conv func([]byte) float64) []float64 {
	out := make([]float64, 0, len(raw)/width)
	for i := 0; i+width <= len(raw); i += width {
		out = append(out, conv(raw[i:i+width]))
	}
	return out
}

func widen[T any](in []T, conv func(T) float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = conv(v)
	}
	return out
}
