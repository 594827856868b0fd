package loss

import (
	"github.com/born-ml/blobloss/internal/tensor"
)

// labelReader reads class ids from a label tensor of any supported dtype.
// Floating point labels are truncated toward zero.
type labelReader struct {
	f32 []float32
	f64 []float64
	i32 []int32
	i64 []int64
}

func newLabelReader(label *tensor.RawTensor) (labelReader, error) {
	switch label.DType() {
	case tensor.Float32:
		return labelReader{f32: label.AsFloat32()}, nil
	case tensor.Float64:
		return labelReader{f64: label.AsFloat64()}, nil
	case tensor.Int32:
		return labelReader{i32: label.AsInt32()}, nil
	case tensor.Int64:
		return labelReader{i64: label.AsInt64()}, nil
	default:
		return labelReader{}, configErrorf(ErrDTypeMismatch, "labels are %s", label.DType())
	}
}

func (r labelReader) at(k int) int {
	switch {
	case r.f32 != nil:
		return int(r.f32[k])
	case r.f64 != nil:
		return int(r.f64[k])
	case r.i32 != nil:
		return int(r.i32[k])
	default:
		return int(r.i64[k])
	}
}
