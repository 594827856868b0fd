package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// tensorBuffer is a reference-counted buffer that several RawTensors may share.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

// newTensorBuffer creates a new reference-counted buffer with refCount = 1.
func newTensorBuffer(size int) *tensorBuffer {
	return wrapBuffer(make([]byte, size))
}

func wrapBuffer(data []byte) *tensorBuffer {
	buf := &tensorBuffer{data: data}
	buf.refCount.Store(1)
	return buf
}

func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

// release decrements the reference count and drops the memory when it reaches 0.
func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		tb.data = nil
	}
}

func (tb *tensorBuffer) isUnique() bool {
	return tb.refCount.Load() == 1
}

// RawTensor is a flat, row-major, typed buffer with a shape.
//
// It is the unit of exchange with the host framework: probabilities, labels
// and gradients all travel as RawTensors. Storage is reference counted so a
// layer can hand back an alias of one of its inputs (Share) without copying.
type RawTensor struct {
	buffer *tensorBuffer
	shape  Shape
	dtype  DataType
}

// NewRaw creates a new zero-filled RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		buffer: newTensorBuffer(shape.NumElements() * dtype.Size()),
		shape:  shape.Clone(),
		dtype:  dtype,
	}, nil
}

// FromSlice creates a RawTensor holding a copy of data.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	raw, err := NewRaw(shape, DataTypeOf[T]())
	if err != nil {
		return nil, err
	}
	copy(Values[T](raw), data)
	return raw, nil
}

// Wrap creates a RawTensor backed directly by data, without copying.
// Writes through either side are visible to the other.
func Wrap[T DType](data []T, shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	dtype := DataTypeOf[T]()
	//nolint:gosec // unsafe.Slice for zero-copy wrapping, length derived from len(data)
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*dtype.Size())

	return &RawTensor{
		buffer: wrapBuffer(bytes),
		shape:  shape.Clone(),
		dtype:  dtype,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.buffer.data
}

// Values interprets the buffer as []T.
// Panics if T does not match the tensor's dtype.
func Values[T DType](r *RawTensor) []T {
	if want := DataTypeOf[T](); r.dtype != want {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, want))
	}
	if r.buffer.data == nil {
		panic("tensor buffer has been released")
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&r.buffer.data[0])), r.NumElements())
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	return Values[float32](r)
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	return Values[float64](r)
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	return Values[int32](r)
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	return Values[int64](r)
}

// Share returns a second RawTensor over the same buffer.
//
// Nothing is copied: in-place writes through r are observed through the
// returned tensor and vice versa. The reference count is incremented, so each
// alias should be Released independently.
func (r *RawTensor) Share() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		dtype:  r.dtype,
	}
}

// Clone returns a deep copy of the tensor with its own buffer.
func (r *RawTensor) Clone() *RawTensor {
	buf := newTensorBuffer(len(r.buffer.data))
	copy(buf.data, r.buffer.data)
	return &RawTensor{
		buffer: buf,
		shape:  r.shape.Clone(),
		dtype:  r.dtype,
	}
}

// SharesBuffer reports whether r and other are views of the same storage.
func (r *RawTensor) SharesBuffer(other *RawTensor) bool {
	return other != nil && r.buffer == other.buffer
}

// Release decrements the reference count and drops the storage if it reaches 0.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// IsUnique returns true if this tensor is the only reference to the buffer.
func (r *RawTensor) IsUnique() bool {
	return r.buffer.isUnique()
}
