package prior

import "fmt"

// Array is a dense row-major float64 array. A nil or empty Shape is a scalar.
type Array struct {
	Data  []float64
	Shape []int
}

// Scalar wraps a single value.
func Scalar(v float64) Array { return Array{Data: []float64{v}} }

// Vector copies v into a rank-1 array.
func Vector(v []float64) Array {
	return Array{Data: append([]float64(nil), v...), Shape: []int{len(v)}}
}

// Matrix copies rows into a rank-2 array. Rows must share one length.
func Matrix(rows [][]float64) (Array, error) {
	if len(rows) == 0 {
		return Array{Shape: []int{0, 0}}, nil
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return Array{}, fmt.Errorf("ragged matrix: row %d has %d columns, want %d", i, len(r), cols)
		}
		data = append(data, r...)
	}
	return Array{Data: data, Shape: []int{len(rows), cols}}, nil
}

// NewArray checks that shape describes len(data) elements.
func NewArray(data []float64, shape ...int) (Array, error) {
	for _, d := range shape {
		if d < 0 {
			return Array{}, fmt.Errorf("negative dimension in shape %v", shape)
		}
	}
	a := Array{Data: data, Shape: append([]int(nil), shape...)}
	if n := sizeOf(a.Shape); n != len(data) {
		return Array{}, fmt.Errorf("shape %v holds %d elements, got %d", shape, n, len(data))
	}
	return a, nil
}

// Rank returns the number of dimensions.
func (a Array) Rank() int { return len(a.Shape) }

// Size returns the number of elements implied by Shape.
func (a Array) Size() int { return sizeOf(a.Shape) }

func sizeOf(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// BroadcastShapes combines two shapes under numpy broadcasting rules:
// trailing dimensions are aligned and each pair must be equal or contain a 1.
func BroadcastShapes(a, b []int) ([]int, error) {
	n := max(len(a), len(b))
	out := make([]int, n)
	for i := 1; i <= n; i++ {
		da, db := 1, 1
		if i <= len(a) {
			da = a[len(a)-i]
		}
		if i <= len(b) {
			db = b[len(b)-i]
		}
		switch {
		case da == db || db == 1:
			out[n-i] = da
		case da == 1:
			out[n-i] = db
		default:
			return nil, fmt.Errorf("shapes %v and %v are not broadcastable", a, b)
		}
	}
	return out, nil
}

// broadcastOffset maps a flat index into shape out to the flat index of the
// broadcast source with shape src.
func broadcastOffset(flat int, out, src []int) int {
	off, stride := 0, 1
	for i := 1; i <= len(out); i++ {
		d := out[len(out)-i]
		idx := flat % d
		flat /= d
		if i > len(src) {
			continue
		}
		s := src[len(src)-i]
		if s != 1 {
			off += idx * stride
		}
		stride *= s
	}
	return off
}
