// Package interp evaluates monotone piecewise-linear functions defined by
// knot pairs (u, x). Values outside [min(u), max(u)] clamp to the boundary
// knot's x. An exact hit on a duplicated u resolves to the first duplicate in
// sorted order.
package interp

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Knots is an immutable, sorted knot set.
type Knots struct {
	u []float64
	x []float64
}

// Build copies u and x into a knot set. Unless sorted is true, u is stably
// sorted ascending and x permuted with it. With sorted true the caller
// vouches for the order; unsorted input then gives unspecified results.
func Build(u, x []float64, sorted bool) (*Knots, error) {
	if len(u) == 0 {
		return nil, invalidKnotsError{msg: "no knots"}
	}
	if len(u) != len(x) {
		return nil, invalidKnotsError{msg: fmt.Sprintf("len(u)=%d != len(x)=%d", len(u), len(x))}
	}
	k := &Knots{
		u: append([]float64(nil), u...),
		x: make([]float64, len(x)),
	}
	if sorted {
		copy(k.x, x)
		return k, nil
	}
	perm := make([]int, len(u))
	floats.ArgsortStable(k.u, perm)
	for i, j := range perm {
		k.x[i] = x[j]
	}
	return k, nil
}

// Len returns the number of knots.
func (k *Knots) Len() int { return len(k.u) }

// U returns a copy of the sorted domain knots.
func (k *Knots) U() []float64 { return append([]float64(nil), k.u...) }

// X returns a copy of the codomain knots, in domain order.
func (k *Knots) X() []float64 { return append([]float64(nil), k.x...) }

// At evaluates the interpolant at v.
func (k *Knots) At(v float64) float64 {
	u, x := k.u, k.x
	n := len(u)
	switch {
	case math.IsNaN(v):
		return math.NaN()
	case v < u[0]:
		return x[0]
	case v > u[n-1]:
		return x[n-1]
	}
	i := sort.SearchFloat64s(u, v)
	if u[i] == v {
		return x[i]
	}
	// u[i-1] < v < u[i]
	lo := i - 1
	return x[lo] + (v-u[lo])/(u[i]-u[lo])*(x[i]-x[lo])
}

// Transform evaluates the interpolant at every element of U.
func (k *Knots) Transform(U []float64) []float64 {
	out := make([]float64, len(U))
	for i, v := range U {
		out[i] = k.At(v)
	}
	return out
}

// Interp is a one-shot Build + Transform with sorting enabled.
func Interp(U, u, x []float64) ([]float64, error) {
	k, err := Build(u, x, false)
	if err != nil {
		return nil, err
	}
	return k.Transform(U), nil
}

type invalidKnotsError struct{ msg string }

func (e invalidKnotsError) Error() string { return "interp: invalid knots: " + e.msg }

// IsInvalidKnots reports whether err rejects a knot set.
func IsInvalidKnots(err error) bool {
	var ie invalidKnotsError
	return errors.As(err, &ie)
}
