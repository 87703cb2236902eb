// Package prior exposes named prior transforms that map uniform variates on
// [0, 1] to samples of a target distribution through a quantile function.
//
//   - PiecewiseLinear: the quantile is given directly as knots (u, x).
//   - FromSamples: the quantile is estimated from a 1-D sample set.
//
// Registry keeps transforms by name for the CLI and HTTP layers.
package prior

import (
	"fmt"
	"slices"

	"nestkit/internal/interp"
	"nestkit/internal/quantile"
)

// Prior is a named transform from uniform variates.
type Prior interface {
	Name() string
	// Shape is the batch shape of one draw; nil for scalar priors.
	Shape() []int
	// Tracked reports whether draws are kept in collected samples.
	Tracked() bool
	Transform(U Array) (Array, error)
}

// PiecewiseLinear is a prior whose quantile is a piecewise-linear function
// of knots along the last axis of u and x. Leading axes broadcast into the
// prior's batch shape.
type PiecewiseLinear struct {
	name    string
	u, x    Array
	sorted  bool
	tracked bool
	shape   []int
}

// NewPiecewiseLinear validates the knot arrays. When sorted is false the
// knots are re-sorted on every Transform call.
func NewPiecewiseLinear(name string, u, x Array, sorted, tracked bool) (*PiecewiseLinear, error) {
	if name == "" {
		return nil, invalidParameterError{prior: name, param: "name", msg: "must not be empty"}
	}
	if u.Rank() == 0 || u.Size() != len(u.Data) {
		return nil, invalidParameterError{prior: name, param: "u", msg: fmt.Sprintf("need rank >= 1 with %d elements, got shape %v", len(u.Data), u.Shape)}
	}
	if x.Rank() == 0 || x.Size() != len(x.Data) {
		return nil, invalidParameterError{prior: name, param: "x", msg: fmt.Sprintf("need rank >= 1 with %d elements, got shape %v", len(x.Data), x.Shape)}
	}
	nu, nx := u.Shape[u.Rank()-1], x.Shape[x.Rank()-1]
	if nu != nx || nu == 0 {
		return nil, invalidParameterError{prior: name, param: "x", msg: fmt.Sprintf("knot count %d does not match u's %d", nx, nu)}
	}
	shape, err := BroadcastShapes(u.Shape[:u.Rank()-1], x.Shape[:x.Rank()-1])
	if err != nil {
		return nil, invalidParameterError{prior: name, param: "u", msg: err.Error()}
	}
	if len(shape) == 0 {
		shape = nil
	}
	return &PiecewiseLinear{name: name, u: u, x: x, sorted: sorted, tracked: tracked, shape: shape}, nil
}

func (p *PiecewiseLinear) Name() string  { return p.name }
func (p *PiecewiseLinear) Shape() []int  { return slices.Clone(p.shape) }
func (p *PiecewiseLinear) Tracked() bool { return p.tracked }

// Transform interpolates U against the knots. With a scalar batch shape U may
// have any shape and is mapped elementwise; otherwise U must have the batch
// shape and element i uses knot row i.
func (p *PiecewiseLinear) Transform(U Array) (Array, error) {
	n := p.u.Shape[p.u.Rank()-1]
	if p.shape == nil {
		k, err := interp.Build(p.u.Data, p.x.Data, p.sorted)
		if err != nil {
			return Array{}, invalidParameterError{prior: p.name, param: "u", msg: err.Error(), err: err}
		}
		return Array{Data: k.Transform(U.Data), Shape: slices.Clone(U.Shape)}, nil
	}
	if !slices.Equal(U.Shape, p.shape) || len(U.Data) != sizeOf(p.shape) {
		return Array{}, invalidParameterError{prior: p.name, param: "U", msg: fmt.Sprintf("shape %v, want %v", U.Shape, p.shape)}
	}
	uBatch, xBatch := p.u.Shape[:p.u.Rank()-1], p.x.Shape[:p.x.Rank()-1]
	out := make([]float64, len(U.Data))
	for i, v := range U.Data {
		ur := broadcastOffset(i, p.shape, uBatch) * n
		xr := broadcastOffset(i, p.shape, xBatch) * n
		k, err := interp.Build(p.u.Data[ur:ur+n], p.x.Data[xr:xr+n], p.sorted)
		if err != nil {
			return Array{}, invalidParameterError{prior: p.name, param: "u", msg: err.Error(), err: err}
		}
		out[i] = k.At(v)
	}
	return Array{Data: out, Shape: slices.Clone(p.shape)}, nil
}

// FromSamples is a scalar prior whose quantile is estimated from samples.
type FromSamples struct {
	name    string
	tracked bool
	icdf    *quantile.Empirical
}

// NewFromSamples builds the empirical quantile once. samples must be rank 1;
// logWeights, when given, must be rank 1 with the same length.
func NewFromSamples(name string, samples Array, logWeights *Array, tracked bool, opts ...quantile.Option) (*FromSamples, error) {
	if name == "" {
		return nil, invalidParameterError{prior: name, param: "name", msg: "must not be empty"}
	}
	if samples.Rank() != 1 {
		return nil, invalidParameterError{prior: name, param: "samples", msg: fmt.Sprintf("only 1D samples allowed, got shape %v", samples.Shape)}
	}
	var lw []float64
	if logWeights != nil {
		if logWeights.Rank() != 1 {
			return nil, invalidParameterError{prior: name, param: "log_weights", msg: fmt.Sprintf("only 1D log weights allowed, got shape %v", logWeights.Shape)}
		}
		lw = logWeights.Data
	}
	icdf, err := quantile.Build(samples.Data, lw, opts...)
	if err != nil {
		return nil, invalidParameterError{prior: name, param: "samples", msg: err.Error(), err: err}
	}
	return &FromSamples{name: name, tracked: tracked, icdf: icdf}, nil
}

func (p *FromSamples) Name() string  { return p.name }
func (p *FromSamples) Shape() []int  { return nil }
func (p *FromSamples) Tracked() bool { return p.tracked }

// Quantile exposes the underlying empirical quantile function.
func (p *FromSamples) Quantile() *quantile.Empirical { return p.icdf }

// Transform maps U elementwise through the empirical quantile.
func (p *FromSamples) Transform(U Array) (Array, error) {
	return Array{Data: p.icdf.Transform(U.Data), Shape: slices.Clone(U.Shape)}, nil
}
