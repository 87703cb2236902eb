// Package quantile builds empirical quantile functions (inverse CDFs) from
// sample sets. Samples are optionally importance-resampled by their
// log-weights, binned into an equal-width histogram, and the quantile is the
// piecewise-linear interpolation of bin centers against cumulative bin
// frequencies.
//
// The cumulative frequency of the first bin is generally above zero, so
// At(0) returns the first bin center rather than the sample minimum, and At(1)
// returns the last bin center rather than the maximum.
package quantile

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"nestkit/internal/interp"
)

// DefaultSeed seeds weighted resampling unless WithSeed overrides it. Every
// builder shares it, so equal inputs always give equal quantiles.
const DefaultSeed uint64 = 4212498765

const minBins = 10

type options struct {
	seed uint64
	bins int
}

// Option configures Build.
type Option func(*options)

// WithSeed sets the seed for weighted resampling.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithBins fixes the histogram bin count instead of deriving it from the
// sample size. Values below 1 are ignored.
func WithBins(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bins = n
		}
	}
}

// NumBins returns max(10, floor(sqrt(n))).
func NumBins(n int) int {
	return max(minBins, int(math.Sqrt(float64(n))))
}

// Empirical is an immutable empirical quantile function.
type Empirical struct {
	centers []float64
	cum     []float64
	knots   *interp.Knots
}

// Build constructs the quantile function for samples. When logWeights is
// non-nil it must match samples in length; n indices are then drawn with
// replacement with probability proportional to exp(logWeight) before binning.
func Build(samples, logWeights []float64, opts ...Option) (*Empirical, error) {
	o := options{seed: DefaultSeed}
	for _, opt := range opts {
		opt(&o)
	}
	if len(samples) == 0 {
		return nil, invalidInputError{msg: "no samples"}
	}
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalidInputError{msg: fmt.Sprintf("sample %d is not finite: %v", i, v)}
		}
	}
	if lo, hi := floats.Min(samples), floats.Max(samples); math.IsInf(hi-lo, 0) {
		return nil, invalidInputError{msg: fmt.Sprintf("sample range [%g, %g] overflows", lo, hi)}
	}
	if logWeights != nil {
		rs, err := Resample(samples, logWeights, o.seed)
		if err != nil {
			return nil, err
		}
		samples = rs
	}
	bins := o.bins
	if bins == 0 {
		bins = NumBins(len(samples))
	}

	edges, counts := histogram(samples, bins)
	centers := make([]float64, bins)
	for i := range centers {
		centers[i] = edges[i] + 0.5*(edges[i+1]-edges[i])
	}
	cum := floats.CumSum(make([]float64, bins), counts)
	total := cum[bins-1]
	for i := range cum {
		cum[i] /= total
	}

	knots, err := interp.Build(cum, centers, true)
	if err != nil {
		return nil, err
	}
	return &Empirical{centers: centers, cum: cum, knots: knots}, nil
}

// Resample draws len(samples) values with replacement, each index chosen with
// probability proportional to exp(logWeights[i]).
func Resample(samples, logWeights []float64, seed uint64) ([]float64, error) {
	if len(logWeights) != len(samples) {
		return nil, invalidInputError{msg: fmt.Sprintf("len(log_weights)=%d != len(samples)=%d", len(logWeights), len(samples))}
	}
	top := math.Inf(-1)
	for i, lw := range logWeights {
		if math.IsNaN(lw) || math.IsInf(lw, 1) {
			return nil, invalidInputError{msg: fmt.Sprintf("log weight %d is invalid: %v", i, lw)}
		}
		top = math.Max(top, lw)
	}
	if math.IsInf(top, -1) {
		return nil, invalidInputError{msg: "all log weights are -Inf"}
	}
	w := make([]float64, len(logWeights))
	for i, lw := range logWeights {
		w[i] = math.Exp(lw - top)
	}
	cat := distuv.NewCategorical(w, rand.NewPCG(seed, seed))
	out := make([]float64, len(samples))
	for i := range out {
		out[i] = samples[int(cat.Rand())]
	}
	return out, nil
}

// histogram counts samples into bins equal-width bins spanning the sample
// range, the last bin closed on the right. A zero-width range is widened to
// [v-0.5, v+0.5].
func histogram(samples []float64, bins int) (edges, counts []float64) {
	lo, hi := floats.Min(samples), floats.Max(samples)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges = floats.Span(make([]float64, bins+1), lo, hi)

	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	counts = stat.Histogram(nil, dividers, sorted, nil)
	return edges, counts
}

// At evaluates the quantile at u. Values outside [0, 1] clamp.
func (e *Empirical) At(u float64) float64 { return e.knots.At(u) }

// Transform evaluates the quantile at every element of U.
func (e *Empirical) Transform(U []float64) []float64 { return e.knots.Transform(U) }

// BinCenters returns a copy of the histogram bin centers.
func (e *Empirical) BinCenters() []float64 { return append([]float64(nil), e.centers...) }

// CumFreq returns a copy of the normalized cumulative bin frequencies.
func (e *Empirical) CumFreq() []float64 { return append([]float64(nil), e.cum...) }
