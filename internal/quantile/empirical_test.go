package quantile

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func stratifiedNormal(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = distuv.UnitNormal.Quantile((float64(i) + 0.5) / float64(n))
	}
	return out
}

func TestNumBins(t *testing.T) {
	cases := map[int]int{1: 10, 99: 10, 100: 10, 120: 10, 121: 11, 1000: 31, 10000: 100}
	for n, want := range cases {
		require.Equal(t, want, NumBins(n), "n=%d", n)
	}
}

func TestBuild_NormalMedian(t *testing.T) {
	e, err := Build(stratifiedNormal(1000), nil)
	require.NoError(t, err)
	require.Len(t, e.BinCenters(), 31)
	require.Less(t, math.Abs(e.At(0.5)), 0.2)
}

func TestBuild_RandomNormalMedianWithinBinResolution(t *testing.T) {
	nd := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(1, 2)}
	s := make([]float64, 1000)
	for i := range s {
		s[i] = nd.Rand()
	}
	e, err := Build(s, nil)
	require.NoError(t, err)

	sorted := append([]float64(nil), s...)
	sort.Float64s(sorted)
	median := 0.5 * (sorted[499] + sorted[500])
	c := e.BinCenters()
	width := c[1] - c[0]
	require.LessOrEqual(t, math.Abs(e.At(0.5)-median), 1.5*width)
}

func TestBuild_CumFreqInvariants(t *testing.T) {
	e, err := Build([]float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}, nil)
	require.NoError(t, err)
	cf := e.CumFreq()
	require.Len(t, cf, 10)
	for i := 1; i < len(cf); i++ {
		require.GreaterOrEqual(t, cf[i], cf[i-1])
	}
	require.Equal(t, 1.0, cf[len(cf)-1])

	c := e.BinCenters()
	require.InDelta(t, 1.4, c[0], 1e-12)
	require.InDelta(t, 8.6, c[9], 1e-12)
	require.Equal(t, c[0], e.At(0), "At(0) is the first bin center")
	require.Equal(t, c[9], e.At(1))
}

func TestBuild_Monotone(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	s := make([]float64, 500)
	for i := range s {
		s[i] = rng.ExpFloat64()
	}
	e, err := Build(s, nil)
	require.NoError(t, err)
	prev := math.Inf(-1)
	for i := 0; i <= 1000; i++ {
		v := e.At(float64(i) / 1000)
		require.GreaterOrEqual(t, v, prev, "u=%v", float64(i)/1000)
		prev = v
	}
}

func TestBuild_SingleValue(t *testing.T) {
	e, err := Build([]float64{2, 2, 2}, nil)
	require.NoError(t, err)
	c := e.BinCenters()
	require.InDelta(t, 1.55, c[0], 1e-12)
	require.InDelta(t, 2.45, c[9], 1e-12)
	require.InDelta(t, 2.0, e.At(0.5), 0.1+1e-9)
}

func TestBuild_WeightsConcentrateMass(t *testing.T) {
	s := make([]float64, 200)
	lw := make([]float64, 200)
	for i := range s {
		s[i] = float64(i)
		lw[i] = math.Inf(-1)
	}
	lw[150] = 0
	e, err := Build(s, lw)
	require.NoError(t, err)
	c := e.BinCenters()
	// every resampled value is 150, so the range collapses around it
	require.Len(t, c, 14)
	require.InDelta(t, 149.5+1.0/28, c[0], 1e-9)
	require.InDelta(t, 150.5-1.0/28, c[len(c)-1], 1e-9)
}

func TestBuild_WeightedIsDeterministic(t *testing.T) {
	s := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	lw := []float64{0, -1, -2, -3, 0, -1, -2, -3, 0, -1, -2, -3}
	a, err := Build(s, lw)
	require.NoError(t, err)
	b, err := Build(s, lw)
	require.NoError(t, err)
	require.Equal(t, a.CumFreq(), b.CumFreq())
	require.Equal(t, a.BinCenters(), b.BinCenters())
}

func TestResample_SeedChangesDraws(t *testing.T) {
	s := make([]float64, 64)
	lw := make([]float64, 64)
	for i := range s {
		s[i] = float64(i)
	}
	a, err := Resample(s, lw, DefaultSeed)
	require.NoError(t, err)
	b, err := Resample(s, lw, DefaultSeed+1)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	for _, v := range a {
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 64.0)
	}
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(nil, nil)
	require.True(t, IsInvalidInput(err))
	_, err = Build([]float64{1, math.NaN()}, nil)
	require.True(t, IsInvalidInput(err))
	_, err = Build([]float64{1, 2}, []float64{0})
	require.True(t, IsInvalidInput(err))
	_, err = Build([]float64{1, 2}, []float64{math.Inf(-1), math.Inf(-1)})
	require.True(t, IsInvalidInput(err))
	_, err = Build([]float64{1, 2}, []float64{0, math.NaN()})
	require.True(t, IsInvalidInput(err))
	_, err = Build([]float64{-1e308, 1e308}, nil)
	require.True(t, IsInvalidInput(err), "overflowing range: %v", err)
}

func TestBuild_ExtremeFiniteSamples(t *testing.T) {
	e, err := Build([]float64{-1e307, 1e307}, nil)
	require.NoError(t, err)
	for _, c := range e.BinCenters() {
		require.False(t, math.IsInf(c, 0) || math.IsNaN(c), "center %v", c)
	}
	require.LessOrEqual(t, e.At(0.1), e.At(0.9))

	e, err = Build([]float64{1e308, 1e308}, nil)
	require.NoError(t, err)
	require.Equal(t, 1e308, e.At(0.5))
}

func TestWithBins(t *testing.T) {
	e, err := Build([]float64{0, 1, 2, 3}, nil, WithBins(2))
	require.NoError(t, err)
	require.Equal(t, []float64{0.75, 2.25}, e.BinCenters())
	require.Equal(t, []float64{0.5, 1}, e.CumFreq())
}
