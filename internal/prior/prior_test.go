package prior

import (
	"errors"
	"math"
	"strings"
	"testing"

	"nestkit/internal/config"
	"nestkit/internal/quantile"
)

func mustMatrix(t *testing.T, rows [][]float64) Array {
	t.Helper()
	a, err := Matrix(rows)
	if err != nil {
		t.Fatalf("Matrix: %v", err)
	}
	return a
}

func TestPiecewiseLinear_ScalarKnots(t *testing.T) {
	p, err := NewPiecewiseLinear("mass", Vector([]float64{0, 1, 2}), Vector([]float64{0, 10, 20}), true, true)
	if err != nil {
		t.Fatalf("NewPiecewiseLinear: %v", err)
	}
	if p.Shape() != nil || !p.Tracked() || p.Name() != "mass" {
		t.Fatalf("unexpected prior metadata: shape=%v tracked=%v name=%q", p.Shape(), p.Tracked(), p.Name())
	}
	U, _ := NewArray([]float64{0.5, -1, 3, 1.5}, 2, 2)
	got, err := p.Transform(U)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := []float64{5, 0, 20, 15}
	for i := range want {
		if got.Data[i] != want[i] {
			t.Fatalf("Transform = %v, want %v", got.Data, want)
		}
	}
	if len(got.Shape) != 2 || got.Shape[0] != 2 || got.Shape[1] != 2 {
		t.Fatalf("shape=%v, want [2 2]", got.Shape)
	}
}

func TestPiecewiseLinear_UnsortedMatchesSorted(t *testing.T) {
	sorted, err := NewPiecewiseLinear("a", Vector([]float64{0, 0.25, 0.5, 1}), Vector([]float64{-3, -1, 0, 4}), true, true)
	if err != nil {
		t.Fatal(err)
	}
	shuffled, err := NewPiecewiseLinear("b", Vector([]float64{0.5, 1, 0, 0.25}), Vector([]float64{0, 4, -3, -1}), false, true)
	if err != nil {
		t.Fatal(err)
	}
	U := Vector([]float64{-0.1, 0, 0.1, 0.3, 0.5, 0.77, 1, 1.2})
	a, _ := sorted.Transform(U)
	b, _ := shuffled.Transform(U)
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("sorted=%v shuffled=%v", a.Data, b.Data)
		}
	}
}

func TestPiecewiseLinear_BatchedBroadcast(t *testing.T) {
	// shared u, per-row x
	u := Vector([]float64{0, 1})
	x := mustMatrix(t, [][]float64{{0, 1}, {10, 20}, {-1, 1}})
	p, err := NewPiecewiseLinear("b", u, x, true, false)
	if err != nil {
		t.Fatalf("NewPiecewiseLinear: %v", err)
	}
	if s := p.Shape(); len(s) != 1 || s[0] != 3 {
		t.Fatalf("shape=%v, want [3]", s)
	}
	got, err := p.Transform(Vector([]float64{0.5, 0.5, 0.25}))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := []float64{0.5, 15, -0.5}
	for i := range want {
		if math.Abs(got.Data[i]-want[i]) > 1e-12 {
			t.Fatalf("Transform = %v, want %v", got.Data, want)
		}
	}
	if _, err := p.Transform(Vector([]float64{0.5})); !IsInvalidParameter(err) {
		t.Fatalf("expected shape error, got %v", err)
	}
}

func TestPiecewiseLinear_Errors(t *testing.T) {
	cases := []struct {
		name string
		u, x Array
	}{
		{"mismatch", Vector([]float64{0, 1}), Vector([]float64{0, 1, 2})},
		{"scalar", Scalar(1), Vector([]float64{0})},
		{"empty", Vector(nil), Vector(nil)},
		{"bad-batch", mustMatrix(t, [][]float64{{0, 1}, {0, 1}}), mustMatrix(t, [][]float64{{0, 1}, {0, 1}, {0, 1}})},
	}
	for _, c := range cases {
		if _, err := NewPiecewiseLinear(c.name, c.u, c.x, false, true); !IsInvalidParameter(err) {
			t.Fatalf("%s: expected invalid parameter, got %v", c.name, err)
		}
	}
	if _, err := NewPiecewiseLinear("", Vector([]float64{0}), Vector([]float64{0}), false, true); !IsInvalidParameter(err) {
		t.Fatalf("empty name accepted")
	}
}

func TestFromSamples(t *testing.T) {
	s := make([]float64, 400)
	for i := range s {
		s[i] = float64(i) / 399
	}
	p, err := NewFromSamples("flat", Vector(s), nil, true)
	if err != nil {
		t.Fatalf("NewFromSamples: %v", err)
	}
	got, err := p.Transform(Vector([]float64{0, 0.5, 1}))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	c := p.Quantile().BinCenters()
	if got.Data[0] != c[0] || got.Data[2] != c[len(c)-1] {
		t.Fatalf("endpoints %v, want first/last bin centers %v/%v", got.Data, c[0], c[len(c)-1])
	}
	if math.Abs(got.Data[1]-0.5) > 0.06 {
		t.Fatalf("median %v too far from 0.5", got.Data[1])
	}
	if p.Shape() != nil {
		t.Fatalf("FromSamples must be scalar")
	}
}

func TestFromSamples_RejectsNon1D(t *testing.T) {
	m := mustMatrix(t, [][]float64{{1}, {2}, {3}})
	_, err := NewFromSamples("m", m, nil, true)
	if !IsInvalidParameter(err) || !strings.Contains(err.Error(), "only 1D samples") {
		t.Fatalf("expected 1D validation error, got %v", err)
	}
	lw := mustMatrix(t, [][]float64{{0, 0}})
	if _, err := NewFromSamples("m", Vector([]float64{1, 2}), &lw, true); !IsInvalidParameter(err) {
		t.Fatalf("expected log weight rank error, got %v", err)
	}
}

func TestFromSamples_WrapsQuantileErrors(t *testing.T) {
	lw := Vector([]float64{0})
	_, err := NewFromSamples("w", Vector([]float64{1, 2}), &lw, true)
	if !IsInvalidParameter(err) || !quantile.IsInvalidInput(err) {
		t.Fatalf("expected wrapped quantile error, got %v", err)
	}
}

func TestBroadcastShapes(t *testing.T) {
	cases := []struct {
		a, b, want []int
		ok         bool
	}{
		{nil, nil, []int{}, true},
		{[]int{3}, nil, []int{3}, true},
		{[]int{3, 1}, []int{4}, []int{3, 4}, true},
		{[]int{2, 3}, []int{3}, []int{2, 3}, true},
		{[]int{2}, []int{3}, nil, false},
	}
	for _, c := range cases {
		got, err := BroadcastShapes(c.a, c.b)
		if (err == nil) != c.ok {
			t.Fatalf("BroadcastShapes(%v,%v) err=%v", c.a, c.b, err)
		}
		if !c.ok {
			continue
		}
		if len(got) != len(c.want) {
			t.Fatalf("BroadcastShapes(%v,%v)=%v, want %v", c.a, c.b, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("BroadcastShapes(%v,%v)=%v, want %v", c.a, c.b, got, c.want)
			}
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a, _ := NewPiecewiseLinear("b", Vector([]float64{0, 1}), Vector([]float64{0, 1}), true, true)
	b, _ := NewPiecewiseLinear("a", Vector([]float64{0, 1}), Vector([]float64{0, 2}), true, true)
	if err := r.Register(a); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(b); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(a); !IsDuplicateName(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := r.Get("zzz"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	list := r.List()
	if len(list) != 2 || list[0].Name() != "a" || list[1].Name() != "b" || r.Len() != 2 {
		t.Fatalf("unexpected list order: %v", list)
	}
}

func TestFromConfig(t *testing.T) {
	specs := []config.PriorSpec{
		{Name: "pl", Kind: config.PriorPiecewiseLinear, U: []float64{1, 0}, X: []float64{10, 0}},
		{Name: "fs", Kind: config.PriorFromSamples, SamplesFile: "s.csv", Untracked: true},
	}
	load := func(path string) (Array, error) {
		if path != "s.csv" {
			return Array{}, errors.New("unexpected path " + path)
		}
		return Vector([]float64{1, 2, 3, 4, 5}), nil
	}
	reg, err := FromConfig(specs, load, 7)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	pl, err := reg.Get("pl")
	if err != nil {
		t.Fatal(err)
	}
	out, _ := pl.Transform(Scalar(0.5))
	if out.Data[0] != 5 {
		t.Fatalf("pl(0.5)=%v, want 5", out.Data[0])
	}
	fs, _ := reg.Get("fs")
	if fs.Tracked() {
		t.Fatalf("untracked flag ignored")
	}
	if Kind(pl) != config.PriorPiecewiseLinear || Kind(fs) != config.PriorFromSamples {
		t.Fatalf("kinds: %q %q", Kind(pl), Kind(fs))
	}

	if _, err := FromConfig([]config.PriorSpec{{Name: "x", Kind: config.PriorFromSamples, SamplesFile: "f"}}, nil, 0); err == nil {
		t.Fatalf("expected error without loader")
	}
	if _, err := FromConfig([]config.PriorSpec{{Name: "x", Kind: "normal"}}, nil, 0); !IsInvalidParameter(err) {
		t.Fatalf("expected invalid kind, got %v", err)
	}
}
