package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func runToy(t *Toy) (State, int) {
	s := t.Init()
	n := 0
	for t.Running(s) {
		s = t.Step(s)
		n++
	}
	return s, n
}

func TestToyConvergesToAnalyticEvidence(t *testing.T) {
	toy := NewToy(ToyConfig{Seed: 3})
	final, steps := runToy(toy)

	require.True(t, final.Done)
	require.Equal(t, steps, final.StepIdx)
	require.Less(t, final.StepIdx, toy.Config().MaxSteps, "run hit the step bound")
	require.InDelta(t, toy.AnalyticLogZ(), final.EvidenceCalculation.LogZMean, 0.3)
	require.Greater(t, final.NumLikelihoodEvaluations, final.StepIdx)
}

func TestToyStepIsPure(t *testing.T) {
	toy := NewToy(ToyConfig{Seed: 11})
	s := toy.Init()
	for i := 0; i < 5; i++ {
		s = toy.Step(s)
	}
	a, b := toy.Step(s), toy.Step(s)
	require.Equal(t, a, b)
	require.Equal(t, 5, s.StepIdx)

	other := NewToy(ToyConfig{Seed: 12}).Step(s)
	require.NotEqual(t, a.EvidenceCalculation.LogX, other.EvidenceCalculation.LogX)
}

func TestToyMonotoneVolumeAndEvidence(t *testing.T) {
	toy := NewToy(ToyConfig{NumLive: 50, Seed: 1})
	s := toy.Init()
	for i := 0; i < 200 && toy.Running(s); i++ {
		next := toy.Step(s)
		require.Less(t, next.EvidenceCalculation.LogX, s.EvidenceCalculation.LogX)
		require.GreaterOrEqual(t, next.EvidenceCalculation.LogZMean, s.EvidenceCalculation.LogZMean)
		require.Greater(t, next.NumLikelihoodEvaluations, s.NumLikelihoodEvaluations)
		s = next
	}
}

func TestToyMaxStepsStops(t *testing.T) {
	toy := NewToy(ToyConfig{MaxSteps: 10, Seed: 5})
	final, steps := runToy(toy)
	require.Equal(t, 10, steps)
	require.True(t, final.Done)
}

func TestToyDefaultsAndInit(t *testing.T) {
	cfg := NewToy(ToyConfig{}).Config()
	require.Equal(t, 400, cfg.NumLive)
	require.Equal(t, 0.1, cfg.Sigma)
	init := NewToy(cfg).Init()
	require.True(t, math.IsInf(init.EvidenceCalculation.LogZMean, -1))
	require.False(t, init.Done)
	require.InDelta(t, math.Log(0.1*math.Sqrt(2*math.Pi)), NewToy(cfg).AnalyticLogZ(), 1e-5)
}

func TestBundleCarriesState(t *testing.T) {
	b := Bundle[string]{State: State{StepIdx: 2, Done: true}, Aux: "x"}
	var c Carrier = b
	require.Equal(t, 2, c.SamplerState().StepIdx)
	require.True(t, State{Done: true}.SamplerState().Done)
}
