package sampler

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ToyConfig parameterizes Toy. Zero fields take the defaults below.
type ToyConfig struct {
	// NumLive is the number of live points; default 400.
	NumLive int
	// Sigma is the Gaussian likelihood width inside a unit-width uniform
	// prior; default 0.1.
	Sigma float64
	// Tolerance stops the run once the remaining prior volume can change the
	// evidence by less than this fraction; default 1e-3.
	Tolerance float64
	// MaxSteps bounds the run; default 100000.
	MaxSteps int
	// Walks is the mean number of extra likelihood calls per replacement;
	// default 20.
	Walks int
	Seed  uint64
}

func (c ToyConfig) withDefaults() ToyConfig {
	if c.NumLive <= 0 {
		c.NumLive = 400
	}
	if c.Sigma <= 0 {
		c.Sigma = 0.1
	}
	if c.Tolerance <= 0 {
		c.Tolerance = 1e-3
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = 100000
	}
	if c.Walks <= 0 {
		c.Walks = 20
	}
	return c
}

// Toy is a one-dimensional nested sampler over a Gaussian likelihood whose
// contours are known in closed form, so only the prior-volume shrinkage is
// random. Step is a pure function of its input: the random stream of step i
// is seeded by (Seed, i).
type Toy struct {
	cfg ToyConfig
}

func NewToy(cfg ToyConfig) *Toy { return &Toy{cfg: cfg.withDefaults()} }

// Config returns the effective configuration.
func (t *Toy) Config() ToyConfig { return t.cfg }

// Init returns the state before the first replacement: full prior volume and
// no evidence accumulated.
func (t *Toy) Init() State {
	return State{EvidenceCalculation: EvidenceCalculation{LogZMean: math.Inf(-1), LogX: 0}}
}

// Running is the loop predicate.
func (t *Toy) Running(s State) bool { return !s.Done }

// Step replaces the worst live point.
func (t *Toy) Step(s State) State {
	src := rand.NewPCG(t.cfg.Seed, uint64(s.StepIdx))
	// Shrinkage of the largest of NumLive uniforms.
	shrink := distuv.Beta{Alpha: float64(t.cfg.NumLive), Beta: 1, Src: src}.Rand()
	logT := math.Log(shrink)

	prevLogX := s.EvidenceCalculation.LogX
	logX := prevLogX + logT
	logWidth := prevLogX + math.Log(-math.Expm1(logT))
	logL := t.LogLikelihoodAt(logX)

	s.StepIdx++
	s.EvidenceCalculation.LogX = logX
	s.EvidenceCalculation.LogZMean = floats.LogSumExp([]float64{s.EvidenceCalculation.LogZMean, logL + logWidth})
	s.NumLikelihoodEvaluations += 1 + int(distuv.Poisson{Lambda: float64(t.cfg.Walks), Src: src}.Rand())
	// The likelihood peaks at 0, so the live points hold at most exp(logX).
	s.Done = logX < s.EvidenceCalculation.LogZMean+math.Log(t.cfg.Tolerance) || s.StepIdx >= t.cfg.MaxSteps
	return s
}

// LogLikelihoodAt is the likelihood contour enclosing prior volume exp(logX):
// the iso-likelihood region is |x| < X/2 under a uniform prior on [-1/2, 1/2].
func (t *Toy) LogLikelihoodAt(logX float64) float64 {
	r := math.Exp(logX) / 2
	return -r * r / (2 * t.cfg.Sigma * t.cfg.Sigma)
}

// AnalyticLogZ is the exact log-evidence of the toy problem.
func (t *Toy) AnalyticLogZ() float64 {
	s := t.cfg.Sigma
	return math.Log(s * math.Sqrt(2*math.Pi) * math.Erf(1/(2*math.Sqrt2*s)))
}
