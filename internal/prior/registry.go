package prior

import (
	"fmt"
	"sort"
	"sync"

	"nestkit/internal/config"
	"nestkit/internal/quantile"
)

// Registry holds priors by name. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	priors map[string]Prior
}

func NewRegistry() *Registry { return &Registry{priors: make(map[string]Prior)} }

// Register adds p; names are unique within a registry.
func (r *Registry) Register(p Prior) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.priors[p.Name()]; ok {
		return duplicateNameError{name: p.Name()}
	}
	r.priors[p.Name()] = p
	return nil
}

// Get returns the prior registered under name.
func (r *Registry) Get(name string) (Prior, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.priors[name]
	if !ok {
		return nil, ErrNotFound(name)
	}
	return p, nil
}

// List returns all priors ordered by name.
func (r *Registry) List() []Prior {
	r.mu.RLock()
	out := make([]Prior, 0, len(r.priors))
	for _, p := range r.priors {
		out = append(out, p)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Len returns the number of registered priors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.priors)
}

// Loader reads an array from a file path.
type Loader func(path string) (Array, error)

// FromConfig builds a registry from prior specs. Sample files are read with
// load; seed (0 means quantile.DefaultSeed) drives weighted resampling.
func FromConfig(specs []config.PriorSpec, load Loader, seed uint64) (*Registry, error) {
	reg := NewRegistry()
	for _, s := range specs {
		p, err := fromSpec(s, load, seed)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func fromSpec(s config.PriorSpec, load Loader, seed uint64) (Prior, error) {
	tracked := !s.Untracked
	switch s.Kind {
	case config.PriorPiecewiseLinear:
		return NewPiecewiseLinear(s.Name, Vector(s.U), Vector(s.X), s.Sorted, tracked)
	case config.PriorFromSamples:
		samples := Vector(s.Samples)
		if s.SamplesFile != "" {
			a, err := loadFile(load, s.SamplesFile)
			if err != nil {
				return nil, fmt.Errorf("prior %q: %w", s.Name, err)
			}
			samples = a
		}
		var lw *Array
		if s.LogWeights != nil {
			v := Vector(s.LogWeights)
			lw = &v
		}
		if s.LogWeightsFile != "" {
			a, err := loadFile(load, s.LogWeightsFile)
			if err != nil {
				return nil, fmt.Errorf("prior %q: %w", s.Name, err)
			}
			lw = &a
		}
		var opts []quantile.Option
		if seed != 0 {
			opts = append(opts, quantile.WithSeed(seed))
		}
		return NewFromSamples(s.Name, samples, lw, tracked, opts...)
	default:
		return nil, invalidParameterError{prior: s.Name, param: "kind", msg: fmt.Sprintf("unknown kind %q", s.Kind)}
	}
}

func loadFile(load Loader, path string) (Array, error) {
	if load == nil {
		return Array{}, fmt.Errorf("no loader configured for %s", path)
	}
	return load(path)
}

// Kind names the configuration kind of p, or "" for priors defined outside
// this package.
func Kind(p Prior) string {
	switch p.(type) {
	case *PiecewiseLinear:
		return config.PriorPiecewiseLinear
	case *FromSamples:
		return config.PriorFromSamples
	default:
		return ""
	}
}
