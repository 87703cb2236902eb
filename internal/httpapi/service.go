package httpapi

import (
	"time"

	"nestkit/internal/prior"
	"nestkit/internal/progress"
	"nestkit/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Status() types.StatusResponse
	ListPriors() []types.PriorInfo
	Transform(name string, u prior.Array) (prior.Array, error)
}

// Backend serves progress from a hub and transforms from a prior registry.
type Backend struct {
	hub     *progress.Hub
	priors  *prior.Registry
	started time.Time
}

// NewBackend wires hub and priors; either may be nil.
func NewBackend(hub *progress.Hub, priors *prior.Registry) *Backend {
	if priors == nil {
		priors = prior.NewRegistry()
	}
	return &Backend{hub: hub, priors: priors, started: time.Now()}
}

func (b *Backend) Status() types.StatusResponse {
	now := time.Now()
	resp := types.StatusResponse{
		Runs:           []types.ProgressStatus{},
		UptimeSeconds:  int64(now.Sub(b.started).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
	if b.hub != nil {
		resp.Runs = b.hub.Snapshot()
		resp.ActiveRuns = b.hub.Active()
	}
	return resp
}

func (b *Backend) ListPriors() []types.PriorInfo {
	ps := b.priors.List()
	out := make([]types.PriorInfo, 0, len(ps))
	for _, p := range ps {
		shape := p.Shape()
		if shape == nil {
			shape = []int{}
		}
		out = append(out, types.PriorInfo{Name: p.Name(), Kind: prior.Kind(p), Shape: shape, Tracked: p.Tracked()})
	}
	return out
}

func (b *Backend) Transform(name string, u prior.Array) (prior.Array, error) {
	p, err := b.priors.Get(name)
	if err != nil {
		return prior.Array{}, err
	}
	return p.Transform(u)
}
