package progress

import "nestkit/internal/sampler"

// Extractor reads the sampler state out of a loop state. A false result
// means the loop state is not something a reporter can follow.
type Extractor[S any] func(S) (sampler.State, bool)

// StateExtractor is the Extractor for loops over a bare sampler.State.
func StateExtractor(s sampler.State) (sampler.State, bool) { return s, true }

// CarrierExtractor is the Extractor for loops whose state bundles a
// sampler.State, such as sampler.Bundle.
func CarrierExtractor[S sampler.Carrier](s S) (sampler.State, bool) {
	return s.SamplerState(), true
}

// DynamicExtractor serves loops typed as any. It accepts a State, a non-nil
// *State, a Carrier, or a non-empty []any whose first element is one of
// those.
func DynamicExtractor(v any) (sampler.State, bool) {
	switch s := v.(type) {
	case sampler.State:
		return s, true
	case *sampler.State:
		if s == nil {
			return sampler.State{}, false
		}
		return *s, true
	case sampler.Carrier:
		return s.SamplerState(), true
	case []any:
		if len(s) == 0 {
			return sampler.State{}, false
		}
		return DynamicExtractor(s[0])
	default:
		return sampler.State{}, false
	}
}
