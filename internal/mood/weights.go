package mood

// SourceWeights maps source name to a weight in (0,1]. The table is
// mutable only through the weight tracker and persisted between runs.
type SourceWeights map[string]float64

// Default source weights. Sum is 1.0.
const (
	DefaultWeightAgenda  = 0.35
	DefaultWeightSleep   = 0.35
	DefaultWeightWeather = 0.15
	DefaultWeightMusic   = 0.10
	DefaultWeightTime    = 0.05
)

// DefaultWeights returns a fresh copy of the default weight table.
func DefaultWeights() SourceWeights {
	return SourceWeights{
		SourceAgenda:  DefaultWeightAgenda,
		SourceSleep:   DefaultWeightSleep,
		SourceWeather: DefaultWeightWeather,
		SourceMusic:   DefaultWeightMusic,
		SourceTime:    DefaultWeightTime,
	}
}

// DefaultWeightTotal is the sum the tracker renormalizes to.
const DefaultWeightTotal = 1.0

// Valid reports whether the table can be handed to the scorer: all five
// sources present with positive weights, and a total that is not wildly
// off. A zeroed or negative weight would silently erase or invert an
// entire source, so callers must substitute defaults instead.
func (w SourceWeights) Valid() bool {
	if len(w) == 0 {
		return false
	}
	total := 0.0
	for _, src := range Sources {
		v, ok := w[src]
		if !ok || v <= 0 || v > 1 {
			return false
		}
		total += v
	}
	return total > 0.5 && total < 1.5
}

// Sanitized returns the table itself when valid, otherwise the defaults.
func (w SourceWeights) Sanitized() SourceWeights {
	if w.Valid() {
		return w
	}
	return DefaultWeights()
}

// Clone returns an independent copy.
func (w SourceWeights) Clone() SourceWeights {
	out := make(SourceWeights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}
