// Package weights implements the adaptive source-weight tracker: a
// frequency-count heuristic that nudges per-source weights based on
// rolling prediction accuracy. Best-effort personalization, not a
// statistical learner — no gradients, no held-out validation — and not
// a correctness-critical path.
package weights

import (
	"fmt"
	"sync"
	"time"

	"github.com/jmottin/moodcast-server/internal/mood"
)

const (
	// MaxOutcomes bounds the outcome ring buffer.
	MaxOutcomes = 100
	// MinSamples is how many outcomes must accumulate before weights
	// are recomputed at all.
	MinSamples = 20

	boostAccuracy = 0.6
	halveAccuracy = 0.4
)

// Snapshot carries one numeric proxy per source, taken from the inputs
// the prediction was made from. The tracker buckets history on these.
type Snapshot struct {
	SleepHours     float64 `json:"sleep_hours"`
	MusicEnergy    float64 `json:"music_energy"`
	AgendaPressure float64 `json:"agenda_pressure"`
	Temperature    float64 `json:"temperature"`
	Hour           int     `json:"hour"`
}

// Outcome is one prediction-vs-actual record.
type Outcome struct {
	Predicted mood.Category
	Actual    mood.Category
	Correct   bool
	Snapshot  Snapshot
	CreatedAt time.Time
}

// Store is the persistence boundary. The db package implements it.
type Store interface {
	LoadWeights() (mood.SourceWeights, error)
	SaveWeights(mood.SourceWeights) error
	AppendOutcome(Outcome) error
	// RecentOutcomes returns up to limit newest outcomes.
	RecentOutcomes(limit int) ([]Outcome, error)
}

// sourceThresholds split each source's numeric input into the high and
// low accuracy buckets.
var sourceThresholds = map[string]float64{
	mood.SourceSleep:   7.0,  // hours
	mood.SourceMusic:   0.6,  // energy
	mood.SourceAgenda:  2.0,  // pressure points
	mood.SourceWeather: 15.0, // °C
	mood.SourceTime:    12,   // hour of day
}

func snapshotValue(s Snapshot, source string) float64 {
	switch source {
	case mood.SourceSleep:
		return s.SleepHours
	case mood.SourceMusic:
		return s.MusicEnergy
	case mood.SourceAgenda:
		return s.AgendaPressure
	case mood.SourceWeather:
		return s.Temperature
	case mood.SourceTime:
		return float64(s.Hour)
	}
	return 0
}

// Tracker serializes all weight-table updates. The load-modify-persist
// spans the whole recompute, so concurrent callers must not interleave;
// the mutex makes each update a single critical section.
type Tracker struct {
	mu    sync.Mutex
	store Store
}

// NewTracker creates a tracker over the given store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// Current returns the stored weight table, falling back to the defaults
// when the store holds nothing usable.
func (t *Tracker) Current() (mood.SourceWeights, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, err := t.store.LoadWeights()
	if err != nil {
		return nil, fmt.Errorf("loading weights: %w", err)
	}
	return w.Sanitized(), nil
}

// RecordOutcome appends one prediction-vs-actual record and, once
// enough history exists, recomputes the weight table from bucketed
// accuracy. Returns the table in effect after the update.
func (t *Tracker) RecordOutcome(predicted, actual mood.Category, snap Snapshot) (mood.SourceWeights, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	outcome := Outcome{
		Predicted: predicted,
		Actual:    actual,
		Correct:   predicted == actual,
		Snapshot:  snap,
		CreatedAt: time.Now().UTC(),
	}
	if err := t.store.AppendOutcome(outcome); err != nil {
		return nil, fmt.Errorf("appending outcome: %w", err)
	}

	history, err := t.store.RecentOutcomes(MaxOutcomes)
	if err != nil {
		return nil, fmt.Errorf("loading outcomes: %w", err)
	}

	current, err := t.store.LoadWeights()
	if err != nil {
		return nil, fmt.Errorf("loading weights: %w", err)
	}
	current = current.Sanitized()

	if len(history) < MinSamples {
		return current, nil
	}

	updated := Recompute(current, history)
	if err := t.store.SaveWeights(updated); err != nil {
		return nil, fmt.Errorf("saving weights: %w", err)
	}
	return updated, nil
}

// Recompute derives a new weight table from outcome history. For each
// source the history splits into a high and a low bucket around the
// source threshold; the two buckets' prediction accuracies are
// averaged. Accuracy above 0.6 boosts the source proportionally to
// (accuracy - 0.5); below 0.4 the weight halves. The result is
// renormalized to the default table's total so the scorer's scale
// never drifts.
func Recompute(current mood.SourceWeights, history []Outcome) mood.SourceWeights {
	updated := current.Sanitized().Clone()

	for _, source := range mood.Sources {
		threshold := sourceThresholds[source]

		var highTotal, highCorrect, lowTotal, lowCorrect int
		for _, o := range history {
			if snapshotValue(o.Snapshot, source) > threshold {
				highTotal++
				if o.Correct {
					highCorrect++
				}
			} else {
				lowTotal++
				if o.Correct {
					lowCorrect++
				}
			}
		}

		acc, ok := bucketAccuracy(highCorrect, highTotal, lowCorrect, lowTotal)
		if !ok {
			continue
		}

		switch {
		case acc > boostAccuracy:
			updated[source] *= 1 + (acc - 0.5)
		case acc < halveAccuracy:
			updated[source] *= 0.5
		}
	}

	return renormalize(updated)
}

// bucketAccuracy averages the two buckets' accuracies. An empty bucket
// contributes nothing: the non-empty bucket's accuracy stands alone
// rather than dragging the average toward zero.
func bucketAccuracy(highCorrect, highTotal, lowCorrect, lowTotal int) (float64, bool) {
	switch {
	case highTotal == 0 && lowTotal == 0:
		return 0, false
	case highTotal == 0:
		return float64(lowCorrect) / float64(lowTotal), true
	case lowTotal == 0:
		return float64(highCorrect) / float64(highTotal), true
	default:
		high := float64(highCorrect) / float64(highTotal)
		low := float64(lowCorrect) / float64(lowTotal)
		return (high + low) / 2, true
	}
}

func renormalize(w mood.SourceWeights) mood.SourceWeights {
	total := 0.0
	for _, src := range mood.Sources {
		total += w[src]
	}
	if total <= 0 {
		return mood.DefaultWeights()
	}
	scale := mood.DefaultWeightTotal / total
	for _, src := range mood.Sources {
		w[src] *= scale
	}
	return w
}
