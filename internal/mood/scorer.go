package mood

// Veto override defaults. The floor score stands in for the max when
// every category sits at zero; the margin keeps tired ahead of whatever
// the strongest competing category scored.
const (
	DefaultVetoFloorScore = 100.0
	DefaultVetoMargin     = 1.5
)

// ScoreSignals aggregates weighted source signals into a score per
// category.
//
// Each signal contributes strengthWeight * sourceWeight. If the minimum
// score ends up negative the whole distribution shifts up by its
// magnitude, so downstream fraction/confidence math never sees a
// negative value while the relative ordering stays intact. The veto,
// applied last, forces tired to margin x the post-shift maximum (or
// margin x floorScore in the degenerate all-zero case): critical sleep
// deprivation is a hard ceiling on mood, not one more vote.
//
// Every category keeps a defined score; receiving zero signals just
// leaves it at the shifted baseline.
func ScoreSignals(signals []SourceSignal, weights SourceWeights, veto bool, floorScore, margin float64) map[Category]float64 {
	scores := make(map[Category]float64, len(Categories))
	for _, c := range Categories {
		scores[c] = 0
	}

	for _, s := range signals {
		w, ok := weights[s.Source]
		if !ok {
			w = 1.0
		}
		scores[s.Category] += s.Strength.Weight() * w
	}

	minScore := 0.0
	for _, v := range scores {
		if v < minScore {
			minScore = v
		}
	}
	if minScore < 0 {
		for c := range scores {
			scores[c] -= minScore
		}
	}

	if veto {
		maxScore := 0.0
		for _, v := range scores {
			if v > maxScore {
				maxScore = v
			}
		}
		if maxScore == 0 {
			maxScore = floorScore
		}
		scores[Tired] = maxScore * margin
	}

	return scores
}
