package mood

// TopMood returns the single highest-scoring category. The scan follows
// the declaration order in Categories with a strict greater-than, so on
// an exact tie the earliest-declared category wins. An empty score map
// (cannot happen with a scorer-produced map) falls back to chill.
func TopMood(scores map[Category]float64) Category {
	best := Chill
	found := false
	var bestScore float64

	for _, c := range Categories {
		v, ok := scores[c]
		if !ok {
			continue
		}
		if !found || v > bestScore {
			best = c
			bestScore = v
			found = true
		}
	}
	return best
}

// TopMoods returns the n highest-scoring categories in rank order,
// ties resolved by declaration order.
func TopMoods(scores map[Category]float64, n int) []Category {
	remaining := make(map[Category]float64, len(scores))
	for c, v := range scores {
		remaining[c] = v
	}

	var out []Category
	for len(out) < n && len(remaining) > 0 {
		top := TopMood(remaining)
		if _, ok := remaining[top]; !ok {
			break
		}
		out = append(out, top)
		delete(remaining, top)
	}
	return out
}
