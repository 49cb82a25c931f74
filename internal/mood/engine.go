package mood

import (
	"fmt"
	"sort"
	"strings"
)

// Engine runs the full inference pass: five extractors, weighted
// scoring, veto override, top-mood selection. It is pure computation —
// no I/O, no shared mutable state — so a single Engine is safe for
// concurrent use by any number of callers.
type Engine struct {
	Keywords *KeywordConfig

	// Veto override constants, configurable per the design notes.
	VetoFloorScore float64
	VetoMargin     float64
}

// NewEngine returns an engine with the default keyword sets and veto
// constants.
func NewEngine() *Engine {
	return &Engine{
		Keywords:       DefaultKeywords(),
		VetoFloorScore: DefaultVetoFloorScore,
		VetoMargin:     DefaultVetoMargin,
	}
}

// Infer runs one point-in-time mood prediction over the given inputs.
// The weight table is sanitized first: a missing or nonsensical table
// falls back to the documented defaults rather than zeroing out a
// source. Given identical inputs and weights the result is
// deterministic.
func (e *Engine) Infer(in Inputs, weights SourceWeights) *Report {
	weights = weights.Sanitized()

	segment := in.Segment
	if segment == "" {
		segment = SegmentForHour(in.Now.Hour())
	}

	sections := map[string]Section{
		SourceAgenda:  AnalyzeAgenda(in.Events, in.Now, e.Keywords),
		SourceSleep:   AnalyzeSleep(in.SleepHours, in.Bedtime, in.WakeTime),
		SourceWeather: AnalyzeWeather(in.WeatherText, in.Temperature, segment, e.Keywords),
		SourceMusic:   AnalyzeMusic(in.Music),
		SourceTime:    AnalyzeTime(in.Now),
	}

	var tagged []SourceSignal
	for _, src := range Sources {
		for _, sig := range sections[src].Signals {
			tagged = append(tagged, SourceSignal{Signal: sig, Source: src})
		}
	}

	veto := sections[SourceSleep].Veto
	scores := ScoreSignals(tagged, weights, veto, e.VetoFloorScore, e.VetoMargin)
	top := TopMood(scores)

	report := &Report{
		Timestamp: in.Now,
		Segment:   segment,
		Weights:   weights.Clone(),
		Sections:  sections,
		Scores:    scores,
		TopMood:   top,
	}
	report.Summary = buildSummary(report)
	return report
}

func buildSummary(r *Report) string {
	var b strings.Builder

	b.WriteString("MOOD ANALYSIS SUMMARY\n")
	b.WriteString("=====================\n")
	fmt.Fprintf(&b, "Segment: %s\n\n", r.Segment)

	for _, src := range Sources {
		fmt.Fprintf(&b, "[%s] %s\n", strings.ToUpper(src), r.Sections[src].Analysis)
	}

	fmt.Fprintf(&b, "\nTOP MOOD: %s\n\nScores (weighted):\n", strings.ToUpper(string(r.TopMood)))

	ranked := make([]Category, 0, len(r.Scores))
	for c := range r.Scores {
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if r.Scores[ranked[i]] != r.Scores[ranked[j]] {
			return r.Scores[ranked[i]] > r.Scores[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	for _, c := range ranked {
		score := r.Scores[c]
		bar := strings.Repeat("#", int(score/2))
		fmt.Fprintf(&b, "  %-12s %6.1f %s\n", c, score, bar)
	}

	return b.String()
}
