package mood

import "fmt"

// Sleep duration thresholds in hours.
const (
	SleepCritical   = 6.0 // below this the veto fires
	SleepPoor       = 7.0
	SleepInadequate = 8.0
	SleepOptimalMin = 8.5
)

// Sleep quality labels.
const (
	SleepQualityNoData       = "NO_DATA"
	SleepQualityCriticalVeto = "CRITICAL_VETO"
	SleepQualityPoor         = "POOR"
	SleepQualityInadequate   = "INADEQUATE"
	SleepQualityOptimal      = "OPTIMAL"
	SleepQualityOK           = "OK"
)

// AnalyzeSleep maps sleep duration onto mood signals. Exactly one branch
// fires. Under six hours the section raises the veto, the only
// cross-cutting effect any extractor may produce; the scorer's final
// override step is its sole consumer. Bedtime and wake strings are
// diagnostic only.
func AnalyzeSleep(hours float64, bedtime, wakeTime string) Section {
	sec := Section{Source: SourceSleep}

	switch {
	case hours <= 0:
		// Unmeasured sleep is a valid state, not an error; don't punish.
		sec.Signals = append(sec.Signals, Signal{Chill, Moderate})
		sec.Quality = SleepQualityNoData
	case hours < SleepCritical:
		sec.Signals = append(sec.Signals, Signal{Tired, VeryStrong})
		sec.Quality = SleepQualityCriticalVeto
		sec.Veto = true
	case hours < SleepPoor:
		sec.Signals = append(sec.Signals, Signal{Tired, Strong})
		sec.Quality = SleepQualityPoor
	case hours < SleepInadequate:
		sec.Signals = append(sec.Signals, Signal{Tired, Moderate})
		sec.Quality = SleepQualityInadequate
	case hours >= SleepOptimalMin:
		sec.Signals = append(sec.Signals,
			Signal{Energetic, Strong},
			Signal{Confident, Strong})
		sec.Quality = SleepQualityOptimal
	default:
		// 8h - 8.5h: decent night, nothing remarkable.
		sec.Signals = append(sec.Signals, Signal{Chill, Moderate})
		sec.Quality = SleepQualityOK
	}

	sec.Analysis = fmt.Sprintf("%.1fh - %s", hours, sec.Quality)
	if sec.Veto {
		sec.Analysis += " [VETO]"
	}
	if bedtime != "" && wakeTime != "" {
		sec.Analysis += fmt.Sprintf(" (%s -> %s)", bedtime, wakeTime)
	}
	return sec
}
