package mood

import (
	"fmt"
	"time"
)

// AnalyzeTime maps the weekly rhythm onto mood signals. Monday brings
// a recharged start, Friday the end-of-week slump, weekends wind down.
// Other weekdays carry no signal. The hour appears in the analysis
// string only.
func AnalyzeTime(now time.Time) Section {
	sec := Section{Source: SourceTime}

	switch now.Weekday() {
	case time.Monday:
		sec.Signals = append(sec.Signals,
			Signal{Energetic, Strong},
			Signal{Pumped, Moderate})
	case time.Friday:
		sec.Signals = append(sec.Signals,
			Signal{Tired, Moderate},
			Signal{Chill, Strong})
	case time.Saturday, time.Sunday:
		sec.Signals = append(sec.Signals, Signal{Chill, Strong})
	}

	sec.Analysis = fmt.Sprintf("%s %02dh", now.Weekday(), now.Hour())
	return sec
}
