package mood

import (
	"fmt"
	"strings"
)

// AnalyzeWeather maps a free-text weather description (possibly emoji)
// onto mood signals. Rain is checked before cloudy before sunny; only
// one class fires. Morning rain is amplified — a grey start weighs on
// the whole day in a way afternoon rain doesn't. Temperature is
// diagnostic only. No match means the weather stays neutral.
func AnalyzeWeather(text string, temperature *float64, segment Segment, kw *KeywordConfig) Section {
	sec := Section{Source: SourceWeather}
	lower := strings.ToLower(text)

	switch {
	case matchAny(lower, kw.WeatherRain):
		if segment == SegmentMorning {
			sec.Signals = append(sec.Signals,
				Signal{Melancholy, VeryStrong},
				Signal{Intense, Strong})
		} else {
			sec.Signals = append(sec.Signals,
				Signal{Melancholy, Moderate},
				Signal{Chill, Moderate})
		}
	case matchAny(lower, kw.WeatherCloudy):
		sec.Signals = append(sec.Signals, Signal{Melancholy, Moderate})
	case matchAny(lower, kw.WeatherSunny):
		sec.Signals = append(sec.Signals,
			Signal{Confident, Strong},
			Signal{Pumped, Moderate})
	}

	sec.Analysis = text
	if temperature != nil {
		sec.Analysis = fmt.Sprintf("%s (%.1f°C)", text, *temperature)
	}
	return sec
}
