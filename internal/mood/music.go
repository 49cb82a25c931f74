package mood

import "fmt"

// Music feature thresholds.
const (
	musicEnergyHigh       = 0.7
	musicEnergyMedium     = 0.5
	musicValenceHigh      = 0.6
	musicDanceabilityHigh = 0.7
)

// Music vibe labels.
const (
	VibeBoost = "BOOST"
	VibeVibe  = "VIBE"
	VibeChill = "CHILL"
)

// AnalyzeMusic maps averaged audio features onto mood signals. The
// energy branch is exclusive; valence and danceability add on top of it.
// Music is a positive or neutral influence only. Tempo is passed
// through for diagnostics.
func AnalyzeMusic(f MusicFeatures) Section {
	sec := Section{Source: SourceMusic}

	switch {
	case f.Energy > musicEnergyHigh:
		sec.Signals = append(sec.Signals,
			Signal{Pumped, Strong},
			Signal{Energetic, Strong})
		sec.Vibe = VibeBoost
	case f.Energy > musicEnergyMedium:
		sec.Signals = append(sec.Signals, Signal{Energetic, Moderate})
		sec.Vibe = VibeVibe
	default:
		sec.Signals = append(sec.Signals, Signal{Chill, Strong})
		sec.Vibe = VibeChill
	}

	if f.Valence > musicValenceHigh {
		sec.Signals = append(sec.Signals, Signal{Confident, Moderate})
	}
	if f.Danceability > musicDanceabilityHigh {
		sec.Signals = append(sec.Signals, Signal{Creative, Moderate})
	}

	sec.Analysis = fmt.Sprintf("V:%.2f E:%.2f T:%dBPM - %s", f.Valence, f.Energy, f.Tempo, sec.Vibe)
	return sec
}
