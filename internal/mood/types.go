package mood

import "time"

// Category is one of the nine fixed mood categories. The set is closed;
// nothing extends it at runtime.
type Category string

const (
	Creative   Category = "creative"
	HardWork   Category = "hardWork"
	Confident  Category = "confident"
	Chill      Category = "chill"
	Energetic  Category = "energetic"
	Melancholy Category = "melancholy"
	Intense    Category = "intense"
	Pumped     Category = "pumped"
	Tired      Category = "tired"
)

// Categories is the stable enumeration order. The selector scans it in
// order, so earlier categories win exact ties.
var Categories = [9]Category{
	Creative, HardWork, Confident, Chill, Energetic,
	Melancholy, Intense, Pumped, Tired,
}

// Valid reports whether c is one of the nine fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Strength is a qualitative signal intensity.
type Strength string

const (
	VeryWeak   Strength = "veryWeak"
	Weak       Strength = "weak"
	Neutral    Strength = "neutral"
	Moderate   Strength = "moderate"
	Strong     Strength = "strong"
	VeryStrong Strength = "veryStrong"
)

// strengthWeights is the fixed strength-to-score table. It is never
// recomputed or scaled in place; source weights apply on top of it.
var strengthWeights = map[Strength]float64{
	VeryWeak:   -30,
	Weak:       -10,
	Neutral:    0,
	Moderate:   5,
	Strong:     10,
	VeryStrong: 30,
}

// Weight returns the numeric score for a strength. Unknown strengths
// count as neutral.
func (s Strength) Weight() float64 {
	return strengthWeights[s]
}

// Signal is a single (category, strength) pair emitted by one extractor
// for one input fact.
type Signal struct {
	Category Category `json:"category"`
	Strength Strength `json:"strength"`
}

// SourceSignal tags a signal with its originating source so the scorer
// can apply the per-source weight.
type SourceSignal struct {
	Signal
	Source string
}

// Source names used to key the weight table.
const (
	SourceAgenda  = "agenda"
	SourceSleep   = "sleep"
	SourceWeather = "weather"
	SourceMusic   = "music"
	SourceTime    = "time"
)

// Sources lists all source names in weight-table order.
var Sources = [5]string{SourceAgenda, SourceSleep, SourceWeather, SourceMusic, SourceTime}

// Section is the per-source output bundle of one extractor call.
// Veto is only ever set by the sleep extractor; Pressure only by agenda.
type Section struct {
	Source   string   `json:"source"`
	Signals  []Signal `json:"signals"`
	Analysis string   `json:"analysis"`
	Veto     bool     `json:"veto,omitempty"`
	Pressure float64  `json:"pressure,omitempty"`
	Quality  string   `json:"quality,omitempty"`
	Vibe     string   `json:"vibe,omitempty"`

	TodayEvents    []string `json:"today_events,omitempty"`
	UpcomingStress []string `json:"upcoming_stress,omitempty"`
}

// Event is a calendar event in the shape the agenda extractor consumes.
// StartDateTime is RFC 3339 when the event has a clock time; otherwise
// StartDate carries a date-only value ("2006-01-02") for all-day events.
type Event struct {
	Summary       string `json:"summary"`
	StartDate     string `json:"start_date,omitempty"`
	StartDateTime string `json:"start_date_time,omitempty"`
}

// MusicFeatures are averaged audio features in [0,1] (tempo in BPM).
type MusicFeatures struct {
	Valence      float64 `json:"valence"`
	Energy       float64 `json:"energy"`
	Tempo        int     `json:"tempo"`
	Danceability float64 `json:"danceability"`
}

// NeutralMusic is the no-data stand-in when no listening history is
// available.
var NeutralMusic = MusicFeatures{Valence: 0.5, Energy: 0.5, Tempo: 120, Danceability: 0.5}

// Segment is the time-of-day execution slot. Names follow the original
// tri-daily schedule.
type Segment string

const (
	SegmentMorning   Segment = "MATIN"
	SegmentAfternoon Segment = "APRES_MIDI"
	SegmentEvening   Segment = "SOIREE"
)

// SegmentForHour derives the execution slot from an hour of day.
func SegmentForHour(hour int) Segment {
	switch {
	case hour < 12:
		return SegmentMorning
	case hour < 18:
		return SegmentAfternoon
	default:
		return SegmentEvening
	}
}

// Inputs is everything one inference invocation consumes. All fields are
// gathered by the caller; the engine performs no I/O.
type Inputs struct {
	Events      []Event
	SleepHours  float64
	Bedtime     string
	WakeTime    string
	WeatherText string
	Temperature *float64
	Segment     Segment
	Music       MusicFeatures
	Now         time.Time
}

// Report is the full result of one inference invocation.
type Report struct {
	Timestamp time.Time            `json:"timestamp"`
	Segment   Segment              `json:"segment"`
	Weights   SourceWeights        `json:"weights"`
	Sections  map[string]Section   `json:"sections"`
	Scores    map[Category]float64 `json:"scores"`
	TopMood   Category             `json:"top_mood"`
	Summary   string               `json:"summary"`
}
