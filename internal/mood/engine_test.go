package mood

import (
	"math"
	"strings"
	"testing"
	"time"
)

// mondayMorning is 2024-01-01 (a Monday) at 08:00 UTC.
var mondayMorning = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

// saturdayMorning is 2024-01-06 at 09:00 UTC.
var saturdayMorning = time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC)

func TestInferDeterminism(t *testing.T) {
	e := NewEngine()
	in := Inputs{
		Events: []Event{
			{Summary: "réunion projet", StartDate: "2024-01-01"},
			{Summary: "crossfit", StartDateTime: "2024-01-01T18:00:00Z"},
		},
		SleepHours:  7.5,
		WeatherText: "nuageux",
		Music:       MusicFeatures{Valence: 0.4, Energy: 0.65, Tempo: 110, Danceability: 0.3},
		Now:         mondayMorning,
	}

	a := e.Infer(in, DefaultWeights())
	b := e.Infer(in, DefaultWeights())

	if a.TopMood != b.TopMood {
		t.Fatalf("top mood differs: %s vs %s", a.TopMood, b.TopMood)
	}
	for _, c := range Categories {
		if a.Scores[c] != b.Scores[c] {
			t.Errorf("scores[%s] differ: %v vs %v", c, a.Scores[c], b.Scores[c])
		}
	}
}

func TestInferVetoDominance(t *testing.T) {
	// Adversarial setup: everything except sleep screams high energy —
	// Monday, sunny, boost music, intense sport today. Tired must still
	// win on under six hours of sleep.
	e := NewEngine()
	in := Inputs{
		Events: []Event{
			{Summary: "match de rugby", StartDateTime: "2024-01-01T17:00:00Z"},
		},
		SleepHours:  4.0,
		WeatherText: "grand soleil",
		Music:       MusicFeatures{Valence: 0.9, Energy: 0.9, Tempo: 150, Danceability: 0.9},
		Now:         mondayMorning,
	}

	report := e.Infer(in, DefaultWeights())

	if report.TopMood != Tired {
		t.Fatalf("top mood = %s, want tired under veto", report.TopMood)
	}
	if !report.Sections[SourceSleep].Veto {
		t.Error("sleep section should carry the veto flag")
	}
	max := 0.0
	for c, v := range report.Scores {
		if c != Tired && v > max {
			max = v
		}
	}
	if report.Scores[Tired] <= max {
		t.Errorf("tired (%v) should dominate the runner-up (%v)", report.Scores[Tired], max)
	}
}

func TestInferScoreMapInvariants(t *testing.T) {
	e := NewEngine()
	inputs := []Inputs{
		{Now: mondayMorning},
		{SleepHours: 5.0, Now: mondayMorning},
		{SleepHours: 9.0, WeatherText: "pluie", Music: NeutralMusic, Now: saturdayMorning},
		{
			Events:      []Event{{Summary: "soirée concert", StartDate: "2024-01-06"}},
			SleepHours:  6.5,
			WeatherText: "🌧️ pluie forte",
			Music:       MusicFeatures{Valence: 0.2, Energy: 0.2, Tempo: 70, Danceability: 0.2},
			Now:         saturdayMorning,
		},
	}

	for i, in := range inputs {
		report := e.Infer(in, DefaultWeights())
		if len(report.Scores) != len(Categories) {
			t.Errorf("case %d: %d categories, want %d", i, len(report.Scores), len(Categories))
		}
		for c, v := range report.Scores {
			if v < 0 {
				t.Errorf("case %d: scores[%s] = %v, want >= 0", i, c, v)
			}
		}
	}
}

func TestInferScenarioSleepDeprivedMonday(t *testing.T) {
	// Five hours of sleep, nothing else going on: the veto fires and
	// tired tops the board.
	e := NewEngine()
	in := Inputs{
		SleepHours: 5.0,
		Music:      NeutralMusic,
		Now:        mondayMorning,
	}

	report := e.Infer(in, DefaultWeights())

	if !report.Sections[SourceSleep].Veto {
		t.Fatal("expected veto")
	}
	if report.TopMood != Tired {
		t.Errorf("top mood = %s, want tired", report.TopMood)
	}
}

func TestInferScenarioRestedSaturday(t *testing.T) {
	// Nine hours of sleep, yoga ahead, sunshine, upbeat music on a
	// Saturday: the positive cluster must dominate and the low moods
	// must stay out of the top spot.
	e := NewEngine()
	in := Inputs{
		Events:      []Event{{Summary: "yoga", StartDateTime: "2024-01-06T17:00:00Z"}},
		SleepHours:  9.0,
		WeatherText: "ensoleillé",
		Music:       MusicFeatures{Valence: 0.8, Energy: 0.8, Tempo: 125, Danceability: 0.5},
		Now:         saturdayMorning,
	}

	report := e.Infer(in, DefaultWeights())

	if report.TopMood == Tired || report.TopMood == Melancholy {
		t.Fatalf("top mood = %s, want a positive mood", report.TopMood)
	}
	if report.Scores[Energetic] <= report.Scores[Chill] {
		t.Errorf("energetic (%v) should outscore chill (%v)",
			report.Scores[Energetic], report.Scores[Chill])
	}
	if report.Scores[Confident] <= report.Scores[Chill] {
		t.Errorf("confident (%v) should outscore chill (%v)",
			report.Scores[Confident], report.Scores[Chill])
	}
}

func TestInferScenarioUpcomingExam(t *testing.T) {
	e := NewEngine()
	tomorrow := mondayMorning.AddDate(0, 0, 1).Format("2006-01-02")
	in := Inputs{
		Events:     []Event{{Summary: "examen final", StartDate: tomorrow}},
		SleepHours: 8.0,
		Music:      NeutralMusic,
		Now:        mondayMorning,
	}

	report := e.Infer(in, DefaultWeights())
	agenda := report.Sections[SourceAgenda]

	assertSignals(t, agenda.Signals, []Signal{{HardWork, Strong}, {Intense, Moderate}})
	if len(agenda.UpcomingStress) != 1 {
		t.Errorf("upcoming stress = %v, want one entry", agenda.UpcomingStress)
	}
	if len(agenda.TodayEvents) != 0 {
		t.Errorf("event leaked into the same-day loop: %v", agenda.TodayEvents)
	}
}

func TestInferScenarioMorningRain(t *testing.T) {
	e := NewEngine()
	in := Inputs{
		SleepHours:  8.0,
		WeatherText: "pluie",
		Segment:     SegmentMorning,
		Music:       NeutralMusic,
		Now:         mondayMorning,
	}

	report := e.Infer(in, DefaultWeights())
	weather := report.Sections[SourceWeather]

	assertSignals(t, weather.Signals, []Signal{{Melancholy, VeryStrong}, {Intense, Strong}})
}

func TestInferSanitizesBadWeights(t *testing.T) {
	e := NewEngine()
	in := Inputs{SleepHours: 9.0, Music: NeutralMusic, Now: saturdayMorning}

	withNil := e.Infer(in, nil)
	withDefaults := e.Infer(in, DefaultWeights())

	for _, c := range Categories {
		if math.Abs(withNil.Scores[c]-withDefaults.Scores[c]) > 1e-9 {
			t.Errorf("scores[%s] differ: %v vs %v", c, withNil.Scores[c], withDefaults.Scores[c])
		}
	}
	if withNil.Weights[SourceAgenda] != DefaultWeightAgenda {
		t.Errorf("report should carry the substituted defaults, got %v", withNil.Weights)
	}
}

func TestInferDerivesSegmentFromHour(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		hour int
		want Segment
	}{
		{8, SegmentMorning},
		{13, SegmentAfternoon},
		{20, SegmentEvening},
	}
	for _, tt := range tests {
		in := Inputs{Now: time.Date(2024, 1, 2, tt.hour, 0, 0, 0, time.UTC), Music: NeutralMusic}
		if got := e.Infer(in, DefaultWeights()).Segment; got != tt.want {
			t.Errorf("hour %d: segment = %s, want %s", tt.hour, got, tt.want)
		}
	}
}

func TestInferSummaryMentionsTopMood(t *testing.T) {
	e := NewEngine()
	report := e.Infer(Inputs{SleepHours: 5.0, Music: NeutralMusic, Now: mondayMorning}, DefaultWeights())
	if report.Summary == "" {
		t.Fatal("summary should not be empty")
	}
	if want := "TIRED"; !strings.Contains(report.Summary, want) {
		t.Errorf("summary should mention %q:\n%s", want, report.Summary)
	}
}
