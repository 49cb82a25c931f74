package mood

import (
	"fmt"
	"strings"
	"time"
)

// Pressure points per agenda event class. Diagnostic only: the total
// never feeds the score map.
const (
	pressureSportIntense  = 2.0
	pressureSportModerate = 1.0
	pressureWorkCreative  = 1.0
	pressureWorkHigh      = 4.0
	pressureWorkNormal    = 0.5
	pressureSocialActive  = 1.0
	pressureSocialCalm    = 0.5
	pressureDefault       = 0.5
)

// lookAheadDays is how far ahead high-focus events raise anticipatory
// stress.
const lookAheadDays = 2

// AnalyzeAgenda classifies today's calendar events into mood signals,
// emphasizing intensity over duration.
//
// Events 1-2 days out that match the high-focus set raise an early
// warning and are excluded from the same-day loop. Today's events whose
// start time has already elapsed only matter if they were high-focus
// (post-exam crash); everything else in the past is ignored.
func AnalyzeAgenda(events []Event, now time.Time, kw *KeywordConfig) Section {
	sec := Section{Source: SourceAgenda}

	today := dateOf(now)

	for _, event := range events {
		summary := strings.ToLower(strings.TrimSpace(event.Summary))
		if summary == "" {
			continue
		}

		eventDate, eventTime, ok := parseEventStart(event, now.Location())
		if !ok {
			continue
		}

		daysAhead := daysBetween(today, eventDate)

		// Anticipatory stress: high-focus events in the next 2 days.
		if daysAhead > 0 && daysAhead <= lookAheadDays {
			if matchAny(summary, kw.WorkFocusHigh) {
				sec.UpcomingStress = append(sec.UpcomingStress,
					fmt.Sprintf("%s (in %dd)", clip(summary, 30), daysAhead))
				sec.Signals = append(sec.Signals,
					Signal{HardWork, Strong},
					Signal{Intense, Moderate})
			}
			continue
		}

		if daysAhead != 0 {
			continue
		}

		// Elapsed today: only a finished high-focus event leaves a trace
		// (the post-effort crash).
		if eventTime != nil && !eventTime.After(now) {
			if matchAny(summary, kw.WorkFocusHigh) {
				sec.Signals = append(sec.Signals, Signal{Tired, VeryStrong})
				sec.TodayEvents = append(sec.TodayEvents, "[DONE] "+clip(summary, 30))
			}
			continue
		}

		// Remaining same-day event: first matching class wins.
		switch {
		case matchAny(summary, kw.SportIntense):
			sec.Signals = append(sec.Signals, Signal{Pumped, VeryStrong})
			sec.Pressure += pressureSportIntense
		case matchAny(summary, kw.SportModerate):
			sec.Signals = append(sec.Signals, Signal{Energetic, Strong})
			sec.Pressure += pressureSportModerate
		case matchAny(summary, kw.WorkCreative):
			sec.Signals = append(sec.Signals, Signal{Creative, Strong})
			sec.Pressure += pressureWorkCreative
		case matchAny(summary, kw.WorkFocusHigh):
			sec.Signals = append(sec.Signals,
				Signal{Intense, VeryStrong},
				Signal{HardWork, Strong})
			sec.Pressure += pressureWorkHigh
		case matchAny(summary, kw.WorkFocusNormal):
			sec.Signals = append(sec.Signals, Signal{HardWork, Moderate})
			sec.Pressure += pressureWorkNormal
		case matchAny(summary, kw.SocialActive):
			sec.Signals = append(sec.Signals,
				Signal{Confident, Strong},
				Signal{Energetic, Moderate})
			sec.Pressure += pressureSocialActive
		case matchAny(summary, kw.SocialCalm):
			sec.Signals = append(sec.Signals, Signal{Chill, Strong})
			sec.Pressure += pressureSocialCalm
		default:
			// Every event contributes something, even unclassified ones.
			sec.Signals = append(sec.Signals, Signal{Confident, Moderate})
			sec.Pressure += pressureDefault
		}

		sec.TodayEvents = append(sec.TodayEvents, clip(summary, 30))
	}

	sec.Analysis = fmt.Sprintf("Pressure: %.1f | Upcoming Stress: %d",
		sec.Pressure, len(sec.UpcomingStress))
	return sec
}

// parseEventStart resolves an event's start into a calendar date and,
// when the event has a clock time, an instant in loc. Unparseable
// starts make the event skippable, never fatal.
func parseEventStart(event Event, loc *time.Location) (date time.Time, clock *time.Time, ok bool) {
	if event.StartDateTime != "" {
		dt, err := time.Parse(time.RFC3339, event.StartDateTime)
		if err != nil {
			return time.Time{}, nil, false
		}
		local := dt.In(loc)
		return dateOf(local), &local, true
	}
	if event.StartDate != "" {
		d, err := time.ParseInLocation("2006-01-02", event.StartDate, loc)
		if err != nil {
			return time.Time{}, nil, false
		}
		// All-day events have no clock time and count as not yet elapsed.
		return d, nil, true
	}
	return time.Time{}, nil, false
}

// dateOf truncates t to midnight in its own location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween returns the whole calendar days from a to b. The dates
// are re-anchored in UTC so a DST transition between them cannot shave
// the span below a multiple of 24h.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// clip truncates on rune boundaries; summaries are French and byte
// slicing could split an accented character.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
