// Package calendar fetches ICS feeds (HTTP URLs or local files) and
// normalizes their events for the agenda analyzer.
package calendar

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/jmottin/moodcast-server/internal/mood"
)

// lookAheadDays matches the agenda analyzer's stress look-ahead window.
const lookAheadDays = 2

// Client fetches and parses the configured ICS sources.
type Client struct {
	sources    []string
	httpClient *http.Client
}

// NewClient creates a calendar client over ICS URLs or file paths.
func NewClient(sources []string) *Client {
	return &Client{
		sources: sources,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchEvents returns events from today through the look-ahead window,
// across all sources. A failing source is skipped, not fatal; with no
// sources configured the result is simply empty.
func (c *Client) FetchEvents(ctx context.Context, now time.Time) []mood.Event {
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowEnd := windowStart.AddDate(0, 0, lookAheadDays+1)

	var events []mood.Event
	for _, source := range c.sources {
		parsed, err := c.fetchSource(ctx, source)
		if err != nil {
			log.Printf("Skipping calendar source %s: %v", source, err)
			continue
		}
		events = append(events, filterWindow(parsed, windowStart, windowEnd)...)
	}
	return events
}

func (c *Client) fetchSource(ctx context.Context, source string) ([]mood.Event, error) {
	content, err := c.readSource(ctx, source)
	if err != nil {
		return nil, err
	}

	cal, err := ics.ParseCalendar(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var out []mood.Event
	for _, event := range cal.Events() {
		summary := ""
		if prop := event.GetProperty(ics.ComponentPropertySummary); prop != nil {
			summary = prop.Value
		}

		if start, err := event.GetStartAt(); err == nil {
			out = append(out, mood.Event{
				Summary:       summary,
				StartDateTime: start.Format(time.RFC3339),
			})
			continue
		}
		if start, err := event.GetAllDayStartAt(); err == nil {
			out = append(out, mood.Event{
				Summary:   summary,
				StartDate: start.Format("2006-01-02"),
			})
		}
		// Events without a parseable start are dropped here; the
		// analyzer would skip them anyway.
	}
	return out, nil
}

func (c *Client) readSource(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, "GET", source, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching feed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}

	content, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return content, nil
}

func filterWindow(events []mood.Event, start, end time.Time) []mood.Event {
	var out []mood.Event
	for _, e := range events {
		var eventTime time.Time
		var err error
		switch {
		case e.StartDateTime != "":
			eventTime, err = time.Parse(time.RFC3339, e.StartDateTime)
		case e.StartDate != "":
			eventTime, err = time.Parse("2006-01-02", e.StartDate)
		default:
			continue
		}
		if err != nil {
			continue
		}
		// Compare on calendar date so timezones don't shave off
		// same-day events at the window edges.
		day := time.Date(eventTime.Year(), eventTime.Month(), eventTime.Day(), 12, 0, 0, 0, start.Location())
		if day.Before(start) || !day.Before(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}
