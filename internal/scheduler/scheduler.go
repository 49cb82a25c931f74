// Package scheduler runs the tri-daily mood inference jobs: gather
// inputs from the calendar, weather and music adapters, run the
// engine, persist the prediction and write the markdown report.
package scheduler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/jmottin/moodcast-server/internal/db"
	"github.com/jmottin/moodcast-server/internal/mood"
	"github.com/jmottin/moodcast-server/internal/reports"
	"github.com/jmottin/moodcast-server/internal/weather"
	"github.com/jmottin/moodcast-server/internal/weights"
)

// CalendarSource provides agenda events for the inference window.
type CalendarSource interface {
	FetchEvents(ctx context.Context, now time.Time) []mood.Event
}

// WeatherSource provides the daily forecast.
type WeatherSource interface {
	DailyForecast(ctx context.Context) (*weather.Forecast, error)
}

// MusicSource provides averaged recent audio features.
type MusicSource interface {
	RecentFeatures(ctx context.Context) (mood.MusicFeatures, error)
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	scheduler gocron.Scheduler
	db        *db.DB
	engine    *mood.Engine
	tracker   *weights.Tracker
	reports   *reports.Store
	calendar  CalendarSource
	weather   WeatherSource
	music     MusicSource
	timezone  *time.Location
}

// Config holds scheduler configuration
type Config struct {
	Timezone string
}

// New creates a new scheduler. Any adapter may be nil; a missing
// adapter contributes its source's no-data state.
func New(database *db.DB, engine *mood.Engine, tracker *weights.Tracker, reportStore *reports.Store,
	cal CalendarSource, wx WeatherSource, mus MusicSource, cfg Config) (*Scheduler, error) {

	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		tz = time.UTC
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(tz))
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		scheduler: s,
		db:        database,
		engine:    engine,
		tracker:   tracker,
		reports:   reportStore,
		calendar:  cal,
		weather:   wx,
		music:     mus,
		timezone:  tz,
	}, nil
}

// Start starts the scheduler and registers all jobs
func (s *Scheduler) Start() error {
	slots := []struct {
		name string
		slot mood.Segment
		hour uint
		min  uint
	}{
		{"morning-mood", mood.SegmentMorning, 7, 0},
		{"afternoon-mood", mood.SegmentAfternoon, 13, 30},
		{"evening-mood", mood.SegmentEvening, 19, 30},
	}

	for _, job := range slots {
		slot := job.slot
		_, err := s.scheduler.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(job.hour, job.min, 0))),
			gocron.NewTask(func() { s.runSlot(slot) }),
			gocron.WithName(job.name),
		)
		if err != nil {
			return err
		}
	}

	s.scheduler.Start()
	log.Println("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

// RunNow triggers one slot's inference immediately.
func (s *Scheduler) RunNow(slot mood.Segment) error {
	return s.runSlot(slot)
}

func (s *Scheduler) runSlot(slot mood.Segment) error {
	log.Printf("Running scheduled mood inference for %s...", slot)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now().In(s.timezone)
	inputs := s.gatherInputs(ctx, now, slot)

	table, err := s.tracker.Current()
	if err != nil {
		log.Printf("Loading weight table failed, using defaults: %v", err)
		table = mood.DefaultWeights()
	}

	report := s.engine.Infer(inputs, table)

	var temperature float64
	if inputs.Temperature != nil {
		temperature = *inputs.Temperature
	}
	predictionID := uuid.NewString()
	record := db.PredictionRecord{
		ID:      predictionID,
		Slot:    slot,
		TopMood: report.TopMood,
		Report:  marshalReport(report),
		Snapshot: weights.Snapshot{
			SleepHours:     inputs.SleepHours,
			MusicEnergy:    inputs.Music.Energy,
			AgendaPressure: report.Sections[mood.SourceAgenda].Pressure,
			Temperature:    temperature,
			Hour:           now.Hour(),
		},
	}
	if err := s.db.SavePrediction(record); err != nil {
		log.Printf("Error saving prediction for %s: %v", slot, err)
		return err
	}

	if path, err := s.reports.Write(predictionID, report); err != nil {
		log.Printf("Error writing report for %s: %v", slot, err)
	} else {
		log.Printf("Predicted %s for %s, report %s", report.TopMood, slot, path)
	}
	return nil
}

// gatherInputs collects the five sources. Each adapter degrades to its
// no-data state on failure so a dead upstream never blocks the run.
func (s *Scheduler) gatherInputs(ctx context.Context, now time.Time, slot mood.Segment) mood.Inputs {
	inputs := mood.Inputs{
		Segment: slot,
		Music:   mood.NeutralMusic,
		Now:     now,
	}

	if s.calendar != nil {
		inputs.Events = s.calendar.FetchEvents(ctx, now)
	}

	sleep, err := s.db.GetSleep(now.Format("2006-01-02"))
	if err != nil {
		log.Printf("Error reading sleep log: %v", err)
	} else {
		inputs.SleepHours = sleep.Hours
		inputs.Bedtime = sleep.Bedtime
		inputs.WakeTime = sleep.WakeTime
	}

	if s.weather != nil {
		forecast, err := s.weather.DailyForecast(ctx)
		if err != nil {
			log.Printf("Weather unavailable: %v", err)
		} else {
			inputs.WeatherText = forecast.Summary()
			inputs.Temperature = &forecast.MaxTemp
		}
	}

	if s.music != nil {
		features, err := s.music.RecentFeatures(ctx)
		if err != nil {
			log.Printf("Music features unavailable, using neutral: %v", err)
		}
		inputs.Music = features
	}

	return inputs
}

func marshalReport(report *mood.Report) string {
	data, err := json.Marshal(report)
	if err != nil {
		log.Printf("Error serializing report: %v", err)
		return "{}"
	}
	return string(data)
}
