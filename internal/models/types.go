package models

import (
	"time"

	"github.com/jmottin/moodcast-server/internal/mood"
)

// InferRequest carries the raw signals for an on-demand inference.
// Fields left at their zero value degrade gracefully: no events, no
// weather, zero sleep hours (the engine's no-data state).
type InferRequest struct {
	Events       []mood.Event `json:"events"`
	SleepHours   float64      `json:"sleep_hours"`
	Bedtime      string       `json:"bedtime,omitempty"`
	WakeTime     string       `json:"wake_time,omitempty"`
	WeatherText  string       `json:"weather_text"`
	Temperature  *float64     `json:"temperature,omitempty"`
	TimeSegment  string       `json:"time_segment,omitempty"` // MATIN | APRES_MIDI | SOIREE
	Valence      float64      `json:"valence"`
	Energy       float64      `json:"energy"`
	Tempo        int          `json:"tempo"`
	Danceability float64      `json:"danceability"`
}

// InferResponse is the inference result.
type InferResponse struct {
	PredictionID string                    `json:"prediction_id"`
	TopMood      mood.Category             `json:"top_mood"`
	Scores       map[mood.Category]float64 `json:"scores"`
	Sections     map[string]mood.Section   `json:"sections"`
	Weights      mood.SourceWeights        `json:"weights"`
	Timestamp    time.Time                 `json:"timestamp"`
}

// LatestResponse wraps the most recent stored report.
type LatestResponse struct {
	PredictionID string        `json:"prediction_id"`
	ActualMood   mood.Category `json:"actual_mood,omitempty"`
	Report       mood.Report   `json:"report"`
}

// PredictionSummary is one history entry.
type PredictionSummary struct {
	PredictionID string        `json:"prediction_id"`
	Slot         mood.Segment  `json:"slot"`
	TopMood      mood.Category `json:"top_mood"`
	ActualMood   mood.Category `json:"actual_mood,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// HistoryResponse is returned by the history endpoint.
type HistoryResponse struct {
	Predictions []PredictionSummary `json:"predictions"`
}

// OutcomeRequest reports the user-confirmed mood for a prediction.
type OutcomeRequest struct {
	PredictionID string        `json:"prediction_id"`
	ActualMood   mood.Category `json:"actual_mood"`
}

// OutcomeResponse returns the weight table in effect after the update.
type OutcomeResponse struct {
	PredictionID string             `json:"prediction_id"`
	Correct      bool               `json:"correct"`
	Weights      mood.SourceWeights `json:"weights"`
}

// SleepRequest records last night's sleep for today's scheduled runs.
type SleepRequest struct {
	Hours    float64 `json:"hours"`
	Bedtime  string  `json:"bedtime,omitempty"`
	WakeTime string  `json:"wake_time,omitempty"`
}

// SleepResponse echoes the recorded day and hours.
type SleepResponse struct {
	Day   string  `json:"day"`
	Hours float64 `json:"hours"`
}

// WeightsResponse exposes the current weight table.
type WeightsResponse struct {
	Weights mood.SourceWeights `json:"weights"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	DB      string `json:"db"`
	Reports string `json:"reports"`
	Version string `json:"version"`
}
