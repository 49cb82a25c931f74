package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jmottin/moodcast-server/internal/config"
	"github.com/jmottin/moodcast-server/internal/db"
	"github.com/jmottin/moodcast-server/internal/models"
	"github.com/jmottin/moodcast-server/internal/mood"
	"github.com/jmottin/moodcast-server/internal/weights"
)

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
		Code:  code,
	})
}

type Handlers struct {
	cfg     *config.Config
	db      *db.DB
	engine  *mood.Engine
	tracker *weights.Tracker
	loc     *time.Location
}

func NewHandlers(cfg *config.Config, database *db.DB, engine *mood.Engine, tracker *weights.Tracker, loc *time.Location) *Handlers {
	if loc == nil {
		loc = time.UTC
	}
	return &Handlers{
		cfg:     cfg,
		db:      database,
		engine:  engine,
		tracker: tracker,
		loc:     loc,
	}
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:  "ok",
		DB:      h.checkDB(),
		Reports: h.checkReports(),
		Version: "1.0.0",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (h *Handlers) checkDB() string {
	if err := h.db.Ping(); err != nil {
		return "error: " + err.Error()
	}
	return "connected"
}

func (h *Handlers) checkReports() string {
	info, err := os.Stat(h.cfg.ReportsPath)
	if err != nil {
		return "error: " + err.Error()
	}
	if !info.IsDir() {
		return "error: not a directory"
	}
	return "writable"
}

// Infer handles POST /api/v1/mood/infer. The caller supplies the raw
// signals; the result is persisted so an outcome can be reported
// against it later.
func (h *Handlers) Infer(w http.ResponseWriter, r *http.Request) {
	var req models.InferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	segment := mood.Segment(req.TimeSegment)
	switch segment {
	case "", mood.SegmentMorning, mood.SegmentAfternoon, mood.SegmentEvening:
	default:
		writeError(w, http.StatusBadRequest, "unknown time_segment", "INVALID_SEGMENT")
		return
	}

	music := mood.MusicFeatures{
		Valence:      req.Valence,
		Energy:       req.Energy,
		Tempo:        req.Tempo,
		Danceability: req.Danceability,
	}
	// An all-zero feature set means no listening data was supplied.
	if music == (mood.MusicFeatures{}) {
		music = mood.NeutralMusic
	}

	table, err := h.tracker.Current()
	if err != nil {
		log.Printf("Loading weight table failed, using defaults: %v", err)
		table = mood.DefaultWeights()
	}

	now := time.Now().In(h.loc)
	report := h.engine.Infer(mood.Inputs{
		Events:      req.Events,
		SleepHours:  req.SleepHours,
		Bedtime:     req.Bedtime,
		WakeTime:    req.WakeTime,
		WeatherText: req.WeatherText,
		Temperature: req.Temperature,
		Segment:     segment,
		Music:       music,
		Now:         now,
	}, table)

	var temperature float64
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	snap := weights.Snapshot{
		SleepHours:     req.SleepHours,
		MusicEnergy:    music.Energy,
		AgendaPressure: report.Sections[mood.SourceAgenda].Pressure,
		Temperature:    temperature,
		Hour:           now.Hour(),
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to serialize report", "ENCODE_ERROR")
		return
	}

	predictionID := uuid.NewString()
	if err := h.db.SavePrediction(db.PredictionRecord{
		ID:       predictionID,
		Slot:     report.Segment,
		TopMood:  report.TopMood,
		Report:   string(reportJSON),
		Snapshot: snap,
	}); err != nil {
		log.Printf("Failed to save prediction %s: %v", predictionID, err)
		writeError(w, http.StatusInternalServerError, "failed to save prediction", "DB_ERROR")
		return
	}

	// Remember the reported sleep so scheduled runs later today see it.
	if req.SleepHours > 0 {
		if err := h.db.SetSleep(db.SleepEntry{
			Day:      now.Format("2006-01-02"),
			Hours:    req.SleepHours,
			Bedtime:  req.Bedtime,
			WakeTime: req.WakeTime,
		}); err != nil {
			log.Printf("Failed to record sleep from inference %s: %v", predictionID, err)
		}
	}

	resp := models.InferResponse{
		PredictionID: predictionID,
		TopMood:      report.TopMood,
		Scores:       report.Scores,
		Sections:     report.Sections,
		Weights:      report.Weights,
		Timestamp:    report.Timestamp,
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Latest handles GET /api/v1/mood/latest
func (h *Handlers) Latest(w http.ResponseWriter, r *http.Request) {
	p, err := h.db.LatestPrediction()
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no predictions yet", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error", "DB_ERROR")
		return
	}

	var report mood.Report
	if err := json.Unmarshal([]byte(p.Report), &report); err != nil {
		writeError(w, http.StatusInternalServerError, "stored report is unreadable", "DECODE_ERROR")
		return
	}

	resp := models.LatestResponse{
		PredictionID: p.ID,
		ActualMood:   p.ActualMood,
		Report:       report,
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// History handles GET /api/v1/mood/history?limit=N
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", "INVALID_LIMIT")
			return
		}
		limit = n
	}
	if limit > 100 {
		limit = 100
	}

	records, err := h.db.RecentPredictions(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error", "DB_ERROR")
		return
	}

	summaries := make([]models.PredictionSummary, 0, len(records))
	for _, p := range records {
		summaries = append(summaries, models.PredictionSummary{
			PredictionID: p.ID,
			Slot:         p.Slot,
			TopMood:      p.TopMood,
			ActualMood:   p.ActualMood,
			CreatedAt:    p.CreatedAt,
		})
	}

	resp := models.HistoryResponse{Predictions: summaries}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Outcome handles POST /api/v1/mood/outcome. Reporting the actual mood
// feeds the adaptive weight tracker.
func (h *Handlers) Outcome(w http.ResponseWriter, r *http.Request) {
	var req models.OutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}
	if req.PredictionID == "" {
		writeError(w, http.StatusBadRequest, "prediction_id is required", "MISSING_ID")
		return
	}
	if !req.ActualMood.Valid() {
		writeError(w, http.StatusBadRequest, "unknown actual_mood", "INVALID_MOOD")
		return
	}

	p, err := h.db.GetPrediction(req.PredictionID)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "prediction not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error", "DB_ERROR")
		return
	}

	if _, err := h.db.SetActualMood(p.ID, req.ActualMood); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record outcome", "DB_ERROR")
		return
	}

	table, err := h.tracker.RecordOutcome(p.TopMood, req.ActualMood, p.Snapshot)
	if err != nil {
		log.Printf("Weight update failed for %s: %v", p.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to update weights", "TRACKER_ERROR")
		return
	}

	resp := models.OutcomeResponse{
		PredictionID: p.ID,
		Correct:      p.TopMood == req.ActualMood,
		Weights:      table,
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Sleep handles POST /api/v1/sleep
func (h *Handlers) Sleep(w http.ResponseWriter, r *http.Request) {
	var req models.SleepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}
	if req.Hours < 0 || req.Hours > 24 {
		writeError(w, http.StatusBadRequest, "hours must be between 0 and 24", "INVALID_HOURS")
		return
	}

	day := time.Now().In(h.loc).Format("2006-01-02")
	if err := h.db.SetSleep(db.SleepEntry{
		Day:      day,
		Hours:    req.Hours,
		Bedtime:  req.Bedtime,
		WakeTime: req.WakeTime,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record sleep", "DB_ERROR")
		return
	}

	resp := models.SleepResponse{Day: day, Hours: req.Hours}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Weights handles GET /api/v1/weights
func (h *Handlers) Weights(w http.ResponseWriter, r *http.Request) {
	table, err := h.tracker.Current()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load weights", "TRACKER_ERROR")
		return
	}

	resp := models.WeightsResponse{Weights: table}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
