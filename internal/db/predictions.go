package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmottin/moodcast-server/internal/mood"
	"github.com/jmottin/moodcast-server/internal/weights"
)

// ErrNotFound is returned when a prediction ID is unknown.
var ErrNotFound = errors.New("not found")

// PredictionRecord is one stored inference run. Report holds the full
// serialized mood.Report; Snapshot keeps the numeric inputs the
// tracker buckets on.
type PredictionRecord struct {
	ID         string
	Slot       mood.Segment
	TopMood    mood.Category
	Report     string
	Snapshot   weights.Snapshot
	ActualMood mood.Category // empty until an outcome is reported
	CreatedAt  time.Time
}

// SavePrediction stores one inference run.
func (db *DB) SavePrediction(p PredictionRecord) error {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := db.conn.Exec(`
		INSERT INTO predictions (prediction_id, slot, top_mood, report, sleep_hours, music_energy, agenda_pressure, temperature, hour, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, string(p.Slot), string(p.TopMood), p.Report,
		p.Snapshot.SleepHours, p.Snapshot.MusicEnergy, p.Snapshot.AgendaPressure,
		p.Snapshot.Temperature, p.Snapshot.Hour, createdAt.Format(time.RFC3339))
	return err
}

// GetPrediction returns one prediction by ID, or ErrNotFound.
func (db *DB) GetPrediction(id string) (*PredictionRecord, error) {
	row := db.conn.QueryRow(`
		SELECT prediction_id, slot, top_mood, report, sleep_hours, music_energy, agenda_pressure, temperature, hour, actual_mood, created_at
		FROM predictions WHERE prediction_id = ?
	`, id)
	return scanPrediction(row)
}

// LatestPrediction returns the most recent prediction, or ErrNotFound
// when none exists yet.
func (db *DB) LatestPrediction() (*PredictionRecord, error) {
	row := db.conn.QueryRow(`
		SELECT prediction_id, slot, top_mood, report, sleep_hours, music_energy, agenda_pressure, temperature, hour, actual_mood, created_at
		FROM predictions ORDER BY created_at DESC, prediction_id DESC LIMIT 1
	`)
	return scanPrediction(row)
}

// RecentPredictions returns up to limit predictions, newest first.
func (db *DB) RecentPredictions(limit int) ([]PredictionRecord, error) {
	rows, err := db.conn.Query(`
		SELECT prediction_id, slot, top_mood, report, sleep_hours, music_energy, agenda_pressure, temperature, hour, actual_mood, created_at
		FROM predictions ORDER BY created_at DESC, prediction_id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PredictionRecord
	for rows.Next() {
		p, err := scanPredictionRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// SetActualMood records the user-confirmed mood for a prediction.
// Returns false when the prediction does not exist.
func (db *DB) SetActualMood(id string, actual mood.Category) (bool, error) {
	result, err := db.conn.Exec(`
		UPDATE predictions SET actual_mood = ? WHERE prediction_id = ?
	`, string(actual), id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func scanPrediction(row *sql.Row) (*PredictionRecord, error) {
	p, err := scanPredictionRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

func scanPredictionRow(scan func(...any) error) (*PredictionRecord, error) {
	var p PredictionRecord
	var slot, top, createdStr string
	var actual sql.NullString
	if err := scan(&p.ID, &slot, &top, &p.Report,
		&p.Snapshot.SleepHours, &p.Snapshot.MusicEnergy, &p.Snapshot.AgendaPressure,
		&p.Snapshot.Temperature, &p.Snapshot.Hour, &actual, &createdStr); err != nil {
		return nil, err
	}
	p.Slot = mood.Segment(slot)
	p.TopMood = mood.Category(top)
	if actual.Valid {
		p.ActualMood = mood.Category(actual.String)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return &p, nil
}

// ============== Sleep log ==============

// SleepEntry is one self-reported night of sleep.
type SleepEntry struct {
	Day      string
	Hours    float64
	Bedtime  string
	WakeTime string
}

// SetSleep upserts the sleep entry for a day ("2006-01-02").
func (db *DB) SetSleep(e SleepEntry) error {
	_, err := db.conn.Exec(`
		INSERT INTO sleep_log (day, hours, bedtime, wake_time, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET hours = excluded.hours, bedtime = excluded.bedtime,
			wake_time = excluded.wake_time, updated_at = excluded.updated_at
	`, e.Day, e.Hours, e.Bedtime, e.WakeTime, time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetSleep returns the sleep entry for a day. A missing day yields a
// zero-hours entry: the engine's valid no-data state, not an error.
func (db *DB) GetSleep(day string) (SleepEntry, error) {
	var e SleepEntry
	var bedtime, wakeTime sql.NullString
	err := db.conn.QueryRow(`
		SELECT day, hours, bedtime, wake_time FROM sleep_log WHERE day = ?
	`, day).Scan(&e.Day, &e.Hours, &bedtime, &wakeTime)
	if err == sql.ErrNoRows {
		return SleepEntry{Day: day}, nil
	}
	if err != nil {
		return SleepEntry{}, err
	}
	e.Bedtime = bedtime.String
	e.WakeTime = wakeTime.String
	return e, nil
}
