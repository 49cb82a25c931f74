package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jmottin/moodcast-server/internal/mood"
	"github.com/jmottin/moodcast-server/internal/weights"
)

const schema = `
-- Source weight table, one row per source.
-- Missing or invalid rows are substituted with defaults by the caller.
CREATE TABLE IF NOT EXISTS source_weights (
    source TEXT PRIMARY KEY,
    weight REAL NOT NULL,
    updated_at TEXT NOT NULL
);

-- Prediction history. The numeric snapshot columns feed the adaptive
-- weight tracker when an outcome arrives for the prediction.
CREATE TABLE IF NOT EXISTS predictions (
    prediction_id TEXT PRIMARY KEY,
    slot TEXT NOT NULL,
    top_mood TEXT NOT NULL,
    report TEXT NOT NULL,
    sleep_hours REAL NOT NULL DEFAULT 0,
    music_energy REAL NOT NULL DEFAULT 0,
    agenda_pressure REAL NOT NULL DEFAULT 0,
    temperature REAL NOT NULL DEFAULT 0,
    hour INTEGER NOT NULL DEFAULT 0,
    actual_mood TEXT,
    created_at TEXT NOT NULL
);

-- Prediction-vs-actual outcomes, trimmed to the tracker's ring size.
CREATE TABLE IF NOT EXISTS outcomes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    predicted TEXT NOT NULL,
    actual TEXT NOT NULL,
    correct INTEGER NOT NULL,
    sleep_hours REAL NOT NULL DEFAULT 0,
    music_energy REAL NOT NULL DEFAULT 0,
    agenda_pressure REAL NOT NULL DEFAULT 0,
    temperature REAL NOT NULL DEFAULT 0,
    hour INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);

-- Self-reported sleep, one row per calendar day.
CREATE TABLE IF NOT EXISTS sleep_log (
    day TEXT PRIMARY KEY,
    hours REAL NOT NULL,
    bedtime TEXT,
    wake_time TEXT,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_created ON predictions(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_outcomes_created ON outcomes(created_at DESC);
`

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Ping() error {
	return db.conn.Ping()
}

// ============== Weight table (weights.Store) ==============

// LoadWeights returns the stored weight table. An empty table is
// returned as an empty map; the caller sanitizes.
func (db *DB) LoadWeights() (mood.SourceWeights, error) {
	rows, err := db.conn.Query(`SELECT source, weight FROM source_weights`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	w := mood.SourceWeights{}
	for rows.Next() {
		var source string
		var weight float64
		if err := rows.Scan(&source, &weight); err != nil {
			return nil, err
		}
		w[source] = weight
	}
	return w, rows.Err()
}

// SaveWeights upserts the whole table in one transaction.
func (db *DB) SaveWeights(w mood.SourceWeights) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, source := range mood.Sources {
		if _, err := tx.Exec(`
			INSERT INTO source_weights (source, weight, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(source) DO UPDATE SET weight = excluded.weight, updated_at = excluded.updated_at
		`, source, w[source], now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AppendOutcome stores one outcome and trims the table to the ring
// buffer size.
func (db *DB) AppendOutcome(o weights.Outcome) error {
	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := db.conn.Exec(`
		INSERT INTO outcomes (predicted, actual, correct, sleep_hours, music_energy, agenda_pressure, temperature, hour, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, string(o.Predicted), string(o.Actual), boolToInt(o.Correct),
		o.Snapshot.SleepHours, o.Snapshot.MusicEnergy, o.Snapshot.AgendaPressure,
		o.Snapshot.Temperature, o.Snapshot.Hour, createdAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	_, err = db.conn.Exec(`
		DELETE FROM outcomes WHERE id NOT IN (
			SELECT id FROM outcomes ORDER BY id DESC LIMIT ?
		)
	`, weights.MaxOutcomes)
	return err
}

// RecentOutcomes returns up to limit newest outcomes, oldest first.
func (db *DB) RecentOutcomes(limit int) ([]weights.Outcome, error) {
	rows, err := db.conn.Query(`
		SELECT predicted, actual, correct, sleep_hours, music_energy, agenda_pressure, temperature, hour, created_at
		FROM outcomes ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []weights.Outcome
	for rows.Next() {
		var o weights.Outcome
		var predicted, actual, createdStr string
		var correct int
		if err := rows.Scan(&predicted, &actual, &correct,
			&o.Snapshot.SleepHours, &o.Snapshot.MusicEnergy, &o.Snapshot.AgendaPressure,
			&o.Snapshot.Temperature, &o.Snapshot.Hour, &createdStr); err != nil {
			return nil, err
		}
		o.Predicted = mood.Category(predicted)
		o.Actual = mood.Category(actual)
		o.Correct = correct != 0
		o.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		out = append(out, o)
	}
	// Newest-first from the query; reverse to oldest-first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
