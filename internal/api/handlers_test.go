package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jmottin/moodcast-server/internal/config"
	"github.com/jmottin/moodcast-server/internal/db"
	"github.com/jmottin/moodcast-server/internal/mood"
	"github.com/jmottin/moodcast-server/internal/weights"
)

const testToken = "test_moodcast_token"

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tmpDir := t.TempDir()
	reportsPath := tmpDir + "/reports"
	dbPath := tmpDir + "/test.db"

	if err := os.MkdirAll(reportsPath, 0755); err != nil {
		t.Fatalf("creating reports dir: %v", err)
	}

	cfg := &config.Config{
		Port:        "0",
		DBPath:      dbPath,
		APIToken:    testToken,
		ReportsPath: reportsPath,
		Timezone:    "UTC",
	}

	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	engine := mood.NewEngine()
	tracker := weights.NewTracker(database)

	router := NewRouter(cfg, database, engine, tracker, time.UTC)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server
}

func doAuthed(t *testing.T, method, url, payload string) *http.Response {
	t.Helper()

	var body *bytes.Buffer
	if payload != "" {
		body = bytes.NewBufferString(payload)
	} else {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["db"] != "connected" {
		t.Errorf("expected db connected, got %v", body["db"])
	}
	if body["reports"] != "writable" {
		t.Errorf("expected reports writable, got %v", body["reports"])
	}
}

func TestInferRequiresAuth(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Post(server.URL+"/api/v1/mood/infer", "application/json",
		bytes.NewBufferString(`{"sleep_hours":7.5}`))
	if err != nil {
		t.Fatalf("POST /mood/infer: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401 without auth, got %d", resp.StatusCode)
	}
}

func TestInvalidToken(t *testing.T) {
	server := setupTestServer(t)

	req, _ := http.NewRequest("GET", server.URL+"/api/v1/weights", nil)
	req.Header.Set("Authorization", "Bearer wrong_token")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /weights: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401 with invalid token, got %d", resp.StatusCode)
	}
}

func TestInferCriticalSleep(t *testing.T) {
	server := setupTestServer(t)

	resp := doAuthed(t, "POST", server.URL+"/api/v1/mood/infer", `{"sleep_hours":5.0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["prediction_id"] == nil || body["prediction_id"] == "" {
		t.Error("expected a prediction_id in response")
	}
	if body["top_mood"] != "tired" {
		t.Errorf("top mood = %v, want tired after a 5h night", body["top_mood"])
	}

	scores, ok := body["scores"].(map[string]interface{})
	if !ok {
		t.Fatal("expected a scores map in response")
	}
	if len(scores) != 9 {
		t.Errorf("scores has %d categories, want 9", len(scores))
	}
}

func TestInferRejectsBadSegment(t *testing.T) {
	server := setupTestServer(t)

	resp := doAuthed(t, "POST", server.URL+"/api/v1/mood/infer", `{"time_segment":"MIDNIGHT"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown segment, got %d", resp.StatusCode)
	}
}

func TestLatestEmpty(t *testing.T) {
	server := setupTestServer(t)

	resp := doAuthed(t, "GET", server.URL+"/api/v1/mood/latest", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404 with no predictions, got %d", resp.StatusCode)
	}
}

func TestLatestAfterInfer(t *testing.T) {
	server := setupTestServer(t)

	infer := doAuthed(t, "POST", server.URL+"/api/v1/mood/infer", `{"sleep_hours":8.5,"weather_text":"grand soleil"}`)
	inferBody := decodeBody(t, infer)
	wantID := inferBody["prediction_id"]

	resp := doAuthed(t, "GET", server.URL+"/api/v1/mood/latest", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["prediction_id"] != wantID {
		t.Errorf("latest prediction_id = %v, want %v", body["prediction_id"], wantID)
	}

	report, ok := body["report"].(map[string]interface{})
	if !ok {
		t.Fatal("expected a report object in response")
	}
	if report["top_mood"] != inferBody["top_mood"] {
		t.Errorf("stored top mood = %v, want %v", report["top_mood"], inferBody["top_mood"])
	}
}

func TestHistoryEndpoint(t *testing.T) {
	server := setupTestServer(t)

	doAuthed(t, "POST", server.URL+"/api/v1/mood/infer", `{"sleep_hours":8.5}`).Body.Close()
	doAuthed(t, "POST", server.URL+"/api/v1/mood/infer", `{"sleep_hours":5.0}`).Body.Close()

	resp := doAuthed(t, "GET", server.URL+"/api/v1/mood/history?limit=10", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	predictions, ok := body["predictions"].([]interface{})
	if !ok {
		t.Fatal("expected a predictions array in response")
	}
	if len(predictions) != 2 {
		t.Errorf("history has %d entries, want 2", len(predictions))
	}
}

func TestHistoryRejectsBadLimit(t *testing.T) {
	server := setupTestServer(t)

	resp := doAuthed(t, "GET", server.URL+"/api/v1/mood/history?limit=zero", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400 for non-numeric limit, got %d", resp.StatusCode)
	}
}

func TestOutcomeFlow(t *testing.T) {
	server := setupTestServer(t)

	infer := doAuthed(t, "POST", server.URL+"/api/v1/mood/infer", `{"sleep_hours":5.0}`)
	inferBody := decodeBody(t, infer)
	predictionID := inferBody["prediction_id"].(string)

	payload := `{"prediction_id":"` + predictionID + `","actual_mood":"tired"}`
	resp := doAuthed(t, "POST", server.URL+"/api/v1/mood/outcome", payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["correct"] != true {
		t.Errorf("correct = %v, want true for a matching outcome", body["correct"])
	}

	tableRaw, ok := body["weights"].(map[string]interface{})
	if !ok {
		t.Fatal("expected a weights map in response")
	}
	if len(tableRaw) != 5 {
		t.Errorf("weights has %d sources, want 5", len(tableRaw))
	}
}

func TestOutcomeUnknownPrediction(t *testing.T) {
	server := setupTestServer(t)

	resp := doAuthed(t, "POST", server.URL+"/api/v1/mood/outcome",
		`{"prediction_id":"no-such-id","actual_mood":"chill"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown prediction, got %d", resp.StatusCode)
	}
}

func TestOutcomeRejectsUnknownMood(t *testing.T) {
	server := setupTestServer(t)

	resp := doAuthed(t, "POST", server.URL+"/api/v1/mood/outcome",
		`{"prediction_id":"whatever","actual_mood":"ecstatic"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400 for unknown mood, got %d", resp.StatusCode)
	}
}

func TestSleepEndpoint(t *testing.T) {
	server := setupTestServer(t)

	resp := doAuthed(t, "POST", server.URL+"/api/v1/sleep", `{"hours":7.5,"bedtime":"23:30","wake_time":"07:00"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["hours"] != 7.5 {
		t.Errorf("hours = %v, want 7.5", body["hours"])
	}
	if body["day"] == nil || body["day"] == "" {
		t.Error("expected a day in response")
	}
}

func TestSleepRejectsBadHours(t *testing.T) {
	server := setupTestServer(t)

	resp := doAuthed(t, "POST", server.URL+"/api/v1/sleep", `{"hours":30}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400 for out-of-range hours, got %d", resp.StatusCode)
	}
}

func TestWeightsEndpoint(t *testing.T) {
	server := setupTestServer(t)

	resp := doAuthed(t, "GET", server.URL+"/api/v1/weights", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	table, ok := body["weights"].(map[string]interface{})
	if !ok {
		t.Fatal("expected a weights map in response")
	}
	if table["agenda"] != 0.35 {
		t.Errorf("agenda weight = %v, want default 0.35", table["agenda"])
	}
	if table["time"] != 0.05 {
		t.Errorf("time weight = %v, want default 0.05", table["time"])
	}
}
