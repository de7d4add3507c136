package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/massebuilder/internal/backup"
	"github.com/claude/massebuilder/internal/progress"
	"github.com/claude/massebuilder/internal/session"
	"github.com/claude/massebuilder/internal/store"
)

func newTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	kv := store.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.New(kv, log)
	progressLog := progress.New(kv, log)
	return New(sessions, progressLog, backup.New(kv), apiKey, log)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestProgramEndpoint verifies the full plan payload carries the three
// training days.
func TestProgramEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	rec := doJSON(t, s, http.MethodGet, "/api/v1/program", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Days []string                     `json:"days"`
		Plan map[string][]json.RawMessage `json:"plan"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(resp.Days) != 3 {
		t.Errorf("days = %v, want 3 entries", resp.Days)
	}
	if len(resp.Plan["lundi"]) == 0 {
		t.Error("plan has no lundi exercises")
	}
}

// TestProgramDayUnknown verifies an unknown day yields an empty list, not
// an error, so the client renders an empty tab.
func TestProgramDayUnknown(t *testing.T) {
	s := newTestServer(t, "")
	rec := doJSON(t, s, http.MethodGet, "/api/v1/program/dimanche", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var exercises []json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&exercises); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(exercises) != 0 {
		t.Errorf("exercises = %v, want empty", exercises)
	}
}

// TestRecordSetAndSessionView verifies the record-then-read flow: a set
// logged through the API shows up in the composite session view with its
// overload status and the session volume.
func TestRecordSetAndSessionView(t *testing.T) {
	s := newTestServer(t, "")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/session/set",
		`{"day":"lundi","week":1,"exerciseId":"lun-1","setIndex":0,"field":"weight","value":"50"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set weight status = %d, want 200: %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/set",
		`{"day":"lundi","week":1,"exerciseId":"lun-1","setIndex":0,"field":"reps","value":"16"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set reps status = %d, want 200: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/session?day=lundi&week=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("session status = %d, want 200", rec.Code)
	}

	var resp struct {
		Week      int     `json:"week"`
		Volume    float64 `json:"volume"`
		Exercises []struct {
			ID      string `json:"id"`
			Records []struct {
				Key    string `json:"key"`
				Weight string `json:"weight"`
				Reps   string `json:"reps"`
				Status string `json:"status"`
				Target struct {
					Weight string `json:"weight"`
					Reps   string `json:"reps"`
				} `json:"target"`
			} `json:"records"`
		} `json:"exercises"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Volume != 800 {
		t.Errorf("volume = %v, want 800", resp.Volume)
	}

	var found bool
	for _, ex := range resp.Exercises {
		if ex.ID != "lun-1" {
			continue
		}
		found = true
		if len(ex.Records) != 4 {
			t.Fatalf("lun-1 records = %d, want 4 (one per planned set)", len(ex.Records))
		}
		r := ex.Records[0]
		if r.Key != "lun-1-s0" || r.Weight != "50" || r.Reps != "16" {
			t.Errorf("record = %+v, want lun-1-s0 50x16", r)
		}
		// Week 1: baseline 10 kg x 15 is the target; 16 reps beats it.
		if r.Target.Weight != "10" || r.Target.Reps != "15" {
			t.Errorf("target = %+v, want baseline 10x15", r.Target)
		}
		if r.Status != "improved" {
			t.Errorf("status = %q, want improved", r.Status)
		}
		if ex.Records[1].Status != "none" {
			t.Errorf("untouched set status = %q, want none", ex.Records[1].Status)
		}
	}
	if !found {
		t.Fatal("lun-1 missing from session view")
	}
}

// TestRecordSetValidation verifies malformed set submissions are
// rejected.
func TestRecordSetValidation(t *testing.T) {
	s := newTestServer(t, "")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/session/set", `{bad json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/set",
		`{"day":"lundi","week":1,"exerciseId":"lun-1","setIndex":0,"field":"rpe","value":"9"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/set",
		`{"week":1,"exerciseId":"lun-1","setIndex":0,"field":"reps","value":"9"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing day status = %d, want 400", rec.Code)
	}
}

// TestWeekSwitchClamp verifies the week endpoints and the floor at 1.
func TestWeekSwitchClamp(t *testing.T) {
	s := newTestServer(t, "")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/week", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]int
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["week"] != 1 {
		t.Errorf("initial week = %d, want 1", resp["week"])
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/week", `{"delta":3}`)
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["week"] != 4 {
		t.Errorf("after +3: week = %d, want 4", resp["week"])
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/week", `{"delta":-10}`)
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["week"] != 1 {
		t.Errorf("after -10: week = %d, want clamp to 1", resp["week"])
	}
}

// TestPlatesEndpoint verifies the breakdown payload and the parameter
// validation.
func TestPlatesEndpoint(t *testing.T) {
	s := newTestServer(t, "")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/plates?total=60", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Total   float64 `json:"total"`
		Bar     float64 `json:"bar"`
		PerSide float64 `json:"perSide"`
		Plates  []struct {
			Weight float64 `json:"weight"`
			Count  int     `json:"count"`
		} `json:"plates"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Bar != 20 || resp.PerSide != 20 {
		t.Errorf("bar = %v, perSide = %v, want 20 and 20", resp.Bar, resp.PerSide)
	}
	if len(resp.Plates) != 1 || resp.Plates[0].Weight != 20 || resp.Plates[0].Count != 1 {
		t.Errorf("plates = %+v, want one 20", resp.Plates)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/plates", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing total status = %d, want 400", rec.Code)
	}
}

// TestTimerEndpoints verifies the start/status/cancel cycle over HTTP,
// including the rest-time lookup by exercise.
func TestTimerEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/timer", "")
	var status struct {
		Running   bool `json:"running"`
		Remaining int  `json:"remaining"`
	}
	json.NewDecoder(rec.Body).Decode(&status)
	if status.Running || status.Remaining != 0 {
		t.Errorf("initial status = %+v, want idle", status)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/timer", `{"seconds":60}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, want 200", rec.Code)
	}
	json.NewDecoder(rec.Body).Decode(&status)
	if !status.Running || status.Remaining <= 0 {
		t.Errorf("after start = %+v, want running with time left", status)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/timer", "")
	json.NewDecoder(rec.Body).Decode(&status)
	if status.Running || status.Remaining != 0 {
		t.Errorf("after cancel = %+v, want idle", status)
	}

	// Start by exercise: lun-3 rests 120 seconds.
	rec = doJSON(t, s, http.MethodPost, "/api/v1/timer", `{"exerciseId":"lun-3"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("start by exercise status = %d, want 200", rec.Code)
	}
	json.NewDecoder(rec.Body).Decode(&status)
	if !status.Running || status.Remaining < 119 || status.Remaining > 120 {
		t.Errorf("after exercise start = %+v, want about 120s", status)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/timer", `{"seconds":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero seconds status = %d, want 400", rec.Code)
	}
}

// TestProgressEndpoints verifies the measurement read/update flow.
func TestProgressEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	rec := doJSON(t, s, http.MethodPut, "/api/v1/progress", `{"field":"poids","value":"82.5"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, want 200: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/progress", "")
	var profile struct {
		Weight string `json:"poids"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if profile.Weight != "82.5" {
		t.Errorf("poids = %q, want 82.5", profile.Weight)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/v1/progress", `{"field":"biceps","value":"40"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", rec.Code)
	}
}

// TestBackupExportAndReimport verifies the export filename, payload
// shape, and that the payload restores through the import endpoint.
func TestBackupExportAndReimport(t *testing.T) {
	s := newTestServer(t, "")

	doJSON(t, s, http.MethodPost, "/api/v1/session/set",
		`{"day":"lundi","week":1,"exerciseId":"lun-1","setIndex":0,"field":"weight","value":"50"}`)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/backup/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d, want 200", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "MasseBuilder_") {
		t.Errorf("Content-Disposition = %q, want dated MasseBuilder filename", cd)
	}
	payload := rec.Body.String()

	fresh := newTestServer(t, "")
	rec = doJSON(t, fresh, http.MethodPost, "/api/v1/backup/import", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var result map[string]int
	json.NewDecoder(rec.Body).Decode(&result)
	if result["restored"] == 0 {
		t.Error("restored = 0, want at least one key")
	}

	rec = doJSON(t, fresh, http.MethodGet, "/api/v1/session?day=lundi&week=1", "")
	if !strings.Contains(rec.Body.String(), "50|") {
		t.Error("restored session does not contain the recorded set")
	}
}

// TestBackupImportMalformed verifies a payload that fails to parse is
// rejected with a 400.
func TestBackupImportMalformed(t *testing.T) {
	s := newTestServer(t, "")
	rec := doJSON(t, s, http.MethodPost, "/api/v1/backup/import", "not json at all")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestBackupImportAPIKey verifies the optional API key gate on restore:
// missing key 401, wrong key 403, right key accepted. Export stays open.
func TestBackupImportAPIKey(t *testing.T) {
	s := newTestServer(t, "secret")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/backup/import", `{"currentWeek":"2"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/backup/import", strings.NewReader(`{"currentWeek":"2"}`))
	req.Header.Set("X-API-Key", "wrong")
	rec2 := httptest.NewRecorder()
	s.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec2.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/backup/import", strings.NewReader(`{"currentWeek":"2"}`))
	req.Header.Set("X-API-Key", "secret")
	rec3 := httptest.NewRecorder()
	s.ServeHTTP(rec3, req)
	if rec3.Code != http.StatusOK {
		t.Errorf("right key status = %d, want 200: %s", rec3.Code, rec3.Body)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/backup/export", "")
	if rec.Code != http.StatusOK {
		t.Errorf("export status = %d, want 200 without a key", rec.Code)
	}
}

// TestScheduleEndpoint verifies the preselection payload shape.
func TestScheduleEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	rec := doJSON(t, s, http.MethodGet, "/api/v1/schedule", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Day  string `json:"day"`
		Week int    `json:"week"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Day == "" {
		t.Error("day is empty")
	}
	if resp.Week < 1 {
		t.Errorf("week = %d, want >= 1", resp.Week)
	}
}
