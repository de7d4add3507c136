package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/claude/massebuilder/internal/overload"
	"github.com/claude/massebuilder/internal/program"
	"github.com/claude/massebuilder/internal/session"
)

type setView struct {
	Key string `json:"key"`
	session.SetRecord
	Target overload.Reference `json:"target"`
	Status overload.Status    `json:"status"`
}

type exerciseView struct {
	program.Exercise
	Records []setView `json:"records"`
}

// handleGetSession returns the composite view the shell renders: the
// current session, each set's reference target and overload status, and
// the session volume.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	day := program.Day(r.URL.Query().Get("day"))
	if day == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day parameter required"})
		return
	}

	week, ok := s.weekParam(w, r)
	if !ok {
		return
	}

	current, err := s.sessions.Load(r.Context(), day, week)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	previous, err := s.sessions.LoadPrevious(r.Context(), day, week)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	exercises := make([]exerciseView, 0, len(program.Exercises(day)))
	for _, ex := range program.Exercises(day) {
		ev := exerciseView{Exercise: ex, Records: make([]setView, 0, ex.Sets)}
		for i := 0; i < ex.Sets; i++ {
			key := session.SetKey(ex.ID, i)
			rec := session.DecodeSet(current.Exercises[key])
			target := overload.ResolveReference(previous, ex.ID, i)
			ev.Records = append(ev.Records, setView{
				Key:       key,
				SetRecord: rec,
				Target:    target,
				Status:    overload.Classify(rec.Reps, target.Reps),
			})
		}
		exercises = append(exercises, ev)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"day":       day,
		"week":      week,
		"session":   current,
		"exercises": exercises,
		"volume":    overload.TotalVolume(current.Exercises),
	})
}

func (s *Server) handleRecordSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Day        string `json:"day"`
		Week       int    `json:"week"`
		ExerciseID string `json:"exerciseId"`
		SetIndex   int    `json:"setIndex"`
		Field      string `json:"field"`
		Value      string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Day == "" || req.ExerciseID == "" || req.SetIndex < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day, exerciseId and setIndex are required"})
		return
	}

	week, ok := s.resolveWeek(w, r, req.Week)
	if !ok {
		return
	}

	updated, err := s.sessions.RecordSet(r.Context(), program.Day(req.Day), week,
		req.ExerciseID, req.SetIndex, session.Field(req.Field), req.Value)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"exercises": updated.Exercises,
		"volume":    overload.TotalVolume(updated.Exercises),
	})
}

func (s *Server) handleGateFlag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Day  string `json:"day"`
		Week int    `json:"week"`
		Done bool   `json:"done"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Day == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day is required"})
		return
	}

	week, ok := s.resolveWeek(w, r, req.Week)
	if !ok {
		return
	}

	if err := s.sessions.SetGateFlag(r.Context(), program.Day(req.Day), week, req.Done); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"done": req.Done})
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Day   string `json:"day"`
		Week  int    `json:"week"`
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Day == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day is required"})
		return
	}

	week, ok := s.resolveWeek(w, r, req.Week)
	if !ok {
		return
	}

	if err := s.sessions.SetNotes(r.Context(), program.Day(req.Day), week, req.Notes); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// weekParam reads the optional week query parameter, falling back to the
// persisted current week. Writes the error response itself on failure.
func (s *Server) weekParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("week")
	if raw == "" {
		return s.resolveWeek(w, r, 0)
	}
	week, err := strconv.Atoi(raw)
	if err != nil || week < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week must be a positive integer"})
		return 0, false
	}
	return week, true
}

// resolveWeek substitutes the persisted current week when the request
// left it unset.
func (s *Server) resolveWeek(w http.ResponseWriter, r *http.Request, week int) (int, bool) {
	if week >= 1 {
		return week, true
	}
	current, err := s.sessions.CurrentWeek(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return 0, false
	}
	return current, true
}
