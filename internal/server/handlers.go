package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/massebuilder/internal/plates"
	"github.com/claude/massebuilder/internal/program"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	days := program.TrainingDays()
	plan := make(map[program.Day][]program.Exercise, len(days))
	for _, d := range days {
		plan[d] = program.Exercises(d)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"days": days,
		"plan": plan,
	})
}

func (s *Server) handleProgramDay(w http.ResponseWriter, r *http.Request) {
	day := program.Day(chi.URLParam(r, "day"))
	exercises := program.Exercises(day)
	if exercises == nil {
		exercises = []program.Exercise{}
	}
	writeJSON(w, http.StatusOK, exercises)
}

// handleSchedule returns the tab and week to preselect for today.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	week, err := s.sessions.CurrentWeek(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"day":  program.DayForDate(time.Now()),
		"week": week,
	})
}

func (s *Server) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	week, err := s.sessions.CurrentWeek(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"week": week})
}

func (s *Server) handleSwitchWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	week, err := s.sessions.SwitchWeek(r.Context(), req.Delta)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"week": week})
}

func (s *Server) handlePlates(w http.ResponseWriter, r *http.Request) {
	total, err := strconv.ParseFloat(r.URL.Query().Get("total"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "total parameter required"})
		return
	}

	breakdown := plates.Breakdown(total)
	if breakdown == nil {
		breakdown = []plates.Plate{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":   total,
		"bar":     plates.BarWeight,
		"perSide": plates.PerSide(total),
		"plates":  breakdown,
	})
}

func (s *Server) handleTimerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"running":   s.timer.Running(),
		"remaining": s.timer.Remaining(),
	})
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seconds    int    `json:"seconds"`
		ExerciseID string `json:"exerciseId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	seconds := req.Seconds
	if seconds <= 0 && req.ExerciseID != "" {
		seconds = restTimeFor(req.ExerciseID)
	}
	if seconds <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "seconds must be positive"})
		return
	}

	s.timer.Start(seconds)
	writeJSON(w, http.StatusOK, map[string]any{
		"running":   true,
		"remaining": s.timer.Remaining(),
	})
}

func (s *Server) handleTimerCancel(w http.ResponseWriter, r *http.Request) {
	s.timer.Cancel()
	writeJSON(w, http.StatusOK, map[string]any{
		"running":   false,
		"remaining": 0,
	})
}

// restTimeFor looks up an exercise's configured rest time across the
// whole plan. 0 when unknown.
func restTimeFor(exerciseID string) int {
	for _, d := range program.TrainingDays() {
		for _, ex := range program.Exercises(d) {
			if ex.ID == exerciseID {
				return ex.RestTime
			}
		}
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
