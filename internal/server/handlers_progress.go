package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/claude/massebuilder/internal/imaging"
)

const maxPhotoUpload = 10 << 20 // 10 MiB before compression

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	profile, err := s.progress.Get(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSetMeasurement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	profile, err := s.progress.SetMeasurement(r.Context(), req.Field, req.Value)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handlePhotoUpload compresses an uploaded image and stores it under
// today's date, overwriting any earlier photo for the same day.
func (s *Server) handlePhotoUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUpload)
	file, _, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "photo file required"})
		return
	}
	defer file.Close()

	encoded, err := imaging.Compress(file)
	if err != nil {
		s.log.Warn("photo compression failed", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported image"})
		return
	}

	date := time.Now().Format("2006-01-02")
	if err := s.progress.AddPhoto(r.Context(), date, encoded); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date": date,
		"size": len(encoded),
	})
}
