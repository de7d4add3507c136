package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/claude/massebuilder/internal/backup"
)

const maxImportSize = 50 << 20 // restored stores carry base64 photos

func (s *Server) handleBackupExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.backup.ExportAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+backup.Filename(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleBackupImport(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading upload: " + err.Error()})
		return
	}

	restored, err := s.backup.ImportAll(r.Context(), payload)
	if err != nil {
		if errors.Is(err, backup.ErrInvalidPayload) {
			s.log.Warn("backup import rejected", "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid backup file"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.log.Info("backup restored", "keys", restored)
	writeJSON(w, http.StatusOK, map[string]int{"restored": restored})
}
