package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/claude/massebuilder/internal/backup"
	"github.com/claude/massebuilder/internal/progress"
	"github.com/claude/massebuilder/internal/session"
	"github.com/claude/massebuilder/internal/timer"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	sessions *session.Store
	progress *progress.Log
	backup   *backup.Service
	timer    *timer.Manager
	events   *broker
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured. The save
// confirmation and timer expiry both surface on the event stream.
func New(sessions *session.Store, progressLog *progress.Log, backupSvc *backup.Service, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		sessions: sessions,
		progress: progressLog,
		backup:   backupSvc,
		events:   newBroker(),
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.timer = timer.New(s.events, log)
	sessions.OnSave(s.events.SessionSaved)
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run drives the rest timer's periodic tick until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	s.timer.Run(ctx)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/program", s.handleProgram)
	s.router.Get("/api/v1/program/{day}", s.handleProgramDay)
	s.router.Get("/api/v1/schedule", s.handleSchedule)

	s.router.Get("/api/v1/session", s.handleGetSession)
	s.router.Post("/api/v1/session/set", s.handleRecordSet)
	s.router.Post("/api/v1/session/gate", s.handleGateFlag)
	s.router.Post("/api/v1/session/notes", s.handleNotes)

	s.router.Get("/api/v1/week", s.handleGetWeek)
	s.router.Post("/api/v1/week", s.handleSwitchWeek)

	s.router.Get("/api/v1/plates", s.handlePlates)

	s.router.Get("/api/v1/timer", s.handleTimerStatus)
	s.router.Post("/api/v1/timer", s.handleTimerStart)
	s.router.Delete("/api/v1/timer", s.handleTimerCancel)

	s.router.Get("/api/v1/progress", s.handleGetProgress)
	s.router.Put("/api/v1/progress", s.handleSetMeasurement)
	s.router.Post("/api/v1/progress/photos", s.handlePhotoUpload)

	// Backup (API key required for restore when configured)
	s.router.Route("/api/v1/backup", func(r chi.Router) {
		r.Get("/export", s.handleBackupExport)
		ir := chi.Router(r)
		if s.apiKey != "" {
			ir = r.With(APIKeyAuth(s.apiKey))
		}
		ir.Post("/import", s.handleBackupImport)
	})

	s.router.Get("/api/v1/events", s.handleEvents)
}

// SetMCP mounts the MCP handler.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}

// SetFrontend mounts the embedded SPA filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
