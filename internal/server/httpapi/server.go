// Package httpapi exposes the note service over HTTP. The handlers are thin
// plumbing: they parse requests, call the service layer, and map outcomes to
// status codes (absence to 404, storage failures to a generic 500).
package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/onorbumbum/noteshare.space/internal/logging"
	"github.com/onorbumbum/noteshare.space/internal/server/config"
	"github.com/onorbumbum/noteshare.space/internal/server/models"
)

// NoteService is the slice of the service layer the HTTP API depends on.
type NoteService interface {
	CreateNote(ctx context.Context, note *models.Note, embeds []*models.Embed) (*models.Note, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)
	GetEmbed(ctx context.Context, noteID, embedID string) (*models.Embed, error)
	DeleteNotes(ctx context.Context, ids []string) (int64, error)
}

type Server struct {
	notes  NoteService
	db     *sql.DB
	logger logging.Logger
	config *config.Config
}

func NewServer(notes NoteService, db *sql.DB, logger logging.Logger, config *config.Config) *Server {
	return &Server{notes: notes, db: db, logger: logger, config: config}
}

// Router sets up the HTTP routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/note", s.HandleCreateNote)
	mux.HandleFunc("GET /api/note/{id}", s.HandleGetNote)
	mux.HandleFunc("GET /api/note/{id}/embeds/{embed_id}", s.HandleGetEmbed)
	mux.HandleFunc("DELETE /api/note/{id}", s.HandleDeleteNote)

	mux.HandleFunc("GET /api/healthz", s.HandleHealthz)

	return mux
}
