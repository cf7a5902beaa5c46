package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/onorbumbum/noteshare.space/internal/server/models"
)

// CreateNoteRequest carries the client-encrypted payload. Ciphertext, hmac
// and crypto_version are opaque to the server and stored verbatim.
type CreateNoteRequest struct {
	Ciphertext    string         `json:"ciphertext"`
	HMAC          string         `json:"hmac"`
	CryptoVersion string         `json:"crypto_version"`
	TTLSeconds    int            `json:"ttl_seconds"`
	Embeds        []EmbedPayload `json:"embeds"`
}

type EmbedPayload struct {
	EmbedID    string `json:"embed_id"`
	Ciphertext string `json:"ciphertext"`
	HMAC       string `json:"hmac"`
}

type CreateNoteResponse struct {
	ID         string    `json:"id"`
	ViewURL    string    `json:"view_url"`
	ExpireTime time.Time `json:"expire_time"`
	InsertTime time.Time `json:"insert_time"`
}

type NoteResponse struct {
	ID            string    `json:"id"`
	Ciphertext    string    `json:"ciphertext"`
	HMAC          string    `json:"hmac"`
	CryptoVersion string    `json:"crypto_version"`
	ExpireTime    time.Time `json:"expire_time"`
	InsertTime    time.Time `json:"insert_time"`
}

type EmbedResponse struct {
	NoteID     string `json:"note_id"`
	EmbedID    string `json:"embed_id"`
	Ciphertext string `json:"ciphertext"`
	HMAC       string `json:"hmac"`
}

// clampTTL converts a requested TTL to a duration within configured bounds.
// Omitted or non-positive values fall back to the default lifetime.
func (s *Server) clampTTL(seconds int) time.Duration {
	if seconds <= 0 {
		return s.config.DefaultNoteTTL
	}
	d := time.Duration(seconds) * time.Second
	if d > s.config.MaxNoteTTL {
		return s.config.MaxNoteTTL
	}
	return d
}

// HandleCreateNote implements POST /api/note.
func (s *Server) HandleCreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxPayloadBytes)

	var req CreateNoteRequest
	if err := DecodeJSON(r, &req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "note too large")
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Ciphertext == "" || req.HMAC == "" {
		WriteError(w, http.StatusBadRequest, "ciphertext and hmac are required")
		return
	}
	for _, e := range req.Embeds {
		if e.EmbedID == "" || e.Ciphertext == "" || e.HMAC == "" {
			WriteError(w, http.StatusBadRequest, "embeds require embed_id, ciphertext and hmac")
			return
		}
	}
	if req.CryptoVersion == "" {
		req.CryptoVersion = "v1"
	}

	note := &models.Note{
		Ciphertext:    req.Ciphertext,
		HMAC:          req.HMAC,
		CryptoVersion: req.CryptoVersion,
		ExpireTime:    time.Now().UTC().Add(s.clampTTL(req.TTLSeconds)),
	}
	embeds := make([]*models.Embed, 0, len(req.Embeds))
	for _, e := range req.Embeds {
		embeds = append(embeds, &models.Embed{
			EmbedID:    e.EmbedID,
			Ciphertext: e.Ciphertext,
			HMAC:       e.HMAC,
		})
	}

	stored, err := s.notes.CreateNote(r.Context(), note, embeds)
	if err != nil {
		s.logger.Error(r.Context(), "failed to create note", "err", err)
		WriteError(w, http.StatusInternalServerError, "failed to create note")
		return
	}

	WriteJSON(w, http.StatusCreated, CreateNoteResponse{
		ID:         stored.ID,
		ViewURL:    s.config.BaseURL + "/note/" + stored.ID,
		ExpireTime: stored.ExpireTime,
		InsertTime: stored.InsertTime,
	})
}

// HandleGetNote implements GET /api/note/{id}. A note past its expiry reads
// as absent even before the sweeper has removed it.
func (s *Server) HandleGetNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	note, err := s.notes.GetNote(r.Context(), id)
	if err != nil {
		s.logger.Error(r.Context(), "failed to get note", "id", id, "err", err)
		WriteError(w, http.StatusInternalServerError, "database error")
		return
	}
	if note == nil || !note.ExpireTime.After(time.Now()) {
		WriteError(w, http.StatusNotFound, "note not found")
		return
	}

	WriteJSON(w, http.StatusOK, NoteResponse{
		ID:            note.ID,
		Ciphertext:    note.Ciphertext,
		HMAC:          note.HMAC,
		CryptoVersion: note.CryptoVersion,
		ExpireTime:    note.ExpireTime,
		InsertTime:    note.InsertTime,
	})
}

// HandleGetEmbed implements GET /api/note/{id}/embeds/{embed_id}. The parent
// note is checked first so that an expired note's embeds are absent too.
func (s *Server) HandleGetEmbed(w http.ResponseWriter, r *http.Request) {
	noteID := r.PathValue("id")
	embedID := r.PathValue("embed_id")

	note, err := s.notes.GetNote(r.Context(), noteID)
	if err != nil {
		s.logger.Error(r.Context(), "failed to get note", "id", noteID, "err", err)
		WriteError(w, http.StatusInternalServerError, "database error")
		return
	}
	if note == nil || !note.ExpireTime.After(time.Now()) {
		WriteError(w, http.StatusNotFound, "embed not found")
		return
	}

	embed, err := s.notes.GetEmbed(r.Context(), noteID, embedID)
	if err != nil {
		s.logger.Error(r.Context(), "failed to get embed", "id", noteID, "embed_id", embedID, "err", err)
		WriteError(w, http.StatusInternalServerError, "database error")
		return
	}
	if embed == nil {
		WriteError(w, http.StatusNotFound, "embed not found")
		return
	}

	WriteJSON(w, http.StatusOK, EmbedResponse{
		NoteID:     embed.NoteID,
		EmbedID:    embed.EmbedID,
		Ciphertext: embed.Ciphertext,
		HMAC:       embed.HMAC,
	})
}

// HandleDeleteNote implements DELETE /api/note/{id}, the explicit post-read
// destroy. Deleting an id that no longer exists is a success.
func (s *Server) HandleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := s.notes.DeleteNotes(r.Context(), []string{id}); err != nil {
		s.logger.Error(r.Context(), "failed to delete note", "id", id, "err", err)
		WriteError(w, http.StatusInternalServerError, "database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleHealthz implements GET /api/healthz.
func (s *Server) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
