package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onorbumbum/noteshare.space/internal/logging"
	"github.com/onorbumbum/noteshare.space/internal/server/config"
	"github.com/onorbumbum/noteshare.space/internal/server/models"
)

type fakeNoteService struct {
	createErr     error
	createdEmbeds []*models.Embed

	note    *models.Note
	noteErr error

	embed      *models.Embed
	embedErr   error
	embedCalls int

	deletedIDs []string
	deleteErr  error
}

func (f *fakeNoteService) CreateNote(ctx context.Context, note *models.Note, embeds []*models.Embed) (*models.Note, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	note.ID = "generated-id"
	note.InsertTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, e := range embeds {
		e.NoteID = note.ID
	}
	f.createdEmbeds = embeds
	return note, nil
}

func (f *fakeNoteService) GetNote(ctx context.Context, id string) (*models.Note, error) {
	return f.note, f.noteErr
}

func (f *fakeNoteService) GetEmbed(ctx context.Context, noteID, embedID string) (*models.Embed, error) {
	f.embedCalls++
	return f.embed, f.embedErr
}

func (f *fakeNoteService) DeleteNotes(ctx context.Context, ids []string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, ids...)
	return int64(len(ids)), nil
}

func newTestServer(t *testing.T, svc NoteService) (*Server, *sql.DB) {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(svc, db, logger, cfg), db
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, rd)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, r)
	return w
}

func TestClampTTL(t *testing.T) {
	s, _ := newTestServer(t, &fakeNoteService{})

	cases := []struct {
		in   int
		want time.Duration
	}{
		{-1, s.config.DefaultNoteTTL},
		{0, s.config.DefaultNoteTTL},
		{3600, time.Hour},
		{int(s.config.MaxNoteTTL/time.Second) + 1, s.config.MaxNoteTTL},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, s.clampTTL(c.in), "clampTTL(%d)", c.in)
	}
}

func TestCreateNote_Success(t *testing.T) {
	svc := &fakeNoteService{}
	s, _ := newTestServer(t, svc)

	w := doRequest(t, s, http.MethodPost, "/api/note", `{
		"ciphertext": "opaque-cipher",
		"hmac": "opaque-mac",
		"crypto_version": "v2",
		"ttl_seconds": 3600,
		"embeds": [{"embed_id": "img-1", "ciphertext": "ec", "hmac": "em"}]
	}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp CreateNoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "generated-id", resp.ID)
	assert.Equal(t, "http://localhost:8080/note/generated-id", resp.ViewURL)
	assert.False(t, resp.InsertTime.IsZero())
	assert.InDelta(t, time.Hour.Seconds(), time.Until(resp.ExpireTime).Seconds(), 5)

	require.Len(t, svc.createdEmbeds, 1)
	assert.Equal(t, "img-1", svc.createdEmbeds[0].EmbedID)
}

func TestCreateNote_DefaultCryptoVersionAndTTL(t *testing.T) {
	svc := &fakeNoteService{}
	s, _ := newTestServer(t, svc)

	w := doRequest(t, s, http.MethodPost, "/api/note", `{"ciphertext": "c", "hmac": "m"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CreateNoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, s.config.DefaultNoteTTL.Seconds(), time.Until(resp.ExpireTime).Seconds(), 5)
}

func TestCreateNote_Validation(t *testing.T) {
	s, _ := newTestServer(t, &fakeNoteService{})

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"ciphertext": `},
		{"missing ciphertext", `{"hmac": "m"}`},
		{"missing hmac", `{"ciphertext": "c"}`},
		{"embed without id", `{"ciphertext": "c", "hmac": "m", "embeds": [{"ciphertext": "ec", "hmac": "em"}]}`},
	}
	for _, c := range cases {
		w := doRequest(t, s, http.MethodPost, "/api/note", c.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, c.name)
	}
}

func TestCreateNote_PayloadTooLarge(t *testing.T) {
	s, _ := newTestServer(t, &fakeNoteService{})
	s.config.MaxPayloadBytes = 64

	big := `{"ciphertext": "` + strings.Repeat("x", 256) + `", "hmac": "m"}`
	w := doRequest(t, s, http.MethodPost, "/api/note", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCreateNote_StorageFailureIsGeneric500(t *testing.T) {
	s, _ := newTestServer(t, &fakeNoteService{createErr: errors.New("duplicate key")})

	w := doRequest(t, s, http.MethodPost, "/api/note", `{"ciphertext": "c", "hmac": "m"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "duplicate key", "internal detail must not leak")
}

func TestGetNote_Found(t *testing.T) {
	note := &models.Note{
		ID:            "n1",
		Ciphertext:    "cipher",
		HMAC:          "mac",
		CryptoVersion: "v1",
		ExpireTime:    time.Now().Add(time.Hour),
		InsertTime:    time.Now().Add(-time.Hour),
	}
	s, _ := newTestServer(t, &fakeNoteService{note: note})

	w := doRequest(t, s, http.MethodGet, "/api/note/n1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp NoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cipher", resp.Ciphertext)
	assert.Equal(t, "mac", resp.HMAC)
}

func TestGetNote_AbsentIs404(t *testing.T) {
	s, _ := newTestServer(t, &fakeNoteService{})

	w := doRequest(t, s, http.MethodGet, "/api/note/whatever-format", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNote_ExpiredReadsAsAbsent(t *testing.T) {
	note := &models.Note{ID: "n1", ExpireTime: time.Now().Add(-time.Minute)}
	s, _ := newTestServer(t, &fakeNoteService{note: note})

	w := doRequest(t, s, http.MethodGet, "/api/note/n1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEmbed_Found(t *testing.T) {
	svc := &fakeNoteService{
		note:  &models.Note{ID: "n1", ExpireTime: time.Now().Add(time.Hour)},
		embed: &models.Embed{NoteID: "n1", EmbedID: "img-1", Ciphertext: "ec", HMAC: "em"},
	}
	s, _ := newTestServer(t, svc)

	w := doRequest(t, s, http.MethodGet, "/api/note/n1/embeds/img-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp EmbedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "img-1", resp.EmbedID)
	assert.Equal(t, "ec", resp.Ciphertext)
}

func TestGetEmbed_AbsentIs404(t *testing.T) {
	svc := &fakeNoteService{note: &models.Note{ID: "n1", ExpireTime: time.Now().Add(time.Hour)}}
	s, _ := newTestServer(t, svc)

	w := doRequest(t, s, http.MethodGet, "/api/note/n1/embeds/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEmbed_ExpiredParentHidesEmbeds(t *testing.T) {
	svc := &fakeNoteService{
		note:  &models.Note{ID: "n1", ExpireTime: time.Now().Add(-time.Minute)},
		embed: &models.Embed{NoteID: "n1", EmbedID: "img-1"},
	}
	s, _ := newTestServer(t, svc)

	w := doRequest(t, s, http.MethodGet, "/api/note/n1/embeds/img-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, svc.embedCalls, "embed lookup must not run for an expired note")
}

func TestDeleteNote_AlwaysNoContent(t *testing.T) {
	svc := &fakeNoteService{}
	s, _ := newTestServer(t, svc)

	w := doRequest(t, s, http.MethodDelete, "/api/note/n1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"n1"}, svc.deletedIDs)

	// deleting again is still a success
	w = doRequest(t, s, http.MethodDelete, "/api/note/n1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteNote_StorageFailure(t *testing.T) {
	s, _ := newTestServer(t, &fakeNoteService{deleteErr: errors.New("db is down")})

	w := doRequest(t, s, http.MethodDelete, "/api/note/n1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthz(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s := NewServer(&fakeNoteService{}, db, logger, cfg)

	mock.ExpectPing()
	w := doRequest(t, s, http.MethodGet, "/api/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	mock.ExpectPing().WillReturnError(errors.New("down"))
	w = doRequest(t, s, http.MethodGet, "/api/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
