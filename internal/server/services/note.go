// Package services implements the note data-access layer: the transactional
// create path, lookups, deletion, and the expiry query used by the sweeper.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/onorbumbum/noteshare.space/internal/dbx"
	"github.com/onorbumbum/noteshare.space/internal/server/config"
	"github.com/onorbumbum/noteshare.space/internal/server/models"
	"github.com/onorbumbum/noteshare.space/internal/server/repositories/repomanager"
)

// NoteService coordinates note and embed repositories over a shared
// connection pool. It holds no mutable state of its own; all shared state
// lives in the database.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewNoteService(db *sql.DB, repomanager repomanager.RepositoryManager, config *config.Config) *NoteService {
	return &NoteService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// CreateNote assigns a fresh id and persists the note together with all of
// its embeds as a single transaction: either everything lands or nothing
// does. A duplicate embed id within the call rolls back the whole write set,
// including the note, and surfaces as common.ErrConstraintViolation.
// insert_time is assigned by the store and returned on the stored note;
// embeds are retrieved separately via GetEmbed.
//
// A failed create is reported as-is, never retried: retrying could mask a
// duplicate-embed violation that happens to win a different race.
func (s *NoteService) CreateNote(ctx context.Context, note *models.Note, embeds []*models.Embed) (*models.Note, error) {
	note.ID = uuid.NewString()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Notes(tx).Insert(ctx, note); err != nil {
			return err
		}

		embedRepo := s.repomanager.Embeds(tx)
		for _, e := range embeds {
			e.NoteID = note.ID
			if err := embedRepo.Insert(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}

	return note, nil
}

// GetNote returns the stored note, or (nil, nil) when absent. Any id string
// is acceptable; ids that could never exist are simply absent. Reading never
// deletes: read-then-destroy is the calling layer's decision.
func (s *NoteService) GetNote(ctx context.Context, id string) (*models.Note, error) {
	note, err := s.repomanager.Notes(s.db).Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting note: %w", err)
	}
	return note, nil
}

// GetEmbed returns the embed stored under the given note, or (nil, nil)
// when absent.
func (s *NoteService) GetEmbed(ctx context.Context, noteID, embedID string) (*models.Embed, error) {
	embed, err := s.repomanager.Embeds(s.db).Get(ctx, noteID, embedID)
	if err != nil {
		return nil, fmt.Errorf("error getting embed: %w", err)
	}
	return embed, nil
}

// DeleteNotes removes the given notes and, via cascade, their embeds. Ids
// without a matching note are silently skipped. Deletes are independent per
// id, so a mid-list failure still reports the count deleted so far.
func (s *NoteService) DeleteNotes(ctx context.Context, ids []string) (int64, error) {
	repo := s.repomanager.Notes(s.db)

	var count int64
	for _, id := range ids {
		deleted, err := repo.Delete(ctx, id)
		if err != nil {
			return count, fmt.Errorf("error deleting notes: %w", err)
		}
		if deleted {
			count++
		}
	}
	return count, nil
}

// GetExpiredNotes returns notes whose expiry has passed, capped at the
// configured sweep batch size. It never deletes; the caller decides when to
// follow up with DeleteNotes (two-phase on purpose, so deletion batching and
// backoff stay under the caller's control).
func (s *NoteService) GetExpiredNotes(ctx context.Context) ([]*models.Note, error) {
	result, err := s.repomanager.Notes(s.db).SelectExpired(ctx, time.Now().UTC(), s.config.SweepBatchSize)
	if err != nil {
		return nil, fmt.Errorf("error selecting expired notes: %w", err)
	}
	return result, nil
}
