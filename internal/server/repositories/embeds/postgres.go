// Package embeds provides the PostgreSQL-backed repository for note embeds.
package embeds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/onorbumbum/noteshare.space/internal/dbx"
	"github.com/onorbumbum/noteshare.space/internal/server/models"
)

// PostgresRepository implements embed storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores an embed. A duplicate (note_id, embed_id) pair or a missing
// parent note is returned as common.ErrConstraintViolation.
func (r *PostgresRepository) Insert(ctx context.Context, embed *models.Embed) error {
	query := `
		INSERT INTO embeds (note_id, embed_id, ciphertext, hmac)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query,
		embed.NoteID, embed.EmbedID, embed.Ciphertext, embed.HMAC); err != nil {
		return fmt.Errorf("failed to insert embed: %w", dbx.MapConstraint(err))
	}
	return nil
}

// Get returns the embed scoped to the given note, or (nil, nil) when absent.
func (r *PostgresRepository) Get(ctx context.Context, noteID, embedID string) (*models.Embed, error) {
	query := `
		SELECT note_id, embed_id, ciphertext, hmac
		FROM embeds
		WHERE note_id = $1 AND embed_id = $2
	`
	embed := &models.Embed{}
	err := r.db.QueryRowContext(ctx, query, noteID, embedID).Scan(
		&embed.NoteID, &embed.EmbedID, &embed.Ciphertext, &embed.HMAC,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get embed: %w", err)
	}
	return embed, nil
}
