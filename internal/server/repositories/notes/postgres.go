// Package notes provides the PostgreSQL-backed repository for note
// persistence and the expiry query used by the sweeper.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/onorbumbum/noteshare.space/internal/dbx"
	"github.com/onorbumbum/noteshare.space/internal/server/models"
)

// PostgresRepository implements note storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores a new note. insert_time is assigned by the database at write
// time and scanned back into note.InsertTime. Uniqueness violations are
// returned as common.ErrConstraintViolation.
func (r *PostgresRepository) Insert(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO notes (id, ciphertext, hmac, crypto_version, expire_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING insert_time
	`
	err := r.db.QueryRowContext(ctx, query,
		note.ID, note.Ciphertext, note.HMAC, note.CryptoVersion, note.ExpireTime).
		Scan(&note.InsertTime)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", dbx.MapConstraint(err))
	}
	return nil
}

// Get returns the note with the given id, or (nil, nil) when absent.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Note, error) {
	query := `
		SELECT id, ciphertext, hmac, crypto_version, expire_time, insert_time
		FROM notes
		WHERE id = $1
	`
	note := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&note.ID, &note.Ciphertext, &note.HMAC, &note.CryptoVersion,
		&note.ExpireTime, &note.InsertTime,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// Delete removes a note by id. Embeds go with it via ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

// SelectExpired returns notes whose expire_time is at or before now,
// oldest first. A limit of 0 disables the LIMIT clause.
func (r *PostgresRepository) SelectExpired(ctx context.Context, now time.Time, limit int) ([]*models.Note, error) {
	query := `
		SELECT id, ciphertext, hmac, crypto_version, expire_time, insert_time
		FROM notes
		WHERE expire_time <= $1
		ORDER BY expire_time
	`
	args := []any{now}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select expired notes: %w", err)
	}
	defer rows.Close()

	var result []*models.Note
	for rows.Next() {
		var item models.Note
		if err := rows.Scan(
			&item.ID, &item.Ciphertext, &item.HMAC, &item.CryptoVersion,
			&item.ExpireTime, &item.InsertTime,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
