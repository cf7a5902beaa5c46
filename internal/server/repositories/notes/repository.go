// Package notes declares the repository contract for note persistence.
package notes

import (
	"context"
	"time"

	"github.com/onorbumbum/noteshare.space/internal/server/models"
)

// Repository defines the storage operations for notes. Implementations are
// bound to a dbx.DBTX, so the same repository code runs either directly
// against the pool or inside a transaction.
type Repository interface {
	// Insert stores a new note. The insert timestamp is assigned by the
	// store and written back into note.InsertTime.
	Insert(ctx context.Context, note *models.Note) error

	// Get returns the note with the given id, or (nil, nil) when no such
	// note exists. Malformed ids are simply absent, never an error.
	Get(ctx context.Context, id string) (*models.Note, error)

	// Delete removes the note with the given id and reports whether a row
	// was actually deleted. Deleting a non-existent id is not an error.
	Delete(ctx context.Context, id string) (bool, error)

	// SelectExpired returns notes with expire_time at or before now.
	// A limit of 0 means no limit. It never deletes anything.
	SelectExpired(ctx context.Context, now time.Time, limit int) ([]*models.Note, error)
}
