// Package embeds declares the repository contract for note embeds.
package embeds

import (
	"context"

	"github.com/onorbumbum/noteshare.space/internal/server/models"
)

// Repository defines the storage operations for embeds. Embeds are only ever
// inserted in the same transaction as their owning note; there is no update
// or standalone delete (deletion cascades from the note).
type Repository interface {
	// Insert stores an embed under embed.NoteID. A duplicate
	// (note_id, embed_id) pair is a constraint violation.
	Insert(ctx context.Context, embed *models.Embed) error

	// Get returns the embed with the given embed id under the given note,
	// or (nil, nil) when absent.
	Get(ctx context.Context, noteID, embedID string) (*models.Embed, error)
}
