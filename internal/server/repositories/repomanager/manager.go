package repomanager

import (
	"context"
	"database/sql"

	"github.com/onorbumbum/noteshare.space/internal/dbx"
	"github.com/onorbumbum/noteshare.space/internal/server/repositories/embeds"
	"github.com/onorbumbum/noteshare.space/internal/server/repositories/notes"
)

// RepositoryManager vends repositories bound to a DBTX, which lets the note
// service run note and embed writes on the same transaction handle.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Notes(db dbx.DBTX) notes.Repository
	Embeds(db dbx.DBTX) embeds.Repository
}
