package models

// Embed is an opaque attachment created together with its owning note.
// EmbedID is unique only within that note; the pair (NoteID, EmbedID)
// identifies an embed globally. Embeds share the note's lifecycle and are
// cascade-deleted with it.
type Embed struct {
	NoteID     string
	EmbedID    string
	Ciphertext string
	HMAC       string
}
