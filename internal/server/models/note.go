// Package models defines the persistent entities of the note service.
// Ciphertext, HMAC and crypto version are produced client-side and stored
// verbatim; the server never parses or validates their contents.
package models

import "time"

// Note is a self-destructing encrypted note. ID doubles as the share-link
// token. InsertTime is assigned by the storage layer at write time, never by
// the caller.
type Note struct {
	ID            string
	Ciphertext    string
	HMAC          string
	CryptoVersion string
	ExpireTime    time.Time
	InsertTime    time.Time
}
