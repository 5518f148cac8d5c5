package filestorage

import (
	"mime/multipart"
)

// DocumentStore persists uploaded document bytes and hands back a URL the
// preview pane can render. Only the URL travels into the session.
type DocumentStore interface {
	// SaveDocument stores the upload under the session's folder and returns its URL
	SaveDocument(sessionID string, fileHeader *multipart.FileHeader) (string, error)

	// DeleteDocument removes a stored document; unknown paths are not an error
	DeleteDocument(fileURL string) error

	// IsStored reports whether the URL was handed out by this store
	IsStored(fileURL string) bool

	// PurgeSession removes every document stored for the session
	PurgeSession(sessionID string) error
}
