package domain

import "time"

// Document represents an uploaded file that has been ingested into a scope.
type Document struct {
	// ID is the relational identifier for the document.
	ID int64

	// Scope owns the document.
	Scope Scope

	// Filename is the original name supplied by the uploader.
	Filename string

	// StoragePath is where the archived upload lives.
	StoragePath string

	// UploadedBy is the id of the uploading user (0 when unknown).
	UploadedBy int64

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk is a bounded span of a document's extracted text.
// Chunks are immutable once created.
type Chunk struct {
	// ID is the relational identifier; index entries refer to it.
	ID int64

	// DocumentID links to the parent Document.
	DocumentID int64

	// Content is the text of this chunk.
	Content string

	// Position is the chunk's creation order within its document.
	Position int
}
