package domain

// IndexInfo is a snapshot of a scope index.
type IndexInfo struct {
	Scope     Scope
	Dimension int
	Count     int
}

// RepairReport describes what Repair changed.
type RepairReport struct {
	Scope Scope

	// VectorCount is the number of vectors in the index file.
	VectorCount int

	// MappingBefore is the number of chunk ids found before repair.
	MappingBefore int

	// Truncated is the number of trailing ids removed from the mapping.
	Truncated int
}

// VectorHit is one nearest-neighbour match from a scope index.
type VectorHit struct {
	// ChunkID is the chunk stored at the matched position.
	ChunkID int64

	// Distance is the squared Euclidean distance to the query.
	Distance float32
}

// RetrievedChunk is a vector hit resolved to its chunk text.
type RetrievedChunk struct {
	Chunk    Chunk
	Distance float32
	Rank     int
}

// Answer is the result of a grounded question.
type Answer struct {
	// Text is the generated answer with reasoning blocks removed.
	Text string

	// Sources are the chunks used as context, in rank order.
	Sources []RetrievedChunk

	// Context is the exact bundle handed to the generator.
	Context string
}

// IngestRequest is one upload handed over by the upload collaborator
// after authorisation has been confirmed.
type IngestRequest struct {
	Scope      Scope
	Filename   string
	Content    []byte
	UploadedBy int64
}

// IngestResult reports a successful ingestion.
type IngestResult struct {
	DocumentID int64
	Filename   string
	Chunks     int
}
