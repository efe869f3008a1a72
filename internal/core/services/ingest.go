package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driving"
	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns an uploaded file into indexed chunks for a scope.
type IngestService struct {
	extractor driven.TextExtractor
	chunker   driven.Chunker
	embedder  *Embedder
	index     driven.ScopedIndex
	docStore  driven.DocumentStore
	uploads   driven.UploadStore
	maxBytes  int64
}

// NewIngestService creates an ingest service. A non-positive maxBytes uses
// domain.DefaultMaxUploadBytes. uploads may be nil, in which case the
// original bytes are not archived.
func NewIngestService(
	extractor driven.TextExtractor,
	chunker driven.Chunker,
	embedder *Embedder,
	index driven.ScopedIndex,
	docStore driven.DocumentStore,
	uploads driven.UploadStore,
	maxBytes int64,
) *IngestService {
	if maxBytes <= 0 {
		maxBytes = domain.DefaultMaxUploadBytes
	}
	return &IngestService{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		docStore:  docStore,
		uploads:   uploads,
		maxBytes:  maxBytes,
	}
}

// Ingest validates, extracts, chunks and embeds the upload, then archives
// it, records its chunks and appends their vectors to the scope's index.
// Nothing is written until every chunk has a vector. If the index append
// fails, the document and archived file are removed again.
//
//nolint:gocyclo // Pipeline orchestration with sequential steps
func (s *IngestService) Ingest(ctx context.Context, req domain.IngestRequest) (domain.IngestResult, error) {
	logger.Section("Ingest")
	logger.Debug("scope=%s file=%q bytes=%d", req.Scope, req.Filename, len(req.Content))

	// 1. VALIDATE
	if err := req.Scope.Validate(); err != nil {
		return domain.IngestResult{}, err
	}
	filename := filepath.Base(strings.TrimSpace(req.Filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return domain.IngestResult{}, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if !s.extractor.Supports(filename) {
		return domain.IngestResult{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if int64(len(req.Content)) > s.maxBytes {
		return domain.IngestResult{}, fmt.Errorf("%w: %d bytes exceeds limit of %d",
			domain.ErrFileTooLarge, len(req.Content), s.maxBytes)
	}

	// 2. EXTRACT
	text, err := s.extractor.Extract(filename, req.Content)
	if err != nil {
		return domain.IngestResult{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.IngestResult{}, fmt.Errorf("%w: %s", domain.ErrNoExtractableText, filename)
	}

	// 3. CHUNK
	chunks := s.chunker.Chunk(text)
	if len(chunks) == 0 {
		return domain.IngestResult{}, fmt.Errorf("%w: %s", domain.ErrNoContent, filename)
	}
	logger.Debug("%s: %d chars, %d chunks", filename, len(text), len(chunks))

	// 4. EMBED (before any write)
	vectors, err := s.embedder.Encode(ctx, chunks)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("embed chunks: %w", err)
	}

	// 5. ARCHIVE
	var storagePath string
	if s.uploads != nil {
		storagePath, err = s.uploads.Save(ctx, req.Scope, filename, req.Content)
		if err != nil {
			return domain.IngestResult{}, fmt.Errorf("archive upload: %w", err)
		}
	}

	// 6. SAVE DOCUMENT AND CHUNKS
	doc := &domain.Document{
		Scope:       req.Scope,
		Filename:    filename,
		StoragePath: storagePath,
		UploadedBy:  req.UploadedBy,
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		s.discardUpload(ctx, storagePath)
		return domain.IngestResult{}, fmt.Errorf("save document: %w", err)
	}
	saved, err := s.docStore.SaveChunks(ctx, doc.ID, chunks)
	if err != nil {
		s.compensate(ctx, doc.ID, storagePath)
		return domain.IngestResult{}, fmt.Errorf("save chunks: %w", err)
	}

	// 7. APPEND TO THE SCOPE INDEX
	ids := make([]int64, len(saved))
	for i, c := range saved {
		ids[i] = c.ID
	}
	if err := s.index.Append(ctx, req.Scope, vectors, ids); err != nil {
		s.compensate(ctx, doc.ID, storagePath)
		return domain.IngestResult{}, fmt.Errorf("index chunks: %w", err)
	}

	logger.Info("ingested %q into %s: document %d, %d chunks", filename, req.Scope, doc.ID, len(saved))
	return domain.IngestResult{
		DocumentID: doc.ID,
		Filename:   filename,
		Chunks:     len(saved),
	}, nil
}

// compensate removes a partially ingested document. Failures are logged;
// the original error is what the caller needs.
func (s *IngestService) compensate(ctx context.Context, documentID int64, storagePath string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		logger.Warn("rollback: delete document %d: %v", documentID, err)
	}
	s.discardUpload(ctx, storagePath)
}

func (s *IngestService) discardUpload(ctx context.Context, storagePath string) {
	if s.uploads == nil || storagePath == "" {
		return
	}
	if err := s.uploads.Delete(context.WithoutCancel(ctx), storagePath); err != nil {
		logger.Warn("rollback: delete upload %s: %v", storagePath, err)
	}
}
