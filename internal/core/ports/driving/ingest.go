package driving

import (
	"context"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

// IngestService turns an authorised upload into indexed chunks.
type IngestService interface {
	// Ingest extracts, chunks, embeds and indexes one upload.
	// Returns a user-correctable error (see domain.IsUserError) when the
	// file holds nothing to index.
	Ingest(ctx context.Context, req domain.IngestRequest) (domain.IngestResult, error)
}
