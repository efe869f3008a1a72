package driven

import (
	"context"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

// ScopedIndex stores embedding vectors per scope together with a parallel
// ordered list of chunk ids. Position i of the vectors always corresponds
// to position i of the ids. Entries are append-only.
//
// Implementations must serialise writes per scope and must never return
// hits from an index whose vector and id counts disagree.
type ScopedIndex interface {
	// GetOrCreate loads the scope's index or creates an empty one of dim.
	// Returns domain.ErrDimensionMismatch if a persisted index has another dimension.
	GetOrCreate(ctx context.Context, scope domain.Scope, dim int) (domain.IndexInfo, error)

	// Append adds vectors and their chunk ids in order and persists both.
	// Empty input is a no-op.
	Append(ctx context.Context, scope domain.Scope, vectors [][]float32, chunkIDs []int64) error

	// Search returns up to topK hits ordered by ascending squared distance.
	// A missing or empty index yields an empty result and no error.
	Search(ctx context.Context, scope domain.Scope, query []float32, topK int) ([]domain.VectorHit, error)

	// Verify loads the persisted pair and checks it is consistent.
	Verify(ctx context.Context, scope domain.Scope) (domain.IndexInfo, error)

	// Repair restores consistency after an interrupted append.
	Repair(ctx context.Context, scope domain.Scope) (domain.RepairReport, error)

	// ListScopes returns every scope with a persisted index.
	ListScopes(ctx context.Context) ([]domain.Scope, error)

	// Close releases resources.
	Close() error
}
