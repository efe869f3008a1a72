package driving

import (
	"context"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

// IndexAdminService checks and repairs persisted scope indexes.
type IndexAdminService interface {
	// Verify checks one scope's index and mapping agree.
	Verify(ctx context.Context, scope domain.Scope) (domain.IndexInfo, error)

	// VerifyAll checks every persisted scope and returns the failures by scope key.
	VerifyAll(ctx context.Context) ([]domain.IndexInfo, map[string]error, error)

	// Repair restores a scope left inconsistent by an interrupted append.
	Repair(ctx context.Context, scope domain.Scope) (domain.RepairReport, error)
}
