package services

import (
	"context"
	"fmt"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driving"
	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
)

// Ensure IndexAdminService implements the interface.
var _ driving.IndexAdminService = (*IndexAdminService)(nil)

// IndexAdminService checks and repairs persisted scope indexes.
type IndexAdminService struct {
	index driven.ScopedIndex
}

// NewIndexAdminService creates a new index admin service.
func NewIndexAdminService(index driven.ScopedIndex) *IndexAdminService {
	return &IndexAdminService{index: index}
}

// Verify checks one scope.
func (s *IndexAdminService) Verify(ctx context.Context, scope domain.Scope) (domain.IndexInfo, error) {
	return s.index.Verify(ctx, scope)
}

// VerifyAll checks every persisted scope. Per-scope failures are collected
// by scope key; the returned error is only for failing to list scopes.
func (s *IndexAdminService) VerifyAll(ctx context.Context) ([]domain.IndexInfo, map[string]error, error) {
	scopes, err := s.index.ListScopes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list scopes: %w", err)
	}

	infos := make([]domain.IndexInfo, 0, len(scopes))
	failures := make(map[string]error)
	for _, scope := range scopes {
		if err := ctx.Err(); err != nil {
			return infos, failures, err
		}
		info, err := s.index.Verify(ctx, scope)
		if err != nil {
			logger.Warn("index %s failed verification: %v", scope, err)
			failures[scope.Key()] = err
			continue
		}
		infos = append(infos, info)
	}
	logger.Debug("verified %d scopes, %d failures", len(infos), len(failures))
	return infos, failures, nil
}

// Repair restores a scope left inconsistent by an interrupted append.
func (s *IndexAdminService) Repair(ctx context.Context, scope domain.Scope) (domain.RepairReport, error) {
	report, err := s.index.Repair(ctx, scope)
	if err != nil {
		return report, err
	}
	if report.Truncated > 0 {
		logger.Info("repaired %s: dropped %d unindexed ids", scope, report.Truncated)
	}
	return report, nil
}
