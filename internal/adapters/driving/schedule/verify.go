package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driving"
	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
)

// VerifyJobName is the name the index verification job is registered under.
const VerifyJobName = "index-verify"

// ErrInconsistentScopes is returned when one or more scope indexes fail verification.
var ErrInconsistentScopes = errors.New("inconsistent scope indexes")

// VerifyJob checks every persisted scope index and reports mismatches.
// It never repairs; repair is an explicit operator action.
type VerifyJob struct {
	admin driving.IndexAdminService

	// LastInfos holds the healthy scopes from the most recent run.
	LastInfos []domain.IndexInfo
}

// NewVerifyJob creates a verification job over admin.
func NewVerifyJob(admin driving.IndexAdminService) *VerifyJob {
	return &VerifyJob{admin: admin}
}

// Name implements Job.
func (j *VerifyJob) Name() string {
	return VerifyJobName
}

// Run implements Job.
func (j *VerifyJob) Run(ctx context.Context) error {
	infos, failures, err := j.admin.VerifyAll(ctx)
	if err != nil {
		return fmt.Errorf("verifying indexes: %w", err)
	}
	j.LastInfos = infos

	for _, info := range infos {
		logger.Debug("schedule: %s ok (%d vectors, dim %d)", info.Scope, info.Count, info.Dimension)
	}
	if len(failures) == 0 {
		return nil
	}

	keys := make([]string, 0, len(failures))
	for k := range failures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		logger.Warn("schedule: %s failed verification: %v", k, failures[k])
	}
	return fmt.Errorf("%w: %d of %d", ErrInconsistentScopes, len(failures), len(failures)+len(infos))
}
