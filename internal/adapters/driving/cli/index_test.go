package cli

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

func TestIndexVerifyCmd_NoService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexAdminService = nil

	_, err := executeCommand(t, "index", "verify")

	assert.EqualError(t, err, "index admin service not configured")
}

func TestIndexVerifyCmd_SingleScope(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "index", "verify", "--scope", "course:12")

	require.NoError(t, err)
	assert.Contains(t, out, "OK   course:12: 42 vectors, dimension 384")
}

func TestIndexVerifyCmd_SingleScopeCorrupt(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexAdminService = &mockIndexAdminService{
		VerifyFunc: func(context.Context, domain.Scope) (domain.IndexInfo, error) {
			return domain.IndexInfo{}, fmt.Errorf("%w: 3 vectors, 4 ids", domain.ErrIndexCorrupt)
		},
	}

	_, err := executeCommand(t, "index", "verify", "--scope", "course:12")

	assert.ErrorIs(t, err, domain.ErrIndexCorrupt)
}

func TestIndexVerifyCmd_AllScopes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexAdminService = &mockIndexAdminService{
		VerifyAllFunc: func(context.Context) ([]domain.IndexInfo, map[string]error, error) {
			return []domain.IndexInfo{
					{Scope: testScope, Dimension: 384, Count: 42},
				}, map[string]error{
					"group_4": domain.ErrIndexCorrupt,
				}, nil
		},
	}

	out, err := executeCommand(t, "index", "verify")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 indexes inconsistent")
	assert.Contains(t, out, "OK   course:12")
	assert.Contains(t, out, "FAIL group_4")
}

func TestIndexVerifyCmd_NoIndexes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	indexAdminService = &mockIndexAdminService{
		VerifyAllFunc: func(context.Context) ([]domain.IndexInfo, map[string]error, error) {
			return nil, map[string]error{}, nil
		},
	}

	out, err := executeCommand(t, "index", "verify")

	require.NoError(t, err)
	assert.Contains(t, out, "No indexes found.")
}

func TestIndexRepairCmd_RequiresScope(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "index", "repair")

	assert.ErrorContains(t, err, "--scope is required")
}

func TestIndexRepairCmd_Consistent(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "index", "repair", "--scope", "course:12")

	require.NoError(t, err)
	assert.Contains(t, out, "course:12 is consistent (42 vectors)")
}

func TestIndexRepairCmd_Truncates(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var gotScope domain.Scope
	indexAdminService = &mockIndexAdminService{
		RepairFunc: func(_ context.Context, scope domain.Scope) (domain.RepairReport, error) {
			gotScope = scope
			return domain.RepairReport{Scope: scope, VectorCount: 40, MappingBefore: 43, Truncated: 3}, nil
		},
	}

	out, err := executeCommand(t, "index", "repair", "--scope", "group:4")

	require.NoError(t, err)
	assert.Equal(t, domain.Scope{Type: domain.ScopeGroup, ID: 4}, gotScope)
	assert.Contains(t, out, "Repaired group:4: mapping 43 -> 40 ids (3 dropped)")
}
