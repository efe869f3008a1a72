package flatfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ScopedIndex = (*Store)(nil)

// File name suffixes for a scope's pair.
const (
	IndexSuffix   = ".index"
	MappingSuffix = ".meta.txt"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("flatfile: store is closed")

// Store is a directory of per-scope index file pairs.
type Store struct {
	dir string

	mu     sync.Mutex
	locks  map[string]*sync.RWMutex
	closed bool
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("flatfile: directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("flatfile: create index directory: %w", err)
	}
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.RWMutex),
	}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// IndexPath returns the vector file path for scope.
func (s *Store) IndexPath(scope domain.Scope) string {
	return filepath.Join(s.dir, scope.Key()+IndexSuffix)
}

// MappingPath returns the chunk id mapping file path for scope.
func (s *Store) MappingPath(scope domain.Scope) string {
	return filepath.Join(s.dir, scope.Key()+MappingSuffix)
}

// lockFor returns the scope's lock, creating it on first use.
func (s *Store) lockFor(scope domain.Scope) (*sync.RWMutex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	key := scope.Key()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[key] = l
	}
	return l, nil
}

func (s *Store) begin(ctx context.Context, scope domain.Scope) (*sync.RWMutex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return s.lockFor(scope)
}

// GetOrCreate loads the scope's index, or describes a new empty one of dim.
// Nothing is written until the first Append.
func (s *Store) GetOrCreate(ctx context.Context, scope domain.Scope, dim int) (domain.IndexInfo, error) {
	if dim <= 0 {
		return domain.IndexInfo{}, fmt.Errorf("%w: dimension must be positive, got %d", domain.ErrInvalidInput, dim)
	}
	l, err := s.begin(ctx, scope)
	if err != nil {
		return domain.IndexInfo{}, err
	}
	l.RLock()
	defer l.RUnlock()

	idx, err := s.load(scope, true)
	if err != nil {
		return domain.IndexInfo{}, err
	}
	if idx == nil {
		return domain.IndexInfo{Scope: scope, Dimension: dim}, nil
	}
	if idx.dim != dim {
		return domain.IndexInfo{}, fmt.Errorf("%w: scope %s stores %d-dimensional vectors, requested %d",
			domain.ErrDimensionMismatch, scope, idx.dim, dim)
	}
	return domain.IndexInfo{Scope: scope, Dimension: idx.dim, Count: idx.count()}, nil
}

// Append adds vectors and their chunk ids to the scope and persists both.
// The first append to a scope fixes its dimension.
func (s *Store) Append(ctx context.Context, scope domain.Scope, vectors [][]float32, chunkIDs []int64) error {
	if len(vectors) == 0 {
		return nil
	}
	if len(vectors) != len(chunkIDs) {
		return fmt.Errorf("%w: %d vectors for %d chunk ids", domain.ErrInvalidInput, len(vectors), len(chunkIDs))
	}
	for i, v := range vectors {
		if err := checkFinite(v); err != nil {
			return fmt.Errorf("vector %d: %w", i, err)
		}
	}
	l, err := s.begin(ctx, scope)
	if err != nil {
		return err
	}
	l.Lock()
	defer l.Unlock()

	idx, err := s.load(scope, true)
	if err != nil {
		return err
	}
	if idx == nil {
		idx = &scopeIndex{dim: len(vectors[0])}
		if idx.dim == 0 {
			return fmt.Errorf("%w: empty vector", domain.ErrInvalidInput)
		}
	}

	// Validate everything before touching memory or disk.
	for i, v := range vectors {
		if len(v) != idx.dim {
			return fmt.Errorf("%w: vector %d has %d values, scope %s uses %d",
				domain.ErrDimensionMismatch, i, len(v), scope, idx.dim)
		}
	}

	committed := len(idx.ids)
	for _, v := range vectors {
		idx.vectors = append(idx.vectors, v...)
	}
	idx.ids = append(idx.ids, chunkIDs...)

	if err := s.persist(scope, idx, committed); err != nil {
		return err
	}

	logger.Debug("index %s: appended %d vectors, total %d", scope.Key(), len(vectors), idx.count())
	return nil
}

// Search returns the topK stored chunk ids nearest to query by squared
// Euclidean distance, nearest first. Equal distances keep insertion order.
// A scope without an index, or with an empty one, yields no hits.
func (s *Store) Search(ctx context.Context, scope domain.Scope, query []float32, topK int) ([]domain.VectorHit, error) {
	l, err := s.begin(ctx, scope)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		return []domain.VectorHit{}, nil
	}
	if err := checkFinite(query); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	l.RLock()
	defer l.RUnlock()

	idx, err := s.load(scope, false)
	if err != nil {
		return nil, err
	}
	if idx == nil || idx.count() == 0 {
		return []domain.VectorHit{}, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has %d values, scope %s uses %d",
			domain.ErrDimensionMismatch, len(query), scope, idx.dim)
	}

	n := idx.count()
	hits := make([]domain.VectorHit, n)
	for i := 0; i < n; i++ {
		hits[i] = domain.VectorHit{
			ChunkID:  idx.ids[i],
			Distance: squaredL2(query, idx.vector(i)),
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})

	if topK < n {
		hits = hits[:topK]
	}
	return hits, nil
}

// Verify loads the scope's pair and checks it is consistent.
// Returns domain.ErrNotFound when the scope has no files at all.
func (s *Store) Verify(ctx context.Context, scope domain.Scope) (domain.IndexInfo, error) {
	l, err := s.begin(ctx, scope)
	if err != nil {
		return domain.IndexInfo{}, err
	}
	l.RLock()
	defer l.RUnlock()

	idx, err := s.load(scope, true)
	if err != nil {
		return domain.IndexInfo{Scope: scope}, err
	}
	if idx == nil {
		return domain.IndexInfo{Scope: scope}, fmt.Errorf("index %s: %w", scope, domain.ErrNotFound)
	}
	return domain.IndexInfo{Scope: scope, Dimension: idx.dim, Count: idx.count()}, nil
}

// Repair restores consistency after an append was interrupted between
// committing the mapping and committing the index. Trailing mapping ids
// with no vector are dropped. A mapping shorter than the index cannot be
// produced by an interrupted append and is left alone with ErrIndexCorrupt.
func (s *Store) Repair(ctx context.Context, scope domain.Scope) (domain.RepairReport, error) {
	l, err := s.begin(ctx, scope)
	if err != nil {
		return domain.RepairReport{}, err
	}
	l.Lock()
	defer l.Unlock()

	report := domain.RepairReport{Scope: scope}

	count := 0
	data, err := os.ReadFile(s.IndexPath(scope))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return report, fmt.Errorf("read index: %w", err)
	default:
		dim, vectors, err := decodeIndex(data)
		if err != nil {
			return report, err
		}
		count = len(vectors) / dim
	}
	report.VectorCount = count

	ids, err := s.readMapping(scope)
	if err != nil {
		return report, err
	}
	report.MappingBefore = len(ids)

	switch {
	case len(ids) == count:
		return report, nil
	case len(ids) < count:
		return report, fmt.Errorf("%w: scope %s mapping has %d ids for %d vectors; cannot repair",
			domain.ErrIndexCorrupt, scope, len(ids), count)
	}

	report.Truncated = len(ids) - count
	if count == 0 {
		if err := os.Remove(s.MappingPath(scope)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return report, fmt.Errorf("remove mapping: %w", err)
		}
	} else if err := writeFileAtomic(s.MappingPath(scope), encodeMapping(ids[:count])); err != nil {
		return report, fmt.Errorf("write mapping: %w", err)
	}

	logger.Warn("index %s: repaired mapping, dropped %d trailing ids", scope.Key(), report.Truncated)
	return report, nil
}

// ListScopes returns every scope with an index or mapping file, ordered by key.
func (s *Store) ListScopes(ctx context.Context) ([]domain.Scope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list index directory: %w", err)
	}

	seen := make(map[string]domain.Scope)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		var key string
		switch {
		case strings.HasSuffix(name, IndexSuffix):
			key = strings.TrimSuffix(name, IndexSuffix)
		case strings.HasSuffix(name, MappingSuffix):
			key = strings.TrimSuffix(name, MappingSuffix)
		default:
			continue
		}
		scope, err := domain.ParseScopeKey(key)
		if err != nil {
			logger.Debug("skipping unrecognised index file %s", name)
			continue
		}
		seen[key] = scope
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	scopes := make([]domain.Scope, 0, len(keys))
	for _, k := range keys {
		scopes = append(scopes, seen[k])
	}
	return scopes, nil
}

// Close marks the store closed. Files are always flushed by the time an
// operation returns, so there is nothing else to release.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// load reads the scope's pair. It returns nil when no index file exists.
// In strict mode a mapping without an index (left by an interrupted first
// append) is reported as corruption; otherwise it is treated as absent.
// A count mismatch between the two files is always an error.
func (s *Store) load(scope domain.Scope, strict bool) (*scopeIndex, error) {
	data, err := os.ReadFile(s.IndexPath(scope))
	if errors.Is(err, fs.ErrNotExist) {
		if !strict {
			return nil, nil
		}
		ids, err := s.readMapping(scope)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			return nil, fmt.Errorf("%w: scope %s mapping has %d ids but no index file",
				domain.ErrIndexCorrupt, scope, len(ids))
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	dim, vectors, err := decodeIndex(data)
	if err != nil {
		return nil, fmt.Errorf("scope %s: %w", scope, err)
	}
	ids, err := s.readMapping(scope)
	if err != nil {
		return nil, err
	}

	idx := &scopeIndex{dim: dim, vectors: vectors, ids: ids}
	if len(ids) != idx.count() {
		return nil, fmt.Errorf("%w: scope %s has %d vectors but %d chunk ids",
			domain.ErrIndexCorrupt, scope, idx.count(), len(ids))
	}
	return idx, nil
}

// readMapping returns the scope's chunk ids; a missing file is empty.
func (s *Store) readMapping(scope domain.Scope) ([]int64, error) {
	data, err := os.ReadFile(s.MappingPath(scope))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	ids, err := decodeMapping(data)
	if err != nil {
		return nil, fmt.Errorf("scope %s: %w", scope, err)
	}
	return ids, nil
}

// persist commits the mapping, then the index. The index rename is the
// commit point of an append. If the index cannot be written the mapping
// is rolled back to its first committed ids.
func (s *Store) persist(scope domain.Scope, idx *scopeIndex, committed int) error {
	if err := writeFileAtomic(s.MappingPath(scope), encodeMapping(idx.ids)); err != nil {
		return fmt.Errorf("write mapping: %w", err)
	}
	if err := writeFileAtomic(s.IndexPath(scope), encodeIndex(idx.dim, idx.vectors)); err != nil {
		if rbErr := s.rollbackMapping(scope, idx.ids[:committed]); rbErr != nil {
			logger.Error("index %s: mapping rollback failed, run repair: %v", scope.Key(), rbErr)
		}
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

func (s *Store) rollbackMapping(scope domain.Scope, ids []int64) error {
	if len(ids) == 0 {
		err := os.Remove(s.MappingPath(scope))
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return writeFileAtomic(s.MappingPath(scope), encodeMapping(ids))
}

// checkFinite rejects NaN and infinite components; they make every
// distance NaN and the ranking meaningless.
func checkFinite(v []float32) error {
	for i, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: value %d is %v", domain.ErrInvalidInput, i, x)
		}
	}
	return nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
