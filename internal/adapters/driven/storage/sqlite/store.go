package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "metadata.db"

// Store is the SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// NewStore opens (creating if needed) the database in dataDir and applies
// pending migrations.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, errors.New("sqlite: data directory cannot be empty")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// ==================== Documents ====================

// SaveDocument inserts a document and assigns its ID and CreatedAt.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}
	if err := doc.Scope.Validate(); err != nil {
		return err
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (scope_type, scope_id, filename, storage_path, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(doc.Scope.Type), doc.Scope.ID, doc.Filename, doc.StoragePath, doc.UploadedBy, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading document id: %w", err)
	}
	doc.ID = id
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scope_type, scope_id, filename, storage_path, uploaded_by, created_at
		FROM documents WHERE id = ?
	`, id)
	return scanDocument(row)
}

// ListDocuments returns the scope's documents, oldest first.
func (s *Store) ListDocuments(ctx context.Context, scope domain.Scope) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scope_type, scope_id, filename, storage_path, uploaded_by, created_at
		FROM documents WHERE scope_type = ? AND scope_id = ?
		ORDER BY id
	`, string(scope.Type), scope.ID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document and its chunks.
func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", id); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return tx.Commit()
}

// ==================== Chunks ====================

// SaveChunks inserts chunk texts in order within one transaction.
func (s *Store) SaveChunks(ctx context.Context, documentID int64, texts []string) ([]domain.Chunk, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (document_id, content, position) VALUES (?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	chunks := make([]domain.Chunk, 0, len(texts))
	for pos, text := range texts {
		res, err := stmt.ExecContext(ctx, documentID, text, pos)
		if err != nil {
			return nil, fmt.Errorf("saving chunk %d: %w", pos, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("reading chunk id: %w", err)
		}
		chunks = append(chunks, domain.Chunk{
			ID:         id,
			DocumentID: documentID,
			Content:    text,
			Position:   pos,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing chunks: %w", err)
	}
	return chunks, nil
}

// GetChunks resolves chunk ids. Missing ids are omitted.
func (s *Store) GetChunks(ctx context.Context, ids []int64) (map[int64]domain.Chunk, error) {
	result := make(map[int64]domain.Chunk, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, document_id, content, position FROM chunks WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		result[c.ID] = *c
	}
	return result, rows.Err()
}

// GetDocumentChunks returns a document's chunks by position.
func (s *Store) GetDocumentChunks(ctx context.Context, documentID int64) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, content, position FROM chunks
		WHERE document_id = ? ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *c)
	}
	return chunks, rows.Err()
}

// ==================== Helpers ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var scopeType string
	var createdAt sql.NullTime
	err := row.Scan(&doc.ID, &scopeType, &doc.Scope.ID, &doc.Filename,
		&doc.StoragePath, &doc.UploadedBy, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.Scope.Type = domain.ScopeType(scopeType)
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	return &doc, nil
}

func scanChunk(row scanner) (*domain.Chunk, error) {
	var c domain.Chunk
	if err := row.Scan(&c.ID, &c.DocumentID, &c.Content, &c.Position); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}
	return &c, nil
}
