// Package bolt provides a driven.DocumentStore on an embedded bbolt
// key-value file, for deployments that want a single-file store without SQL.
//
// Documents and chunks are JSON records keyed by big-endian uint64 ids
// drawn from each bucket's sequence, so cursor order is insertion order.
// A third bucket indexes chunk ids by document.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
)

// DatabaseFile is the bbolt file name inside the data directory.
const DatabaseFile = "metadata.bolt"

var (
	bucketDocs      = []byte("documents")
	bucketChunks    = []byte("chunks")
	bucketDocChunks = []byte("document_chunks")
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a bbolt-backed document store.
type Store struct {
	db   *bbolt.DB
	path string
}

type documentRecord struct {
	ScopeType   string    `json:"scope_type"`
	ScopeID     int64     `json:"scope_id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	UploadedBy  int64     `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type chunkRecord struct {
	DocumentID int64  `json:"document_id"`
	Content    string `json:"content"`
	Position   int    `json:"position"`
}

// NewStore opens (creating if needed) the bbolt file in dataDir.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, errors.New("bolt: data directory cannot be empty")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, DatabaseFile)
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketDocs, bucketChunks, bucketDocChunks} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDocument inserts a document and assigns its ID and CreatedAt.
func (s *Store) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}
	if err := doc.Scope.Validate(); err != nil {
		return err
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDocs)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(documentRecord{
			ScopeType:   string(doc.Scope.Type),
			ScopeID:     doc.Scope.ID,
			Filename:    doc.Filename,
			StoragePath: doc.StoragePath,
			UploadedBy:  doc.UploadedBy,
			CreatedAt:   doc.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("marshalling document: %w", err)
		}
		if err := b.Put(itob(int64(seq)), data); err != nil {
			return err
		}
		doc.ID = int64(seq)
		return nil
	})
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(_ context.Context, id int64) (*domain.Document, error) {
	var doc *domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocs).Get(itob(id))
		if data == nil {
			return domain.ErrNotFound
		}
		d, err := decodeDocument(id, data)
		doc = d
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns the scope's documents, oldest first.
func (s *Store) ListDocuments(_ context.Context, scope domain.Scope) ([]domain.Document, error) {
	var docs []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			doc, err := decodeDocument(btoi(k), v)
			if err != nil {
				return err
			}
			if doc.Scope == scope {
				docs = append(docs, *doc)
			}
			return nil
		})
	})
	return docs, err
}

// DeleteDocument removes a document and its chunks.
func (s *Store) DeleteDocument(_ context.Context, id int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		chunks := tx.Bucket(bucketChunks)
		index := tx.Bucket(bucketDocChunks)

		prefix := itob(id)
		var keys [][]byte
		c := index.Cursor()
		for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := chunks.Delete(k[8:]); err != nil {
				return err
			}
			if err := index.Delete(k); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketDocs).Delete(prefix)
	})
}

// SaveChunks inserts chunk texts for a document in order in one transaction.
func (s *Store) SaveChunks(_ context.Context, documentID int64, texts []string) ([]domain.Chunk, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var out []domain.Chunk
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketDocs).Get(itob(documentID)) == nil {
			return fmt.Errorf("document %d: %w", documentID, domain.ErrNotFound)
		}
		chunks := tx.Bucket(bucketChunks)
		index := tx.Bucket(bucketDocChunks)

		out = make([]domain.Chunk, 0, len(texts))
		for pos, text := range texts {
			seq, err := chunks.NextSequence()
			if err != nil {
				return err
			}
			data, err := json.Marshal(chunkRecord{DocumentID: documentID, Content: text, Position: pos})
			if err != nil {
				return fmt.Errorf("marshalling chunk: %w", err)
			}
			id := int64(seq)
			if err := chunks.Put(itob(id), data); err != nil {
				return err
			}
			if err := index.Put(append(itob(documentID), itob(id)...), nil); err != nil {
				return err
			}
			out = append(out, domain.Chunk{ID: id, DocumentID: documentID, Content: text, Position: pos})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetChunks resolves chunk ids. Missing ids are omitted.
func (s *Store) GetChunks(_ context.Context, ids []int64) (map[int64]domain.Chunk, error) {
	result := make(map[int64]domain.Chunk, len(ids))
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChunks)
		for _, id := range ids {
			data := b.Get(itob(id))
			if data == nil {
				continue
			}
			c, err := decodeChunk(id, data)
			if err != nil {
				return err
			}
			result[id] = c
		}
		return nil
	})
	return result, err
}

// GetDocumentChunks returns a document's chunks by position.
func (s *Store) GetDocumentChunks(_ context.Context, documentID int64) ([]domain.Chunk, error) {
	var out []domain.Chunk
	err := s.db.View(func(tx *bbolt.Tx) error {
		chunks := tx.Bucket(bucketChunks)
		prefix := itob(documentID)
		c := tx.Bucket(bucketDocChunks).Cursor()
		for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
			id := btoi(k[8:])
			data := chunks.Get(k[8:])
			if data == nil {
				continue
			}
			chunk, err := decodeChunk(id, data)
			if err != nil {
				return err
			}
			out = append(out, chunk)
		}
		return nil
	})
	return out, err
}

func decodeDocument(id int64, data []byte) (*domain.Document, error) {
	var rec documentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding document %d: %w", id, err)
	}
	return &domain.Document{
		ID:          id,
		Scope:       domain.Scope{Type: domain.ScopeType(rec.ScopeType), ID: rec.ScopeID},
		Filename:    rec.Filename,
		StoragePath: rec.StoragePath,
		UploadedBy:  rec.UploadedBy,
		CreatedAt:   rec.CreatedAt,
	}, nil
}

func decodeChunk(id int64, data []byte) (domain.Chunk, error) {
	var rec chunkRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Chunk{}, fmt.Errorf("decoding chunk %d: %w", id, err)
	}
	return domain.Chunk{ID: id, DocumentID: rec.DocumentID, Content: rec.Content, Position: rec.Position}, nil
}

func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func btoi(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

func hasPrefix(k, prefix []byte) bool {
	return len(k) >= len(prefix) && string(k[:len(prefix)]) == string(prefix)
}
