package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/ai"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/config/file"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/index/flatfile"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/storage/bolt"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/storage/memory"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/storage/sqlite"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/storage/uploads"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/cli"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/services"
	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
	"github.com/msa123-tech/StudyConnect-AI/internal/normalisers"
	"github.com/msa123-tech/StudyConnect-AI/internal/postprocessors/chunker"
)

// bootstrap wires driven adapters into core services for one invocation.
//
//nolint:gocyclo // sequential wiring
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	logger.Section("bootstrap")

	// 1. SETTINGS
	store, err := file.NewConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settings := file.LoadSettings(store)
	file.ApplyEnv(&settings)
	if opts.DataDir != "" {
		settings.Storage.DataDir = opts.DataDir
	}
	logger.Debug("config %s, data dir %s, backend %s", store.Path(), settings.Storage.DataDir, settings.Storage.Backend)

	if err := os.MkdirAll(settings.Storage.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (*cli.Services, error) {
		_ = closeAll()
		return nil, err
	}

	// 2. STORAGE
	docStore, err := openDocumentStore(settings.Storage)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, docStore.Close)

	indexDir, removeIndexDir, err := indexDirFor(settings.Storage)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, removeIndexDir)

	index, err := flatfile.New(indexDir)
	if err != nil {
		return fail(fmt.Errorf("opening index: %w", err))
	}
	closers = append(closers, index.Close)

	uploadStore, err := uploads.New(settings.Storage.UploadDir())
	if err != nil {
		return fail(fmt.Errorf("opening upload dir: %w", err))
	}

	// 3. PROVIDERS
	embedder := services.NewEmbedder(ai.EmbeddingFactory(settings.Embedding))
	closers = append(closers, embedder.Close)

	var llm driven.LLMService
	if settings.LLM.IsConfigured() {
		llm, err = ai.CreateLLMService(ctx, settings.LLM)
		if err != nil {
			// Search and ingest still work without generation.
			logger.Warn("generation disabled: %v", err)
			llm = nil
		} else {
			closers = append(closers, llm.Close)
		}
	}

	// 4. PROMPTS
	prompts, err := file.NewPromptStore(filepath.Join(filepath.Dir(store.Path()), "prompts"))
	if err != nil {
		return fail(fmt.Errorf("opening prompts: %w", err))
	}
	if opts.Watch {
		go func() {
			err := prompts.Watch(ctx, func(name string) {
				logger.Info("prompt %s reloaded", name)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("prompt reload disabled: %v", err)
			}
		}()
	}

	// 5. SERVICES
	chunks := chunker.New(
		chunker.WithTargetChars(settings.Ingest.ChunkTargetChars),
		chunker.WithOverlap(settings.Ingest.ChunkOverlapChars),
	)

	return &cli.Services{
		Ingest: services.NewIngestService(
			normalisers.Extractor{}, chunks, embedder, index, docStore, uploadStore,
			settings.Ingest.MaxUploadBytes,
		),
		Retrieval: services.NewRetrievalService(
			embedder, index, docStore, llm, prompts, settings.Retrieval.TopK,
		),
		Document:   services.NewDocumentService(docStore),
		IndexAdmin: services.NewIndexAdminService(index),
		Settings:   &settings,
		Close:      closeAll,
	}, nil
}

// indexDirFor returns the directory for the scope index files and a
// function that cleans it up. Chunk ids from the memory store restart at 1
// every run, so that backend gets a private index that dies with the
// process instead of pairing stale vectors with new chunks.
func indexDirFor(cfg domain.StorageSettings) (string, func() error, error) {
	if cfg.Backend != domain.StorageMemory {
		return cfg.IndexDir(), func() error { return nil }, nil
	}
	dir, err := os.MkdirTemp("", "studyconnect-index-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating in-memory index dir: %w", err)
	}
	logger.Debug("memory backend: index kept in %s for this run", dir)
	return dir, func() error { return os.RemoveAll(dir) }, nil
}

// openDocumentStore opens the configured document and chunk store.
func openDocumentStore(cfg domain.StorageSettings) (driven.DocumentStore, error) {
	switch cfg.Backend {
	case domain.StorageSQLite, "":
		s, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, nil
	case domain.StorageBolt:
		s, err := bolt.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening bolt store: %w", err)
		}
		return s, nil
	case domain.StorageMemory:
		return memory.NewDocumentStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
