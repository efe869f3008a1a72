// Package cli implements the studyconnect-rag command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driving"
	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	configPath string
	dataDir    string
	verbose    bool
)

// Services used by commands. They are set by SetServices or, lazily, by
// the bootstrap function before a command runs.
var (
	ingestService     driving.IngestService
	retrievalService  driving.RetrievalService
	documentService   driving.DocumentService
	indexAdminService driving.IndexAdminService
	settings          *domain.Settings
	closeServices     func() error
)

// Services groups the core services the commands drive.
type Services struct {
	Ingest     driving.IngestService
	Retrieval  driving.RetrievalService
	Document   driving.DocumentService
	IndexAdmin driving.IndexAdminService

	// Settings are the effective settings the services were built from.
	Settings *domain.Settings

	// Close releases stores and provider clients. May be nil.
	Close func() error
}

// Options carries the global flags to the bootstrap function.
type Options struct {
	ConfigPath string
	DataDir    string
	Verbose    bool

	// Watch is set for long-running commands, which reload prompt
	// templates when their files change.
	Watch bool
}

// BootstrapFunc builds the services for a command invocation.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, error)

var bootstrap BootstrapFunc

var rootCmd = &cobra.Command{
	Use:   "studyconnect-rag",
	Short: "Course and group study assistant",
	Long: `studyconnect-rag answers questions from the materials uploaded to a
course or study group.

Files are extracted, chunked and embedded into a per-scope index. Questions
retrieve the closest chunks from that scope only and a language model answers
from them. Scopes are written as type:id, for example course:12 or group:4.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.studyconnect/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory for indexes, database and uploads")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices installs the services used by commands.
func SetServices(s *Services) {
	if s == nil {
		ingestService = nil
		retrievalService = nil
		documentService = nil
		indexAdminService = nil
		settings = nil
		closeServices = nil
		return
	}
	ingestService = s.Ingest
	retrievalService = s.Retrieval
	documentService = s.Document
	indexAdminService = s.IndexAdmin
	settings = s.Settings
	closeServices = s.Close
}

// SetBootstrap installs the function that builds services on first use.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute loads .env, runs the root command and releases services.
func Execute(ctx context.Context) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	defer func() {
		if closeServices != nil {
			if err := closeServices(); err != nil {
				logger.Warn("closing services: %v", err)
			}
		}
		_ = logger.Sync()
	}()

	return rootCmd.ExecuteContext(ctx)
}

// prepare applies global flags and builds services when they are not set.
func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if !needsServices(cmd) || servicesConfigured() || bootstrap == nil {
		return nil
	}

	s, err := bootstrap(cmd.Context(), Options{
		ConfigPath: configPath,
		DataDir:    dataDir,
		Verbose:    verbose,
		Watch:      longRunning(cmd),
	})
	if err != nil {
		return fmt.Errorf("starting: %w", err)
	}
	SetServices(s)
	return nil
}

func needsServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return false
	}
	return true
}

func longRunning(cmd *cobra.Command) bool {
	switch cmd.CommandPath() {
	case "studyconnect-rag chat", "studyconnect-rag serve", "studyconnect-rag mcp serve":
		return true
	}
	return false
}

func servicesConfigured() bool {
	return retrievalService != nil || ingestService != nil ||
		documentService != nil || indexAdminService != nil
}

// parseScope validates a --scope flag value.
func parseScope(raw string) (domain.Scope, error) {
	if raw == "" {
		return domain.Scope{}, errors.New("--scope is required (for example course:12 or group:4)")
	}
	return domain.ParseScope(raw)
}

// commandError turns a service error into the message shown to the user.
// Errors the user can act on pass through unchanged.
func commandError(action string, err error) error {
	switch {
	case domain.IsUserError(err), errors.Is(err, domain.ErrNotFound):
		return err
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrGenerationUnavailable):
		return fmt.Errorf("%s failed: a model service is unavailable, try again later: %w", action, err)
	default:
		return fmt.Errorf("%s failed: %w", action, err)
	}
}
