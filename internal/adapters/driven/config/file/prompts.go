package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// promptExt is the file extension of prompt overrides.
const promptExt = ".txt"

// PromptStore loads generation prompts from user-editable files on disk,
// falling back to the built-in defaults.
//
// Files are only created on first Load, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnswer: `Using the following context (recent course discussion and/or uploaded materials), answer the question. If the answer is not found in the context, say you don't know.

Context:
{context}

Question:
{question}`,

	driven.PromptSummary: `Summarize the following course discussion and materials for students. Be concise and highlight key points.

Recent discussion:
{chat}

Relevant materials:
{materials}

Provide a short summary (a few sentences).`,
}

// DefaultPrompt returns the built-in template for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.studyconnect/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		if err == nil {
			err = fmt.Errorf("prompt file is empty")
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Watch reloads the cache whenever a prompt file changes, until ctx is
// done. onChange, if non-nil, is called with the prompt name after each
// reload. Long-running surfaces (mcp, serve, chat) use this so edits take
// effect without a restart.
func (s *PromptStore) Watch(ctx context.Context, onChange func(name string)) error {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return s.initErr
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	if err := watcher.Add(s.promptDir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", s.promptDir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				name, changed := s.handleEvent(event)
				if !changed {
					continue
				}
				s.Reload()
				logger.Debug("prompt %q changed, cache reloaded", name)
				if onChange != nil {
					onChange(name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("prompt watcher: %v", err)
			}
		}
	}()
	return nil
}

// handleEvent reports which prompt an fsnotify event touched. Chmod-only
// events, hidden files and non-prompt files are ignored.
func (s *PromptStore) handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != promptExt {
		return "", false
	}
	return strings.TrimSuffix(base, promptExt), true
}

// initialise creates the prompt directory, default files and README.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+promptExt)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+promptExt))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# StudyConnect Prompts

This directory holds the prompts used for answer generation.

## Files

- ` + "`answer.txt`" + ` - Answers a question from the retrieved context
- ` + "`summary.txt`" + ` - Summarises a discussion and its materials

## Placeholders

- ` + "`{context}`" + `, ` + "`{question}`" + ` in answer.txt
- ` + "`{chat}`" + `, ` + "`{materials}`" + ` in summary.txt

Deleting a file restores the built-in default. Long-running commands
(serve, mcp serve, chat) pick up edits without a restart.
`
	return os.WriteFile(path, []byte(content), 0600)
}
