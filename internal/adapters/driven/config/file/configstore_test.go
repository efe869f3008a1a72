package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".studyconnect", DefaultConfigFile), store.Path())
}

func TestNewConfigStore_UnsupportedExtension(t *testing.T) {
	_, err := NewConfigStore(filepath.Join(t.TempDir(), "config.ini"))

	assert.ErrorIs(t, err, ErrUnsupportedConfigFormat)
}

func TestNewConfigStore_NestedDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "config.yaml")

	_, err := NewConfigStore(path)

	require.NoError(t, err)
	assert.DirExists(t, filepath.Dir(path))
}

func TestConfigStore_LoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
data_dir = "/srv/rag"

[retrieval]
top_k = 8

[llm]
requests_per_second = 1.5
provider = "openai"

[schedule]
enabled = true

[ingest]
extensions = [".txt", ".pdf"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/rag", store.GetString("storage.data_dir"))
	assert.Equal(t, 8, store.GetInt("retrieval.top_k"))
	assert.InDelta(t, 1.5, store.GetFloat("llm.requests_per_second"), 1e-9)
	assert.True(t, store.GetBool("schedule.enabled"))
	assert.Equal(t, []string{".txt", ".pdf"}, store.GetStringSlice("ingest.extensions"))
}

func TestConfigStore_LoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
storage:
  backend: bolt
retrieval:
  top_k: 3
llm:
  requests_per_second: 2
embedding:
  cache_ttl: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, "bolt", store.GetString("storage.backend"))
	assert.Equal(t, 3, store.GetInt("retrieval.top_k"))
	assert.InDelta(t, 2.0, store.GetFloat("llm.requests_per_second"), 1e-9)
	assert.Equal(t, "5m", store.GetString("embedding.cache_ttl"))
}

func TestConfigStore_TypedGettersOnWrongType(t *testing.T) {
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "text"))

	assert.Equal(t, 0, store.GetInt("k"))
	assert.Equal(t, 0.0, store.GetFloat("k"))
	assert.False(t, store.GetBool("k"))
	assert.Nil(t, store.GetStringSlice("k"))
	assert.Equal(t, "", store.GetString("missing"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_SaveReloadNests(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config"+ext)
			store, err := NewConfigStore(path)
			require.NoError(t, err)

			require.NoError(t, store.Set("embedding.provider", "hash"))
			require.NoError(t, store.Set("embedding.dimensions", 64))
			require.NoError(t, store.Set("retrieval.top_k", 7))

			reloaded, err := NewConfigStore(path)
			require.NoError(t, err)

			assert.Equal(t, "hash", reloaded.GetString("embedding.provider"))
			assert.Equal(t, 64, reloaded.GetInt("embedding.dimensions"))
			assert.Equal(t, 7, reloaded.GetInt("retrieval.top_k"))
			assert.Equal(t, []string{"embedding.dimensions", "embedding.provider", "retrieval.top_k"}, reloaded.Keys())
		})
	}
}

func TestConfigStore_SaveConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	require.NoError(t, store.Set("llm", "ollama"))

	err = store.Set("llm.model", "llama3.2")

	assert.ErrorContains(t, err, "conflicts")
}

func TestConfigStore_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	store, err := NewConfigStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.api_key", "secret"))

	info, err := os.Stat(path)

	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_LoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0600))

	_, err := NewConfigStore(path)

	assert.Error(t, err)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	assert.Empty(t, store.Keys())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("retrieval.top_k", 5)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("retrieval.top_k")
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, store.GetInt("retrieval.top_k"))
}

func TestUnflattenMap(t *testing.T) {
	nested, err := unflattenMap(map[string]any{"a.b.c": 1, "a.d": "x", "e": true})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": map[string]any{"c": 1}, "d": "x"},
		"e": true,
	}, nested)
	assert.Equal(t, map[string]any{"a.b.c": 1, "a.d": "x", "e": true}, flattenMap(nested, ""))
}
