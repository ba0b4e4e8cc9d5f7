package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(home, ".branchseek", "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set(KeyGitHubToken, "ghp_example")
	require.NoError(t, err)

	val, ok := store.Get(KeyGitHubToken)
	assert.True(t, ok)
	assert.Equal(t, "ghp_example", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyGitHubToken, "ghp_example"))
	require.NoError(t, store.Set(KeyServerPort, 3000))
	require.NoError(t, store.Set(KeyVerbose, true))
	require.NoError(t, store.Set(KeyFileExtensions, []string{".js", ".go"}))

	assert.Equal(t, "ghp_example", store.GetString(KeyGitHubToken))
	assert.Equal(t, 3000, store.GetInt(KeyServerPort))
	assert.True(t, store.GetBool(KeyVerbose))
	assert.Equal(t, []string{".js", ".go"}, store.GetStringSlice(KeyFileExtensions))

	t.Run("missing keys return zero values", func(t *testing.T) {
		assert.Equal(t, "", store.GetString("nonexistent"))
		assert.Equal(t, 0, store.GetInt("nonexistent"))
		assert.False(t, store.GetBool("nonexistent"))
		assert.Nil(t, store.GetStringSlice("nonexistent"))
	})

	t.Run("wrong types return zero values", func(t *testing.T) {
		assert.Equal(t, "", store.GetString(KeyServerPort))
		assert.Equal(t, 0, store.GetInt(KeyGitHubToken))
		assert.False(t, store.GetBool(KeyGitHubToken))
	})
}

func TestConfigStore_BranchDelay(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	t.Run("falls back when unset", func(t *testing.T) {
		assert.Equal(t, time.Second, store.BranchDelay(time.Second))
	})

	t.Run("converts milliseconds", func(t *testing.T) {
		require.NoError(t, store.Set(KeyBranchDelayMS, 250))
		assert.Equal(t, 250*time.Millisecond, store.BranchDelay(time.Second))
	})

	t.Run("falls back on non-positive", func(t *testing.T) {
		require.NoError(t, store.Set(KeyBranchDelayMS, -5))
		assert.Equal(t, time.Second, store.BranchDelay(time.Second))
	})
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store1.Set(KeyGitHubToken, "ghp_example"))
	require.NoError(t, store1.Set(KeyServerPort, 3000))
	require.NoError(t, store1.Set(KeyVerbose, true))

	// New store instance loads from the same file
	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ghp_example", store2.GetString(KeyGitHubToken))
	assert.Equal(t, 3000, store2.GetInt(KeyServerPort))
	assert.True(t, store2.GetBool(KeyVerbose))
}

func TestConfigStore_NestedTablesFlattened(t *testing.T) {
	tmpDir := t.TempDir()

	content := []byte("[github]\ntoken = \"ghp_example\"\n\n[search]\nbranch_delay_ms = 500\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ghp_example", store.GetString(KeyGitHubToken))
	assert.Equal(t, 500, store.GetInt(KeyBranchDelayMS))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyGitHubToken, "ghp_example"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()

	corrupted := []byte("this is not valid TOML {{{[[")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), corrupted, 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte{}, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetString(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_GetInt_Int64Type(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	// TOML unmarshal produces int64
	store.mu.Lock()
	store.data[KeyServerPort] = int64(9999)
	store.mu.Unlock()

	assert.Equal(t, 9999, store.GetInt(KeyServerPort))
}
