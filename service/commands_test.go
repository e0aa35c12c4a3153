package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zettaboard/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// setupTestDB points storage.path at a fresh temp directory.
func setupTestDB(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "badger")
	t.Setenv("ZETTABOARD_STORAGE_PATH", dbPath)
	return dbPath
}

func runCommand(t *testing.T, stdin string, args ...string) (string, int) {
	t.Helper()
	root := NewRootCommand("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	code := Execute(context.Background(), root, append(args, "--config", t.TempDir()))
	return out.String(), code
}

func TestRootCommand(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name           string
		args           []string
		expectedOutput string
		expectedExit   int
	}{
		{
			name:           "help command",
			args:           []string{"help"},
			expectedOutput: "Available Commands:",
		},
		{
			name:           "version command",
			args:           []string{"version"},
			expectedOutput: "zettaboard version test",
		},
		{
			name:           "unknown command",
			args:           []string{"unknown"},
			expectedOutput: `unknown command "unknown"`,
			expectedExit:   1,
		},
		{
			name:           "restore without file",
			args:           []string{"cache", "restore"},
			expectedOutput: "accepts 1 arg(s), received 0",
			expectedExit:   1,
		},
		{
			name:           "cache help",
			args:           []string{"cache"},
			expectedOutput: "Restore the database from a backup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, code := runCommand(t, "", tt.args...)

			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, code)
		})
	}
}

func TestConfigCommand(t *testing.T) {
	setupTestDB(t)
	t.Setenv("ZETTABOARD_AUTH_GOOGLE_CLIENT_SECRET", "hunter2")
	t.Setenv("ZETTABOARD_REDIS_PASSWORD", "swordfish")

	output, code := runCommand(t, "", "config")
	require.Equal(t, 0, code, output)

	assert.NotContains(t, output, "hunter2")
	assert.NotContains(t, output, "swordfish")

	var printed map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(output), &printed))
	assert.Equal(t, "dev", printed["env"])
	api := printed["api"].(map[string]any)
	assert.Equal(t, "https://jsonplaceholder.typicode.com", api["base_url"])
	assert.Equal(t, "10s", api["timeout"])
	redis := printed["redis"].(map[string]any)
	assert.Equal(t, "********", redis["password"])
}

func TestConfigCommandInvalid(t *testing.T) {
	setupTestDB(t)
	t.Setenv("ZETTABOARD_CACHE_DRIVER", "memcached")

	output, code := runCommand(t, "", "config")
	assert.Equal(t, 1, code)
	assert.Contains(t, output, "invalid config")
}

func TestInitDb(t *testing.T) {
	dbPath := setupTestDB(t)

	t.Run("initialize new database", func(t *testing.T) {
		output, code := runCommand(t, "", "cache", "init")

		assert.Equal(t, 0, code)
		assert.Contains(t, output, "Database initialized successfully")
		assert.DirExists(t, dbPath)
	})

	t.Run("initialize existing database", func(t *testing.T) {
		output, _ := runCommand(t, "", "cache", "init")

		assert.Contains(t, output, "Database already exists")
	})
}

func TestClean(t *testing.T) {
	dbPath := setupTestDB(t)

	t.Run("clean non-existent database", func(t *testing.T) {
		output, _ := runCommand(t, "", "cache", "clean")

		assert.Contains(t, output, "Database is already clean")
	})

	t.Run("clean existing database - cancelled", func(t *testing.T) {
		runCommand(t, "", "cache", "init")
		require.DirExists(t, dbPath)

		output, _ := runCommand(t, "n\n", "cache", "clean")

		assert.Contains(t, output, "Operation cancelled")
		assert.DirExists(t, dbPath)
	})

	t.Run("clean existing database - confirmed", func(t *testing.T) {
		output, _ := runCommand(t, "y\n", "cache", "clean")

		assert.Contains(t, output, "Database cleaned successfully")
		assert.NoDirExists(t, dbPath)
	})

	t.Run("clean with --yes", func(t *testing.T) {
		runCommand(t, "", "cache", "init")

		output, _ := runCommand(t, "", "cache", "clean", "--yes")

		assert.Contains(t, output, "Database cleaned successfully")
		assert.NoDirExists(t, dbPath)
	})
}

func TestBackup(t *testing.T) {
	dbPath := setupTestDB(t)

	t.Run("backup non-existent database", func(t *testing.T) {
		output, _ := runCommand(t, "", "cache", "backup")

		assert.Contains(t, output, "No database exists to backup")
	})

	t.Run("backup existing database", func(t *testing.T) {
		runCommand(t, "", "cache", "init")

		output, code := runCommand(t, "", "cache", "backup")

		assert.Equal(t, 0, code)
		assert.Contains(t, output, "Database backed up successfully")
		assert.DirExists(t, filepath.Join(filepath.Dir(dbPath), "backups"))
	})
}

func seedPreference(t *testing.T, dbPath, visitor, theme string) {
	t.Helper()
	store, err := repositories.NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, repositories.NewBadgerPreferenceRepository(store.DB()).Set(visitor, "theme", theme))
}

func readPreference(t *testing.T, dbPath, visitor string) (string, error) {
	t.Helper()
	store, err := repositories.NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()
	return repositories.NewBadgerPreferenceRepository(store.DB()).Get(visitor, "theme")
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)

	t.Run("restore non-existent backup", func(t *testing.T) {
		output, code := runCommand(t, "", "cache", "restore", "nonexistent.db")

		assert.Equal(t, 1, code)
		assert.Contains(t, output, "backup file does not exist")
	})

	t.Run("restore empty backup", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "empty.db")
		require.NoError(t, os.WriteFile(empty, nil, 0644))

		output, code := runCommand(t, "", "cache", "restore", empty)

		assert.Equal(t, 1, code)
		assert.Contains(t, output, "backup file is empty")
	})

	seedPreference(t, dbPath, "visitor-1", "light")
	output, code := runCommand(t, "", "cache", "backup")
	require.Equal(t, 0, code, output)
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(dbPath), "backups", "backup_*.db"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	backupFile := matches[0]

	t.Run("restore to clean state", func(t *testing.T) {
		runCommand(t, "", "cache", "clean", "--yes")
		require.NoDirExists(t, dbPath)

		output, code := runCommand(t, "", "cache", "restore", backupFile)

		assert.Equal(t, 0, code)
		assert.Contains(t, output, "Database restored successfully")
		theme, err := readPreference(t, dbPath, "visitor-1")
		require.NoError(t, err)
		assert.Equal(t, "light", theme)
	})

	t.Run("restore with existing database - cancelled", func(t *testing.T) {
		seedPreference(t, dbPath, "visitor-2", "dark")

		output, _ := runCommand(t, "n\n", "cache", "restore", backupFile)

		assert.Contains(t, output, "Operation cancelled")
		theme, err := readPreference(t, dbPath, "visitor-2")
		require.NoError(t, err)
		assert.Equal(t, "dark", theme)
	})

	t.Run("restore with existing database - confirmed", func(t *testing.T) {
		output, _ := runCommand(t, "y\n", "cache", "restore", backupFile)

		assert.Contains(t, output, "Database restored successfully")
		_, err := readPreference(t, dbPath, "visitor-2")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}
