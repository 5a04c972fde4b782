package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "allnotes.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"serve", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestCLIFlags_OverrideConfig(t *testing.T) {
	dir := t.TempDir()
	flags := &cliFlags{
		configPath: writeConfig(t, dir, "[http]\naddr = \":4000\"\n"),
		addr:       ":5000",
		logLevel:   "debug",
	}

	cfg, err := flags.load()
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)

	flags.env = "staging"
	_, err = flags.load()
	assert.Error(t, err)
}

func TestMigrateCommand_SQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "notes.db")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("SQLITE_PATH", dbPath)
	t.Setenv("LOG_LEVEL", "error")

	root := newRootCommand()
	root.SetArgs([]string{"migrate"})
	require.NoError(t, root.Execute())

	// Повторный запуск ничего не меняет и не падает.
	root = newRootCommand()
	root.SetArgs([]string{"migrate"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}
