package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoader_Load(t *testing.T) {
	writeFile := func(t *testing.T, dir, name, contents string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
		return path
	}

	t.Run("defaults apply on an empty config", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "")

		loader, err := NewConfigLoader(path)
		require.NoError(t, err)
		cfg, err := loader.Load()
		require.NoError(t, err)

		assert.Equal(t, "questions.csv", cfg.Deck.QuestionsFile)
		assert.Equal(t, "history.csv", cfg.Deck.HistoryFile)
		assert.Equal(t, "images", cfg.Deck.ImagesDirectory)
		assert.Empty(t, cfg.Scheduler.PolicyFile)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 3306, cfg.Database.Port)
		assert.Equal(t, "quizdeck", cfg.Database.Database)
	})

	t.Run("values from the config file override defaults", func(t *testing.T) {
		dir := t.TempDir()
		policyPath := writeFile(t, dir, "policy.yaml", "success: []\n")
		path := writeFile(t, dir, "config.yaml", `deck:
  questions_file: decks/go.csv
  history_file: decks/go-history.csv
  images_directory: decks/images
scheduler:
  policy_file: `+policyPath+`
database:
  host: db.internal
  port: 3307
`)

		loader, err := NewConfigLoader(path)
		require.NoError(t, err)
		cfg, err := loader.Load()
		require.NoError(t, err)

		assert.Equal(t, filepath.Join("decks", "go.csv"), cfg.Deck.QuestionsFile)
		assert.Equal(t, filepath.Join("decks", "go-history.csv"), cfg.Deck.HistoryFile)
		assert.Equal(t, filepath.Join("decks", "images"), cfg.Deck.ImagesDirectory)
		assert.Equal(t, policyPath, cfg.Scheduler.PolicyFile)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 3307, cfg.Database.Port)
	})

	t.Run("database password comes from the environment", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "")
		t.Setenv("DB_PASSWORD", "hunter2")

		loader, err := NewConfigLoader(path)
		require.NoError(t, err)
		cfg, err := loader.Load()
		require.NoError(t, err)

		assert.Equal(t, "hunter2", cfg.Database.Password)
	})

	t.Run("policy file must exist and be readable", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "config.yaml", `scheduler:
  policy_file: `+filepath.Join(dir, "missing.yaml")+`
`)

		loader, err := NewConfigLoader(path)
		require.NoError(t, err)
		_, err = loader.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "scheduler.policy_file does not point at a readable file")
	})

	t.Run("policy file must not be a directory", func(t *testing.T) {
		dir := t.TempDir()
		policyDir := filepath.Join(dir, "policy.yaml")
		require.NoError(t, os.MkdirAll(policyDir, 0o755))
		path := writeFile(t, dir, "config.yaml", `scheduler:
  policy_file: `+policyDir+`
`)

		loader, err := NewConfigLoader(path)
		require.NoError(t, err)
		_, err = loader.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduler.policy_file does not point at a readable file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "deck: [broken")

		loader, err := NewConfigLoader(path)
		require.NoError(t, err)
		_, err = loader.Load()
		assert.Error(t, err)
	})
}
