package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDeckConfig(t *testing.T, dir string) string {
	t.Helper()

	questionsPath := filepath.Join(dir, "questions.csv")
	contents := fmt.Sprintf(`deck:
  questions_file: %s
  history_file: %s
  images_directory: %s
`, questionsPath, filepath.Join(dir, "history.csv"), filepath.Join(dir, "images"))

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(contents), 0o644))

	previous := configFile
	configFile = configPath
	t.Cleanup(func() {
		configFile = previous
	})
	return questionsPath
}

func runQuestionAdd(t *testing.T, args ...string) error {
	t.Helper()

	cmd := newQuestionAddCommand()
	cmd.SetArgs(args)
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	return cmd.Execute()
}

func TestQuestionAddCommand(t *testing.T) {
	t.Run("appends to the existing deck", func(t *testing.T) {
		dir := t.TempDir()
		questionsPath := withDeckConfig(t, dir)
		existing := strings.Join([]string{
			"title,type,select1,select2,select3,select4,answer,img,level,date,recommenddate,update,description,solveddate,tag",
			"existing question,short-answer,,,,,x,,1,2024-01-01,2024-01-03,2024-01-05,,,go",
		}, "\n") + "\n"
		require.NoError(t, os.WriteFile(questionsPath, []byte(existing), 0o644))

		require.NoError(t, runQuestionAdd(t, "--title", "brand new", "--answer", "a"))

		got, err := os.ReadFile(questionsPath)
		require.NoError(t, err)
		assert.Contains(t, string(got), "existing question")
		assert.Contains(t, string(got), "brand new")
	})

	t.Run("an unreadable deck aborts before the save", func(t *testing.T) {
		dir := t.TempDir()
		questionsPath := withDeckConfig(t, dir)
		// The bare quote makes the second row unparseable.
		broken := strings.Join([]string{
			"title,type,answer,level",
			"existing question,short-answer,x,1",
			`bad"row,short-answer,x,0`,
		}, "\n") + "\n"
		require.NoError(t, os.WriteFile(questionsPath, []byte(broken), 0o644))

		err := runQuestionAdd(t, "--title", "brand new", "--answer", "a")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load questions")

		got, readErr := os.ReadFile(questionsPath)
		require.NoError(t, readErr)
		assert.Equal(t, broken, string(got), "a failed load must leave the table untouched")
	})

	t.Run("a missing deck starts a new table", func(t *testing.T) {
		dir := t.TempDir()
		questionsPath := withDeckConfig(t, dir)

		require.NoError(t, runQuestionAdd(t, "--title", "brand new", "--answer", "a"))

		got, err := os.ReadFile(questionsPath)
		require.NoError(t, err)
		assert.Contains(t, string(got), "brand new")
	})

	t.Run("rejects an invalid entry", func(t *testing.T) {
		dir := t.TempDir()
		withDeckConfig(t, dir)

		err := runQuestionAdd(t, "--title", "no answer given")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid question")
	})
}
