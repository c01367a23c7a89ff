package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{
		"--store", "file",
		"--db", filepath.Join(dir, "topics"),
		"--env-file", filepath.Join(dir, "missing.env"),
		"--config", filepath.Join(dir, "config.yaml"),
		"--provider", "none",
		"--log-level", "disabled",
	}, args...))
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestImportTopicsHistory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("quiz:\n  count: 3\n"), 0o644))

	topic := filepath.Join(dir, "dogs.json")
	require.NoError(t, os.WriteFile(topic, []byte(`{
		"topic": "Dogs",
		"desc": "Questions about dogs.",
		"difficulty": 2,
		"questions": [
			{"prompt": "what sound does a dog make", "answers": ["woof", "bark"]},
			{"prompt": "are dogs mammals", "answers": ["yes"]}
		]
	}`), 0o644))

	out := runCommand(t, dir, "import", topic)
	assert.Contains(t, out, "Added 2 questions to Dogs (tranche 1, 2 questions in total).")

	out = runCommand(t, dir, "topics", "list")
	assert.Contains(t, out, "Dogs")
	assert.Contains(t, out, "easy")

	out = runCommand(t, dir, "topics", "show", "dogs")
	assert.Contains(t, out, "Questions about dogs.")
	assert.Contains(t, out, "what sound does a dog make")
	assert.NotContains(t, out, "Needs work")

	out = runCommand(t, dir, "history")
	assert.Contains(t, out, "No rounds finished yet.")
}
