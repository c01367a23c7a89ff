package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/store"
)

// isolate points every lookup at an empty temp dir and unsets the
// variables Load reads. godotenv never overrides a variable that is set,
// even to "", so they are removed rather than emptied.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"QUIZGEN_LLM_PROVIDER", "QUIZGEN_STORE_BACKEND", "QUIZGEN_STORE_PATH", "QUIZGEN_DB",
		"QUIZGEN_QUIZ_COUNT", "QUIZGEN_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, store.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 5, cfg.Quiz.Count)
	assert.Equal(t, "intermediate", cfg.Quiz.Difficulty)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "claude-haiku", cfg.LLM.Anthropic.Model)
	assert.False(t, cfg.LLM.Enabled())

	path, err := cfg.StorePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "quizgen", "quizgen.db"), path)
}

func TestLoad_ConfigFileEnvAndOverrides(t *testing.T) {
	dir := isolate(t)

	cfgFile := filepath.Join(dir, "quizgen.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
store:
  backend: file
  path: /tmp/topics
quiz:
  count: 8
  difficulty: easy
llm:
  provider: openai
  openai:
    api_key: from-file
    model: gpt
log:
  format: json
`), 0o644))

	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("QUIZGEN_QUIZ_COUNT=7\n"), 0o644))
	t.Setenv("QUIZGEN_LOG_LEVEL", "debug")

	cfg, err := Load(LoadOptions{
		ConfigFile: cfgFile,
		EnvFile:    envFile,
		Overrides:  map[string]any{"store.path": filepath.Join(dir, "override")},
	})
	require.NoError(t, err)

	assert.Equal(t, store.BackendFile, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "override"), cfg.Store.Path)
	assert.Equal(t, 7, cfg.Quiz.Count, "environment beats the config file")
	assert.Equal(t, "easy", cfg.Quiz.Difficulty)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "from-file", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt", cfg.LLM.OpenAI.Model)
}

func TestLoad_UserConfigDir(t *testing.T) {
	dir := isolate(t)

	confDir := filepath.Join(dir, "config", "quizgen")
	require.NoError(t, os.MkdirAll(confDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte("server:\n  addr: 127.0.0.1:9000\n"), 0o644))

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "none.env")})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoad_DiscoversProviderKey(t *testing.T) {
	dir := isolate(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "none.env")})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
	}{
		{"backend", map[string]any{"store.backend": "postgres"}},
		{"count", map[string]any{"quiz.count": 0}},
		{"new count", map[string]any{"quiz.new_count": 11}},
		{"log format", map[string]any{"log.format": "xml"}},
		{"policy", map[string]any{"quiz.policy": "random"}},
		{"provider", map[string]any{"llm.provider": "cohere"}},
		{"missing key", map[string]any{"llm.provider": "gemini"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			_, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "none.env"), Overrides: tt.overrides})
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(dir, "nope.yaml"), EnvFile: filepath.Join(dir, "none.env")})
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load(LoadOptions{
		EnvFile:   filepath.Join(dir, "none.env"),
		Overrides: map[string]any{"store.backend": "file", "store.path": filepath.Join(dir, "topics")},
	})
	require.NoError(t, err)

	st, err := cfg.OpenStore()
	require.NoError(t, err)
	defer st.Close()
	_, ok := st.(*store.FileStore)
	assert.True(t, ok)
}
