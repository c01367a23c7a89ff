// Package config loads quizgen settings from defaults, a config file, a
// .env file, QUIZGEN_* environment variables and command flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/store"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "QUIZGEN"

// Config is the full application configuration.
type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	LLM    llm.Config   `mapstructure:"llm"`
	Log    LogConfig    `mapstructure:"log"`
	Quiz   QuizConfig   `mapstructure:"quiz"`
	Server ServerConfig `mapstructure:"server"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=sqlite file"`

	// Path is the database file for sqlite or the directory for file.
	// Empty selects the per-backend default under the data directory.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `mapstructure:"format" validate:"oneof=console json"`

	// File receives the log instead of stderr when set.
	File string `mapstructure:"file"`
}

// QuizConfig holds the defaults offered when setting up a round.
type QuizConfig struct {
	Count      int    `mapstructure:"count" validate:"min=1,max=100"`
	NewCount   int    `mapstructure:"new_count" validate:"min=0,max=10"`
	Difficulty string `mapstructure:"difficulty" validate:"required"`
	Policy     string `mapstructure:"policy" validate:"omitempty,oneof=new existing mix"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// ConfigFile is an explicit config file. When empty, config.yaml in
	// the user config directory is read if it exists.
	ConfigFile string

	// EnvFile is a dotenv file; ".env" when empty. A missing file is not
	// an error.
	EnvFile string

	// Overrides are applied last, keyed like "store.backend".
	Overrides map[string]any
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()

	v.SetDefault("store.backend", store.BackendSQLite)
	v.SetDefault("store.path", "")

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", llmDefaults.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", llmDefaults.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", llmDefaults.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	v.SetDefault("quiz.count", 5)
	v.SetDefault("quiz.new_count", 0)
	v.SetDefault("quiz.difficulty", "intermediate")
	v.SetDefault("quiz.policy", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
}

// Load builds the configuration. Provider API keys are discovered from the
// vendors' standard variables when no provider is configured.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return nil, err
	}
	for key, val := range opts.Overrides {
		v.Set(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLM, _ = llm.Discover(cfg.LLM)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(dir, "quizgen"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return c.LLM.Validate()
}

// StorePath returns the configured store location, or the backend's
// default.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	if c.Store.Backend == store.BackendFile {
		return store.DefaultFileDir()
	}
	return store.DefaultDBPath()
}

// OpenStore opens the configured store.
func (c *Config) OpenStore() (store.Store, error) {
	path, err := c.StorePath()
	if err != nil {
		return nil, err
	}
	return store.Open(c.Store.Backend, path)
}
