package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/app"
	"github.com/abhisek/quizgen/internal/screen"
)

var rootCmd = &cobra.Command{
	Use:   "quizgen",
	Short: "Quiz yourself on any topic",
	Long: `quizgen is a terminal quiz. Pick a topic and an LLM writes the questions;
every question is kept in a growing bank for that topic, so later rounds
can mix fresh questions with ones you have already seen.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, runtimeOptions{logToFile: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		return app.Run(cmd.Context(), screen.Deps{Quiz: rt.quiz, Defaults: rt.cfg.Quiz})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default is $XDG_CONFIG_HOME/quizgen/config.yaml)")
	pf.String("env-file", "", "Dotenv file to load (default .env)")
	pf.String("store", "", "Storage backend: sqlite or file (overrides QUIZGEN_STORE_BACKEND)")
	pf.String("db", "", "Path to the SQLite database or the file store directory (overrides QUIZGEN_STORE_PATH)")
	pf.String("data-dir", "", "Directory for the default database or file store")
	pf.String("provider", "", "LLM provider: anthropic, openai, gemini, openrouter, mock or none")
	pf.String("log-level", "", "Log level: trace, debug, info, warn, error or disabled")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
