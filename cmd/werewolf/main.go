// Command werewolf runs LLM-driven games of Werewolf: as an HTTP service
// (serve), as a single game in the terminal (run, resume), or as a report
// over a saved game (summary).
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jacky88927/werewolf-llm-game/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "werewolf",
	Short:         "A werewolf game engine where LLM agents play the seats",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Best effort: a missing .env just means the keys come from elsewhere.
	_ = godotenv.Load()

	rootCmd.AddCommand(serveCmd, runCmd, resumeCmd, summaryCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, newLogger(cfg.LogLevel), nil
}
