package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/quizdeck/internal/config"
	"github.com/at-ishikawa/quizdeck/internal/engine"
	"github.com/at-ishikawa/quizdeck/internal/history"
	"github.com/at-ishikawa/quizdeck/internal/question"
	"github.com/at-ishikawa/quizdeck/internal/scheduler"
)

var (
	configFile string
)

func main() {
	var debugMode bool
	rootCommand := cobra.Command{
		Use:           "quizdeck",
		Short:         "Manage a deck of study questions with spaced repetition",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	rootCommand.AddCommand(
		newQuestionCommand(),
		newSolveCommand(),
		newStatsCommand(),
		newDeckCommand(),
		newMigrateCommand(),
	)
	if err := rootCommand.Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

// setupLogger configures the default logger based on debug mode
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newEngine(cfg *config.Config) (*engine.Engine, error) {
	policy, err := scheduler.LoadPolicy(cfg.Scheduler.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("load scheduler policy: %w", err)
	}

	return engine.New(
		question.NewStore(cfg.Deck.QuestionsFile),
		history.NewStore(cfg.Deck.HistoryFile),
		scheduler.New(policy),
	), nil
}
