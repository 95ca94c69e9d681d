package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnassist/internal/app"
	"github.com/abhisek/learnassist/internal/assistant"
	"github.com/abhisek/learnassist/internal/logger"
	"github.com/abhisek/learnassist/internal/store"
	"github.com/abhisek/learnassist/internal/study"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Start the terminal study app",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _ := cmd.Flags().GetString("doc")
		return runStudy(cmd, doc)
	},
}

func init() {
	studyCmd.Flags().String("doc", "", "Open a study session on this document right away")
}

// runStudy opens the store, builds dependencies, and launches the TUI.
func runStudy(cmd *cobra.Command, doc string) error {
	ctx := cmd.Context()
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}

	// Log lines on stderr would corrupt the alt screen.
	logFile, err := os.OpenFile(filepath.Join(filepath.Dir(dbPath), "learnassist.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger.InitWriter(logFile, cfg.Log.Level, "json")

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	events := st.EventRepo()
	provider := optionalProvider(ctx, events)

	factory, err := study.NewFactory(cfg, provider)
	if err != nil {
		return err
	}

	opts := app.Options{
		Factory:      factory,
		Events:       events,
		DocumentPath: doc,
	}
	if provider != nil {
		a, err := assistant.New(provider, assistant.Options{})
		if err != nil {
			return err
		}
		opts.Assistant = a
	}

	return app.Run(opts)
}
