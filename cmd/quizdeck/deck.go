package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/quizdeck/internal/deck"
	"github.com/at-ishikawa/quizdeck/internal/pdf"
	"github.com/at-ishikawa/quizdeck/internal/question"
)

func newDeckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Export and import the whole deck",
	}

	cmd.AddCommand(newDeckExportCommand())
	cmd.AddCommand(newDeckImportCommand())
	return cmd
}

func newDeckExportCommand() *cobra.Command {
	var (
		out     string
		pdfPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the deck as a zip archive or a printable PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if out == "" && pdfPath == "" {
				return errors.New("either --out or --pdf is required")
			}

			records, _, err := question.NewStore(cfg.Deck.QuestionsFile).Load()
			if err != nil {
				return fmt.Errorf("load questions: %w", err)
			}

			if out != "" {
				if err := deck.ExportZip(out, records, cfg.Deck.ImagesDirectory); err != nil {
					return fmt.Errorf("export deck: %w", err)
				}
				cmd.Printf("Exported %d questions to %s\n", len(records), out)
			}
			if pdfPath != "" {
				written, err := pdf.WriteStudySheet(records, pdfPath)
				if err != nil {
					return fmt.Errorf("write study sheet: %w", err)
				}
				cmd.Printf("Wrote study sheet to %s\n", written)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "zip archive destination")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "study sheet PDF destination")
	return cmd
}

func newDeckImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <archive.zip>",
		Short: "Import a deck archive, resetting its scheduling state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			today := question.Today(time.Now())
			imported, err := deck.ImportZip(args[0], cfg.Deck.ImagesDirectory, today)
			if err != nil {
				return fmt.Errorf("import deck: %w", err)
			}

			store := question.NewStore(cfg.Deck.QuestionsFile)
			existing, _, err := store.Load()
			if err != nil && !errors.Is(err, question.ErrStoreUnavailable) {
				return fmt.Errorf("load questions: %w", err)
			}

			merged := append(existing, imported...)
			if err := store.Save(merged); err != nil {
				return fmt.Errorf("save questions: %w", err)
			}
			cmd.Printf("Imported %d questions (%d total)\n", len(imported), len(merged))
			return nil
		},
	}
	return cmd
}
