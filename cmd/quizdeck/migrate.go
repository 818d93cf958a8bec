package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/quizdeck/internal/database"
	"github.com/at-ishikawa/quizdeck/internal/datasync"
	"github.com/at-ishikawa/quizdeck/internal/history"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migration commands",
	}

	cmd.AddCommand(newMigrateImportDBCommand())
	return cmd
}

func newMigrateImportDBCommand() *cobra.Command {
	var dryRun bool
	var updateExisting bool

	cmd := &cobra.Command{
		Use:   "import-db",
		Short: "Import the history table into the database archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			records, err := history.NewStore(cfg.Deck.HistoryFile).Load()
			if err != nil {
				if errors.Is(err, history.ErrNotFound) {
					cmd.Println("No history table to import.")
					return nil
				}
				return fmt.Errorf("load history: %w", err)
			}

			db, err := database.Connect(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer func() { _ = db.Close() }()

			importer := datasync.NewImporter(history.NewDBRepository(db), cmd.OutOrStdout())
			result, err := importer.ImportHistory(ctx, records, datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			})
			if err != nil {
				return fmt.Errorf("import history: %w", err)
			}

			cmd.Printf("History import: %d new, %d updated, %d skipped\n",
				result.New, result.Updated, result.Skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify rows without writing")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "overwrite archived rows whose counts differ")
	return cmd
}
