// Package datasync imports the flat history table into the database
// archive.
package datasync

import (
	"context"
	"fmt"
	"io"

	"github.com/at-ishikawa/quizdeck/internal/history"
)

// ImportResult tracks counts for one import run.
type ImportResult struct {
	New     int
	Updated int
	Skipped int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer reads rollup rows and writes them to the archive.
type Importer struct {
	repo   history.Repository
	writer io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(repo history.Repository, writer io.Writer) *Importer {
	return &Importer{
		repo:   repo,
		writer: writer,
	}
}

// ImportHistory upserts the given rollup rows into the archive. Rows
// already archived with the same counts are skipped; differing rows are
// updated only with UpdateExisting. DryRun classifies without writing.
func (imp *Importer) ImportHistory(ctx context.Context, records []history.Record, opts ImportOptions) (*ImportResult, error) {
	archived, err := imp.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load archived history: %w", err)
	}
	cache := make(map[string]history.Record, len(archived))
	for _, record := range archived {
		cache[record.Date] = record
	}

	result := &ImportResult{}
	for _, record := range records {
		existing, found := cache[record.Date]

		switch {
		case !found:
			_, _ = fmt.Fprintf(imp.writer, "  [NEW]  %s (%d solved, %d correct)\n", record.Date, record.SolvedCount, record.CorrectCount)
			result.New++
		case existing.SolvedCount == record.SolvedCount && existing.CorrectCount == record.CorrectCount:
			_, _ = fmt.Fprintf(imp.writer, "  [SKIP]  %s\n", record.Date)
			result.Skipped++
			continue
		case opts.UpdateExisting:
			_, _ = fmt.Fprintf(imp.writer, "  [UPDATE]  %s (%d solved, %d correct)\n", record.Date, record.SolvedCount, record.CorrectCount)
			result.Updated++
		default:
			_, _ = fmt.Fprintf(imp.writer, "  [SKIP]  %s (differs, use --update-existing)\n", record.Date)
			result.Skipped++
			continue
		}

		if opts.DryRun {
			continue
		}
		if err := imp.repo.Upsert(ctx, record); err != nil {
			return nil, fmt.Errorf("upsert history row %s: %w", record.Date, err)
		}
	}

	return result, nil
}
