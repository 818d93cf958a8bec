package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/history/mock_repository.go -package=mock_history

// Repository defines operations for the database-backed rollup archive.
// The flat CSV table stays the primary store; the archive is a keyed
// mirror for long-term queries.
type Repository interface {
	FindAll(ctx context.Context) ([]Record, error)
	FindByDate(ctx context.Context, date string) (*Record, error)
	Upsert(ctx context.Context, record Record) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindAll returns all archived rollup rows ordered by date.
func (r *DBRepository) FindAll(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		"SELECT date, solved_count, correct_count FROM history ORDER BY date"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(history) > %w", err)
	}
	for i := range records {
		records[i].CorrectRate = records[i].Rate()
	}
	return records, nil
}

// FindByDate returns the rollup row for a date, or nil if not found.
func (r *DBRepository) FindByDate(ctx context.Context, date string) (*Record, error) {
	var record Record
	err := r.db.GetContext(ctx, &record,
		"SELECT date, solved_count, correct_count FROM history WHERE date = ?", date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(history by date) > %w", err)
	}
	record.CorrectRate = record.Rate()
	return &record, nil
}

// Upsert inserts or replaces the rollup row keyed by date.
func (r *DBRepository) Upsert(ctx context.Context, record Record) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO history (date, solved_count, correct_count)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE solved_count = VALUES(solved_count), correct_count = VALUES(correct_count)`,
		record.Date, record.SolvedCount, record.CorrectCount)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert history) > %w", err)
	}
	return nil
}
