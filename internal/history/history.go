// Package history maintains the per-day solved/correct rollup table.
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/at-ishikawa/quizdeck/internal/question"
)

// ErrNotFound is returned by Load when the history table does not exist
// yet. Callers recover with an empty collection.
var ErrNotFound = errors.New("history table does not exist")

var columns = []string{"date", "solvedCount", "correctCount", "correctRate"}

// Record is one calendar date's rollup. CorrectRate is derived from the
// counts on every read and is never an independent source of truth.
type Record struct {
	Date         string `db:"date"`
	SolvedCount  int    `db:"solved_count"`
	CorrectCount int    `db:"correct_count"`
	CorrectRate  int    `db:"-"`
}

// Rate returns the integer percentage used for display.
func (r Record) Rate() int {
	if r.SolvedCount <= 0 {
		return 0
	}
	return int(math.Round(float64(r.CorrectCount) / float64(r.SolvedCount) * 100))
}

// rawRow preserves the stored field strings so an upsert rewrites
// untouched rows byte for byte.
type rawRow struct {
	date         string
	solvedCount  string
	correctCount string
	correctRate  string
}

// Store owns the on-disk history table. One row per calendar date,
// upsert on every outcome, full-file rewrite.
type Store struct {
	path string
}

// NewStore creates a Store for the history table at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads all rollup rows. Rows with an unparseable date are
// dropped; the correct rate is recomputed from the counts.
func (s *Store) Load() ([]Record, error) {
	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, row := range rows {
		if _, err := question.ParseDate(row.date); err != nil {
			continue
		}
		record := Record{
			Date:         row.date,
			SolvedCount:  parseCount(row.solvedCount),
			CorrectCount: parseCount(row.correctCount),
		}
		record.CorrectRate = record.Rate()
		records = append(records, record)
	}
	return records, nil
}

// RecordOutcome upserts today's row: the solved count grows by one, the
// correct count by one on a correct answer, and the stored rate is
// recomputed as a 2-decimal percentage.
func (s *Store) RecordOutcome(isCorrect bool, today string) error {
	rows, err := s.readRows()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	found := false
	for i, row := range rows {
		if row.date != today {
			continue
		}
		solved := parseCount(row.solvedCount) + 1
		correct := parseCount(row.correctCount)
		if isCorrect {
			correct++
		}
		rows[i].solvedCount = strconv.Itoa(solved)
		rows[i].correctCount = strconv.Itoa(correct)
		rows[i].correctRate = formatRate(correct, solved)
		found = true
		break
	}
	if !found {
		rows = append(rows, newRow(isCorrect, today))
	}

	return s.writeRows(rows)
}

func newRow(isCorrect bool, today string) rawRow {
	correct := 0
	if isCorrect {
		correct = 1
	}
	return rawRow{
		date:         today,
		solvedCount:  "1",
		correctCount: strconv.Itoa(correct),
		correctRate:  formatRate(correct, 1),
	}
}

// formatRate is the persisted 2-decimal form. The integer form used for
// display lives in Record.Rate; the two are intentionally separate.
func formatRate(correct, solved int) string {
	if solved <= 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(correct)/float64(solved)*100, 'f', 2, 64)
}

func (s *Store) readRows() ([]rawRow, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("os.Open(%s) > %w", s.path, ErrNotFound)
		}
		return nil, fmt.Errorf("os.Open(%s) > %w", s.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("csv.Reader.Read(header) > %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	value := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var rows []rawRow
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv.Reader.Read() > %w", err)
		}
		rows = append(rows, rawRow{
			date:         value(row, "date"),
			solvedCount:  value(row, "solvedCount"),
			correctCount: value(row, "correctCount"),
			correctRate:  value(row, "correctRate"),
		})
	}
	return rows, nil
}

func (s *Store) writeRows(rows []rawRow) error {
	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", s.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("csv.Writer.Write(header) > %w", err)
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.date, row.solvedCount, row.correctCount, row.correctRate}); err != nil {
			return fmt.Errorf("csv.Writer.Write(%s) > %w", row.date, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv.Writer.Flush() > %w", err)
	}
	return nil
}

func parseCount(value string) int {
	count, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || count < 0 {
		return 0
	}
	return count
}
