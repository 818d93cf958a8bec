package question

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lithammer/shortuuid/v4"
)

// ErrStoreUnavailable is returned by Load when the question table does
// not exist yet. Callers recover by showing an empty deck.
var ErrStoreUnavailable = errors.New("question table does not exist")

// columns is the persisted column order of the question table. The id
// and checked fields are session-only and have no column.
var columns = []string{
	"title", "type",
	"select1", "select2", "select3", "select4",
	"answer", "img", "level",
	"date", "recommenddate", "update",
	"description", "solveddate", "tag",
}

// Store owns the on-disk representation of the question table. All
// writes are full-table overwrites; there is no row-level update path.
type Store struct {
	path string
}

// NewStore creates a Store for the question table at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the question table.
func (s *Store) Path() string {
	return s.path
}

// Load reads the whole question table and returns the records together
// with the tag universe across all records. Each record gets a fresh
// session id and checked=false. Values under header columns outside the
// known set are folded into the record's tags.
func (s *Store) Load() ([]Question, []string, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("os.Open(%s) > %w", s.path, ErrStoreUnavailable)
		}
		return nil, nil, fmt.Errorf("os.Open(%s) > %w", s.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("csv.Reader.Read(header) > %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	known := make(map[string]bool, len(columns))
	for _, name := range columns {
		known[name] = true
	}

	var records []Question
	tagSet := newTagUniverse()
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("csv.Reader.Read() > %w", err)
		}
		if isEmptyRow(row) {
			continue
		}

		record := parseRow(header, row, known)
		record.ID = GenerateID(records)
		tagSet.add(record.Tags)
		records = append(records, record)
	}

	return records, tagSet.ordered, nil
}

// Save serializes all records and overwrites the question table.
// Session-only fields are stripped.
func (s *Store) Save(records []Question) error {
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
	for _, record := range records {
		if err := writer.Write(serializeRow(record)); err != nil {
			return fmt.Errorf("csv.Writer.Write(%s) > %w", record.Title, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv.Writer.Flush() > %w", err)
	}
	return nil
}

// GenerateID produces a short random session id unique among the
// existing records. Collisions are vanishingly rare for practical deck
// sizes, so the loop terminates in O(1) expected tries.
func GenerateID(existing []Question) string {
	for {
		id := "id-" + strings.ToLower(shortuuid.New()[:9])
		if !idTaken(existing, id) {
			return id
		}
	}
}

func idTaken(existing []Question, id string) bool {
	for _, record := range existing {
		if record.ID == id {
			return true
		}
	}
	return false
}

func parseRow(header, row []string, known map[string]bool) Question {
	value := func(name string) string {
		for i, column := range header {
			if column == name && i < len(row) {
				return row[i]
			}
		}
		return ""
	}

	record := Question{
		Title:          value("title"),
		Type:           value("type"),
		Answer:         value("answer"),
		Image:          value("img"),
		Level:          parseLevel(value("level")),
		CreatedDate:    value("date"),
		RecommendDate:  value("recommenddate"),
		NextUpdateDate: value("update"),
		Description:    value("description"),
		SolvedDate:     value("solveddate"),
		Tags:           NormalizeTags(value("tag")),
	}
	for i := range record.Options {
		record.Options[i] = value(fmt.Sprintf("select%d", i+1))
	}

	// Overflow rule: columns outside the known set carry stray tags.
	for i, column := range header {
		if known[column] || i >= len(row) {
			continue
		}
		record.MergeTags(NormalizeTags(row[i]))
	}

	return record
}

func serializeRow(record Question) []string {
	return []string{
		record.Title, record.Type,
		record.Options[0], record.Options[1], record.Options[2], record.Options[3],
		record.Answer, record.Image, strconv.Itoa(record.Level),
		record.CreatedDate, record.RecommendDate, record.NextUpdateDate,
		record.Description, record.SolvedDate, strings.Join(record.Tags, ","),
	}
}

func parseLevel(value string) int {
	level, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || level < 0 {
		return 0
	}
	if level > 3 {
		return 3
	}
	return level
}

func isEmptyRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// tagUniverse collects tags across records, first occurrence order.
type tagUniverse struct {
	seen    map[string]bool
	ordered []string
}

func newTagUniverse() *tagUniverse {
	return &tagUniverse{seen: make(map[string]bool)}
}

func (u *tagUniverse) add(tags []string) {
	for _, tag := range tags {
		if u.seen[tag] {
			continue
		}
		u.seen[tag] = true
		u.ordered = append(u.ordered, tag)
	}
}
