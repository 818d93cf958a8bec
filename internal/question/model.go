// Package question provides the question domain model and its CSV-backed store.
package question

import (
	"strings"
	"time"
)

// Question types supported by the deck.
const (
	TypeMultipleChoice = "multiple-choice"
	TypeShortAnswer    = "short-answer"
)

// DateLayout is the calendar date format used across all tables.
const DateLayout = "2006-01-02"

// deckZone pins "today" to UTC+9 regardless of the host timezone, so a
// deck file moved between machines keeps a consistent notion of the
// study day.
var deckZone = time.FixedZone("UTC+9", 9*60*60)

// Today returns the current calendar date in the deck timezone.
func Today(now time.Time) string {
	return now.In(deckZone).Format(DateLayout)
}

// ParseDate parses a yyyy-MM-dd calendar date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// AddDays returns the date that is days after the given yyyy-MM-dd date.
func AddDays(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}

// Question is one row of the question table.
//
// ID and Checked are session-only: they are assigned on load, consumed
// by the presentation layer, and stripped before every save.
type Question struct {
	ID          string
	Title       string
	Type        string
	Options     [4]string
	Answer      string
	Image       string
	Level       int
	CreatedDate string
	// RecommendDate is the date the question is due to be shown.
	RecommendDate string
	// NextUpdateDate is the date the current interval elapses.
	NextUpdateDate string
	Description    string
	SolvedDate     string
	Tags           []string
	Checked        bool
}

// NormalizeTags splits a comma-joined tag field into a trimmed,
// order-preserving set without duplicates or empty entries.
func NormalizeTags(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}

	var tags []string
	seen := make(map[string]bool)
	for _, tag := range strings.Split(field, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// MergeTags appends extra tags to the question's tag set, keeping the
// existing order and dropping duplicates.
func (q *Question) MergeTags(extra []string) {
	seen := make(map[string]bool, len(q.Tags))
	for _, tag := range q.Tags {
		seen[tag] = true
	}
	for _, tag := range extra {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		q.Tags = append(q.Tags, tag)
	}
}

// HasTag reports whether the question carries the given tag.
func (q Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsDue reports whether the question should be surfaced on the given
// date. A question with an unparseable recommend date is never due.
func (q Question) IsDue(today string) bool {
	recommend, err := ParseDate(q.RecommendDate)
	if err != nil {
		return false
	}
	todayDate, err := ParseDate(today)
	if err != nil {
		return false
	}
	return !recommend.After(todayDate)
}
