package scheduler

import (
	"fmt"

	"github.com/at-ishikawa/quizdeck/internal/question"
)

// Scheduler applies the transition policy to in-memory question
// records. It never touches storage; callers persist the returned
// records through the question store.
type Scheduler struct {
	policy Policy
}

// New creates a Scheduler with the given policy.
func New(policy Policy) *Scheduler {
	return &Scheduler{policy: policy}
}

// RecordOutcome applies one review outcome: the level moves per the
// policy, the next update date becomes today plus the new interval, and
// the solved date becomes today. The recommend date is left alone; the
// next reconciliation pass catches it up.
func (s *Scheduler) RecordOutcome(record question.Question, isCorrect bool, today string) (question.Question, error) {
	level := clampLevel(record.Level)

	transition := s.policy.Failure[level]
	if isCorrect {
		transition = s.policy.Success[level]
	}

	nextUpdate, err := question.AddDays(today, transition.IntervalDays)
	if err != nil {
		return record, fmt.Errorf("question.AddDays(%s, %d) > %w", today, transition.IntervalDays, err)
	}

	record.Level = transition.Level
	record.NextUpdateDate = nextUpdate
	record.SolvedDate = today
	return record, nil
}

// ReconcileStaleDates advances overdue recommend dates. For every
// record whose recommend date is strictly before today: when the update
// date is strictly after today the question was already rescheduled by
// a recent answer, so the recommend date catches up to it; otherwise
// the question is overdue and pinned to today. Records with unparseable
// dates pass through unchanged.
//
// The pass is idempotent for a fixed today, so running it again without
// an intervening outcome changes nothing. It returns whether any record
// changed so callers can skip the save.
func (s *Scheduler) ReconcileStaleDates(records []question.Question, today string) ([]question.Question, bool) {
	todayDate, err := question.ParseDate(today)
	if err != nil {
		return records, false
	}

	changed := false
	reconciled := make([]question.Question, len(records))
	for i, record := range records {
		reconciled[i] = record

		recommend, err := question.ParseDate(record.RecommendDate)
		if err != nil {
			continue
		}
		update, err := question.ParseDate(record.NextUpdateDate)
		if err != nil {
			continue
		}

		if !recommend.Before(todayDate) {
			continue
		}
		if update.After(todayDate) {
			reconciled[i].RecommendDate = update.Format(question.DateLayout)
		} else {
			reconciled[i].RecommendDate = today
		}
		if reconciled[i].RecommendDate != record.RecommendDate {
			changed = true
		}
	}

	return reconciled, changed
}
