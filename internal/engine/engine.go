// Package engine exposes the scheduling and persistence operations the
// presentation layer consumes. Every operation returns a tagged result
// (success flag plus message) instead of raising I/O failures.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/at-ishikawa/quizdeck/internal/history"
	"github.com/at-ishikawa/quizdeck/internal/question"
	"github.com/at-ishikawa/quizdeck/internal/scheduler"
)

//go:generate mockgen -source=engine.go -destination=../mocks/engine/mock_engine.go -package=mock_engine

// QuestionRepository is the full-table read/write surface of the
// question store.
type QuestionRepository interface {
	Load() ([]question.Question, []string, error)
	Save(records []question.Question) error
}

// HistoryStore is the rollup surface of the history table.
type HistoryStore interface {
	Load() ([]history.Record, error)
	RecordOutcome(isCorrect bool, today string) error
}

// Result is the boundary response shape.
type Result struct {
	Success bool
	Message string
}

// QuestionsResult carries the loaded deck and its tag universe.
type QuestionsResult struct {
	Result
	Questions []question.Question
	AllTags   []string
}

// HistoryResult carries the loaded rollup rows.
type HistoryResult struct {
	Result
	Records []history.Record
}

// Engine holds the single in-memory deck. It is the one writer of the
// question table: every mutation is a read-modify-write of the whole
// set, serialized by the engine's mutex so at most one save is in
// flight per table.
type Engine struct {
	mu        sync.Mutex
	questions QuestionRepository
	history   HistoryStore
	scheduler *scheduler.Scheduler
	clock     func() time.Time

	deck       []question.Question
	allTags    []string
	loaded     bool
	reconciled bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// New creates an Engine over the given stores and scheduler.
func New(questions QuestionRepository, historyStore HistoryStore, sched *scheduler.Scheduler, options ...Option) *Engine {
	e := &Engine{
		questions: questions,
		history:   historyStore,
		scheduler: sched,
		clock:     time.Now,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// LoadQuestions loads the whole question table into memory and returns
// the records with the tag universe. A missing table is non-fatal: the
// caller shows the empty state.
func (e *Engine) LoadQuestions() QuestionsResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.loadLocked(); err != nil {
		if errors.Is(err, question.ErrStoreUnavailable) {
			return QuestionsResult{Result: Result{Message: "question table not found"}}
		}
		slog.Error("failed to load questions", "error", err)
		return QuestionsResult{Result: Result{Message: "failed to load questions"}}
	}

	return QuestionsResult{
		Result:    Result{Success: true, Message: "questions loaded"},
		Questions: e.deck,
		AllTags:   e.allTags,
	}
}

// SaveQuestions replaces the in-memory deck and persists the full
// table. A failed write leaves the in-memory deck as the newer state;
// the caller may retry by saving again.
func (e *Engine) SaveQuestions(records []question.Question) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.deck = records
	e.loaded = true
	if err := e.questions.Save(records); err != nil {
		slog.Error("failed to save questions", "error", err)
		return Result{Message: fmt.Sprintf("failed to save questions: %v", err)}
	}
	return Result{Success: true, Message: "questions saved"}
}

// LoadHistory loads the rollup table. A missing table yields an empty
// collection, not a failure the caller has to special-case.
func (e *Engine) LoadHistory() HistoryResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	records, err := e.history.Load()
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return HistoryResult{Result: Result{Success: true, Message: "no history yet"}}
		}
		slog.Error("failed to load history", "error", err)
		return HistoryResult{Result: Result{Message: "failed to load history"}}
	}
	return HistoryResult{
		Result:  Result{Success: true, Message: "history loaded"},
		Records: records,
	}
}

// RecordOutcome applies one answer to both tables: the schedule update
// through the question store and the daily rollup through the history
// store. The two are independent transactions with no atomicity between
// them; a failure in one does not roll back the other.
func (e *Engine) RecordOutcome(questionID string, isCorrect bool) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := question.Today(e.clock())

	if err := e.loadLocked(); err != nil {
		slog.Error("failed to load questions before recording outcome", "error", err)
		return Result{Message: "failed to load questions"}
	}

	index := -1
	for i, record := range e.deck {
		if record.ID == questionID {
			index = i
			break
		}
	}
	if index < 0 {
		return Result{Message: fmt.Sprintf("question %s not found", questionID)}
	}

	var failures []string

	updated, err := e.scheduler.RecordOutcome(e.deck[index], isCorrect, today)
	if err != nil {
		slog.Error("failed to compute schedule update", "question", questionID, "error", err)
		failures = append(failures, "schedule update failed")
	} else {
		e.deck[index] = updated
		if err := e.questions.Save(e.deck); err != nil {
			slog.Error("failed to save questions", "error", err)
			failures = append(failures, "question save failed")
		}
	}

	if err := e.history.RecordOutcome(isCorrect, today); err != nil {
		slog.Error("failed to update history", "error", err)
		failures = append(failures, "history update failed")
	}

	if len(failures) > 0 {
		return Result{Message: fmt.Sprintf("outcome recorded with errors: %v", failures)}
	}
	return Result{Success: true, Message: "outcome recorded"}
}

// ReconcileOnStartup runs the stale-date reconciliation exactly once
// per session, before any due-question computation. Repeat calls are
// no-ops.
func (e *Engine) ReconcileOnStartup() Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.reconciled {
		return Result{Success: true, Message: "already reconciled"}
	}

	if err := e.loadLocked(); err != nil {
		if errors.Is(err, question.ErrStoreUnavailable) {
			e.reconciled = true
			return Result{Success: true, Message: "question table not found"}
		}
		slog.Error("failed to load questions for reconciliation", "error", err)
		return Result{Message: "failed to load questions"}
	}

	reconciled, changed := e.scheduler.ReconcileStaleDates(e.deck, question.Today(e.clock()))
	e.deck = reconciled
	e.reconciled = true

	if !changed {
		return Result{Success: true, Message: "recommend dates already current"}
	}
	if err := e.questions.Save(e.deck); err != nil {
		slog.Error("failed to save reconciled questions", "error", err)
		return Result{Message: "failed to save reconciled questions"}
	}
	return Result{Success: true, Message: "recommend dates updated"}
}

// DueQuestions returns the records due on the current date, in table
// order. The startup reconciliation must have run first.
func (e *Engine) DueQuestions() []question.Question {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := question.Today(e.clock())
	var due []question.Question
	for _, record := range e.deck {
		if record.IsDue(today) {
			due = append(due, record)
		}
	}
	return due
}

func (e *Engine) loadLocked() error {
	if e.loaded {
		return nil
	}
	records, allTags, err := e.questions.Load()
	if err != nil {
		return err
	}
	e.deck = records
	e.allTags = allTags
	e.loaded = true
	return nil
}
