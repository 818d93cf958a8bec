// Package cli implements the terminal presentation layer: the
// interactive solve session and the statistics report.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/quizdeck/internal/engine"
	"github.com/at-ishikawa/quizdeck/internal/question"
)

var errEnd = errors.New("end of session")

// SolveSession runs an interactive review of the due questions.
type SolveSession struct {
	engine       *engine.Engine
	tag          string
	limit        int
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	correct      *color.Color
	wrong        *color.Color

	solvedCount  int
	correctCount int
}

// NewSolveSession creates a session over the engine. tag narrows the
// due set; limit caps the number of questions (0 means all).
func NewSolveSession(e *engine.Engine, tag string, limit int) *SolveSession {
	return &SolveSession{
		engine:       e,
		tag:          tag,
		limit:        limit,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		correct:      color.New(color.FgBlue, color.Bold),
		wrong:        color.New(color.FgRed, color.Bold),
	}
}

// Run reconciles stale recommend dates, computes the due set, and walks
// it until the user quits, the set is exhausted, or an interrupt
// arrives.
func (s *SolveSession) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	if result := s.engine.ReconcileOnStartup(); !result.Success {
		return fmt.Errorf("reconcile on startup: %s", result.Message)
	}

	due := s.dueSet()
	if len(due) == 0 {
		fmt.Fprintln(s.stdoutWriter, "No questions due today.")
		return nil
	}

	errCh := make(chan error)
	go func() {
		defer close(errCh)
		for i, record := range due {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := s.askQuestion(i, record); err != nil {
				if errors.Is(err, errEnd) {
					return
				}
				errCh <- err
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(s.stdoutWriter, "\nReceived interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	s.printSummary()
	return nil
}

func (s *SolveSession) dueSet() []question.Question {
	var due []question.Question
	for _, record := range s.engine.DueQuestions() {
		if s.tag != "" && !record.HasTag(s.tag) {
			continue
		}
		due = append(due, record)
		if s.limit > 0 && len(due) == s.limit {
			break
		}
	}
	return due
}

func (s *SolveSession) askQuestion(index int, record question.Question) error {
	fmt.Fprintln(s.stdoutWriter)
	_, _ = s.bold.Fprintf(s.stdoutWriter, "%d. %s\n", index+1, record.Title)
	if record.Image != "" {
		fmt.Fprintf(s.stdoutWriter, "   [image: %s]\n", record.Image)
	}

	var answered string
	var err error
	switch record.Type {
	case question.TypeMultipleChoice:
		answered, err = s.askMultipleChoice(record)
	default:
		answered, err = s.askShortAnswer()
	}
	if err != nil {
		return err
	}

	isCorrect := strings.TrimSpace(answered) == strings.TrimSpace(record.Answer)
	s.solvedCount++
	if isCorrect {
		s.correctCount++
		_, _ = s.correct.Fprintln(s.stdoutWriter, "Correct!")
	} else {
		_, _ = s.wrong.Fprintln(s.stdoutWriter, "Wrong.")
		fmt.Fprintf(s.stdoutWriter, "Answer: %s\n", record.Answer)
	}
	if strings.TrimSpace(record.Description) != "" {
		fmt.Fprintf(s.stdoutWriter, "%s\n", record.Description)
	}

	if result := s.engine.RecordOutcome(record.ID, isCorrect); !result.Success {
		fmt.Fprintf(s.stdoutWriter, "warning: %s\n", result.Message)
	}
	return nil
}

func (s *SolveSession) askMultipleChoice(record question.Question) (string, error) {
	options := make([]string, 0, len(record.Options))
	for _, option := range record.Options {
		if strings.TrimSpace(option) == "" {
			continue
		}
		options = append(options, option)
	}
	for i, option := range options {
		fmt.Fprintf(s.stdoutWriter, "   %d) %s\n", i+1, option)
	}

	input, err := s.prompt("Choice (number, or q to quit): ")
	if err != nil {
		return "", err
	}

	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > len(options) {
		// An unanswerable input counts as no answer, like leaving the
		// question blank.
		return "", nil
	}
	return options[choice-1], nil
}

func (s *SolveSession) askShortAnswer() (string, error) {
	return s.prompt("Answer (or q to quit): ")
}

func (s *SolveSession) prompt(label string) (string, error) {
	_, _ = s.bold.Fprint(s.stdoutWriter, label)
	input, err := s.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", errEnd
		}
		return "", fmt.Errorf("read input > %w", err)
	}
	input = strings.TrimSpace(input)
	if input == "q" {
		return "", errEnd
	}
	return input, nil
}

func (s *SolveSession) printSummary() {
	if s.solvedCount == 0 {
		return
	}
	fmt.Fprintln(s.stdoutWriter)
	_, _ = s.bold.Fprintf(s.stdoutWriter, "Session finished: %d solved, %d correct\n", s.solvedCount, s.correctCount)
}
