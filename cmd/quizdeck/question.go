package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/quizdeck/internal/question"
)

func newQuestionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "question",
		Short: "Manage the question deck",
	}

	cmd.AddCommand(newQuestionListCommand())
	cmd.AddCommand(newQuestionAddCommand())
	return cmd
}

func newQuestionListCommand() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List questions and the tag universe",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			e, err := newEngine(cfg)
			if err != nil {
				return err
			}

			// Catch up stale recommend dates before showing due state.
			if result := e.ReconcileOnStartup(); !result.Success {
				return fmt.Errorf("reconcile on startup: %s", result.Message)
			}

			result := e.LoadQuestions()
			if !result.Success {
				cmd.Println(result.Message)
				return nil
			}

			today := question.Today(time.Now())
			for _, record := range result.Questions {
				if tag != "" && !record.HasTag(tag) {
					continue
				}
				marker := " "
				if record.IsDue(today) {
					marker = "*"
				}
				cmd.Printf("%s [%d] %-40s  due %-10s  %s\n",
					marker, record.Level, record.Title, record.RecommendDate, strings.Join(record.Tags, ","))
			}
			if len(result.AllTags) > 0 {
				cmd.Printf("\nTags: %s\n", strings.Join(result.AllTags, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only show questions with this tag")
	return cmd
}

func newQuestionAddCommand() *cobra.Command {
	var (
		title        string
		questionType string
		options      []string
		answer       string
		description  string
		tags         []string
		image        string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a question to the deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			e, err := newEngine(cfg)
			if err != nil {
				return err
			}

			record := question.Question{
				Title:       title,
				Type:        questionType,
				Answer:      answer,
				Description: description,
				Image:       image,
			}
			for i, option := range options {
				if i >= len(record.Options) {
					break
				}
				record.Options[i] = option
			}
			record.MergeTags(tags)

			validate, err := question.NewValidator()
			if err != nil {
				return fmt.Errorf("create validator: %w", err)
			}
			if err := validate.ValidateEntry(record); err != nil {
				return fmt.Errorf("invalid question: %w", err)
			}

			// A full-table save follows, so the existing deck must load
			// cleanly first. Only a missing table may fall through to an
			// empty deck.
			existing, _, err := question.NewStore(cfg.Deck.QuestionsFile).Load()
			if err != nil && !errors.Is(err, question.ErrStoreUnavailable) {
				return fmt.Errorf("load questions: %w", err)
			}
			records := existing

			today := question.Today(time.Now())
			record.ID = question.GenerateID(records)
			record.Level = 0
			record.CreatedDate = today
			record.RecommendDate = today
			record.NextUpdateDate = today
			records = append(records, record)

			if result := e.SaveQuestions(records); !result.Success {
				return fmt.Errorf("save questions: %s", result.Message)
			}
			cmd.Printf("Added %q (%d questions total)\n", record.Title, len(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "question title")
	cmd.Flags().StringVar(&questionType, "type", question.TypeShortAnswer, "question type (multiple-choice or short-answer)")
	cmd.Flags().StringArrayVar(&options, "option", nil, "multiple-choice option (repeat up to 4 times)")
	cmd.Flags().StringVar(&answer, "answer", "", "answer text")
	cmd.Flags().StringVar(&description, "description", "", "explanation shown after answering")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tags for the question")
	cmd.Flags().StringVar(&image, "image", "", "attached image reference")
	return cmd
}
