package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_ValidateEntry(t *testing.T) {
	tests := []struct {
		name        string
		record      Question
		wantErr     bool
		wantMessage string
	}{
		{
			name: "valid short answer entry",
			record: Question{
				Title:  "What is a channel?",
				Type:   TypeShortAnswer,
				Answer: "a typed conduit",
			},
		},
		{
			name: "valid multiple choice entry",
			record: Question{
				Title:   "Pick one",
				Type:    TypeMultipleChoice,
				Options: [4]string{"a", "b", "", ""},
				Answer:  "a",
			},
		},
		{
			name: "missing title",
			record: Question{
				Type:   TypeShortAnswer,
				Answer: "a",
			},
			wantErr:     true,
			wantMessage: "Title is a required field",
		},
		{
			name: "whitespace only answer",
			record: Question{
				Title:  "t",
				Type:   TypeShortAnswer,
				Answer: "   ",
			},
			wantErr:     true,
			wantMessage: "Answer is a required field",
		},
		{
			name: "unknown question type",
			record: Question{
				Title:  "t",
				Type:   "essay",
				Answer: "a",
			},
			wantErr:     true,
			wantMessage: "Type must be one of [multiple-choice short-answer]",
		},
	}

	validator, err := NewValidator()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateEntry(tt.record)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMessage)
		})
	}
}
