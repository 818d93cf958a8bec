package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/quizdeck/internal/question"
)

func TestScheduler_RecordOutcome(t *testing.T) {
	tests := []struct {
		name           string
		record         question.Question
		isCorrect      bool
		today          string
		wantLevel      int
		wantNextUpdate string
		wantErr        bool
	}{
		{
			name:           "correct at level 0 advances to 1",
			record:         question.Question{Level: 0},
			isCorrect:      true,
			today:          "2024-03-10",
			wantLevel:      1,
			wantNextUpdate: "2024-03-12",
		},
		{
			name:           "correct at level 1 advances to 2",
			record:         question.Question{Level: 1},
			isCorrect:      true,
			today:          "2024-03-10",
			wantLevel:      2,
			wantNextUpdate: "2024-03-13",
		},
		{
			name:           "correct at level 2 advances to 3",
			record:         question.Question{Level: 2},
			isCorrect:      true,
			today:          "2024-03-10",
			wantLevel:      3,
			wantNextUpdate: "2024-03-14",
		},
		{
			name:           "correct at level 3 stays at 3",
			record:         question.Question{Level: 3},
			isCorrect:      true,
			today:          "2024-03-10",
			wantLevel:      3,
			wantNextUpdate: "2024-03-14",
		},
		{
			name:           "incorrect at level 2 resets to 0",
			record:         question.Question{Level: 2},
			isCorrect:      false,
			today:          "2024-03-10",
			wantLevel:      0,
			wantNextUpdate: "2024-03-11",
		},
		{
			name:           "incorrect at level 3 resets to 0",
			record:         question.Question{Level: 3},
			isCorrect:      false,
			today:          "2024-03-10",
			wantLevel:      0,
			wantNextUpdate: "2024-03-11",
		},
		{
			name:           "out-of-range level is clamped before lookup",
			record:         question.Question{Level: 7},
			isCorrect:      true,
			today:          "2024-03-10",
			wantLevel:      3,
			wantNextUpdate: "2024-03-14",
		},
		{
			name:      "unparseable today",
			record:    question.Question{Level: 1},
			isCorrect: true,
			today:     "sometime",
			wantErr:   true,
		},
	}

	scheduler := New(DefaultPolicy())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.record.RecommendDate = "2024-03-01"
			got, err := scheduler.RecordOutcome(tt.record, tt.isCorrect, tt.today)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantNextUpdate, got.NextUpdateDate)
			assert.Equal(t, tt.today, got.SolvedDate)
			assert.Equal(t, "2024-03-01", got.RecommendDate, "recommend date must not move on an outcome")
		})
	}
}

func TestScheduler_RecordOutcome_LevelStaysInBounds(t *testing.T) {
	scheduler := New(DefaultPolicy())
	record := question.Question{Level: 0}

	outcomes := []bool{true, true, true, true, false, true, false, false, true, true}
	for _, isCorrect := range outcomes {
		var err error
		record, err = scheduler.RecordOutcome(record, isCorrect, "2024-03-10")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, record.Level, MinLevel)
		assert.LessOrEqual(t, record.Level, MaxLevel)
	}
}

func TestScheduler_ReconcileStaleDates(t *testing.T) {
	tests := []struct {
		name          string
		records       []question.Question
		today         string
		wantRecommend []string
		wantChanged   bool
	}{
		{
			name: "overdue question is pinned to today",
			records: []question.Question{
				{RecommendDate: "2024-01-01", NextUpdateDate: "2024-01-01"},
			},
			today:         "2024-01-05",
			wantRecommend: []string{"2024-01-05"},
			wantChanged:   true,
		},
		{
			name: "recently answered question catches up to its update date",
			records: []question.Question{
				{RecommendDate: "2024-01-01", NextUpdateDate: "2024-01-08"},
			},
			today:         "2024-01-05",
			wantRecommend: []string{"2024-01-08"},
			wantChanged:   true,
		},
		{
			name: "future recommend date is untouched",
			records: []question.Question{
				{RecommendDate: "2024-01-06", NextUpdateDate: "2024-01-01"},
			},
			today:         "2024-01-05",
			wantRecommend: []string{"2024-01-06"},
			wantChanged:   false,
		},
		{
			name: "recommend date equal to today is untouched",
			records: []question.Question{
				{RecommendDate: "2024-01-05", NextUpdateDate: "2024-01-01"},
			},
			today:         "2024-01-05",
			wantRecommend: []string{"2024-01-05"},
			wantChanged:   false,
		},
		{
			name: "unparseable dates pass through",
			records: []question.Question{
				{RecommendDate: "soon", NextUpdateDate: "2024-01-01"},
				{RecommendDate: "2024-01-01", NextUpdateDate: ""},
			},
			today:         "2024-01-05",
			wantRecommend: []string{"soon", "2024-01-01"},
			wantChanged:   false,
		},
		{
			name: "mixed records",
			records: []question.Question{
				{RecommendDate: "2024-01-01", NextUpdateDate: "2024-01-02"},
				{RecommendDate: "2024-01-10", NextUpdateDate: "2024-01-12"},
			},
			today:         "2024-01-05",
			wantRecommend: []string{"2024-01-05", "2024-01-10"},
			wantChanged:   true,
		},
	}

	scheduler := New(DefaultPolicy())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := scheduler.ReconcileStaleDates(tt.records, tt.today)
			assert.Equal(t, tt.wantChanged, changed)
			require.Len(t, got, len(tt.wantRecommend))
			for i, want := range tt.wantRecommend {
				assert.Equal(t, want, got[i].RecommendDate)
			}
		})
	}
}

func TestScheduler_ReconcileStaleDates_Idempotent(t *testing.T) {
	scheduler := New(DefaultPolicy())
	records := []question.Question{
		{Title: "a", RecommendDate: "2024-01-01", NextUpdateDate: "2024-01-01"},
		{Title: "b", RecommendDate: "2024-01-02", NextUpdateDate: "2024-01-09"},
		{Title: "c", RecommendDate: "2024-01-07", NextUpdateDate: "2024-01-01"},
	}

	once, changed := scheduler.ReconcileStaleDates(records, "2024-01-05")
	assert.True(t, changed)

	twice, changed := scheduler.ReconcileStaleDates(once, "2024-01-05")
	assert.False(t, changed)
	assert.Equal(t, once, twice)
}

func TestScheduler_ReconcileStaleDates_DoesNotMutateInput(t *testing.T) {
	scheduler := New(DefaultPolicy())
	records := []question.Question{
		{RecommendDate: "2024-01-01", NextUpdateDate: "2024-01-01"},
	}

	_, changed := scheduler.ReconcileStaleDates(records, "2024-01-05")
	assert.True(t, changed)
	assert.Equal(t, "2024-01-01", records[0].RecommendDate)
}
