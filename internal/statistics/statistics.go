// Package statistics aggregates the daily rollup into per-month study
// statistics.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/at-ishikawa/quizdeck/internal/history"
	"github.com/at-ishikawa/quizdeck/internal/question"
)

// PeriodStatistics holds solve statistics for one month.
type PeriodStatistics struct {
	Period       string // "2025-01"
	SolvedCount  int
	CorrectCount int
	CorrectRate  int // integer percentage
}

// AggregateStatistics holds totals across all periods.
type AggregateStatistics struct {
	SolvedCount  int
	CorrectCount int
	CorrectRate  int
}

// StatisticsResult holds both per-period and aggregate statistics.
type StatisticsResult struct {
	Periods   []PeriodStatistics
	Aggregate AggregateStatistics
}

// CalculateStatistics groups daily rollup rows by month. Optional year
// and month filters narrow the result (0 means no filter). Rows whose
// date does not parse are ignored.
func CalculateStatistics(records []history.Record, year, month int) StatisticsResult {
	periods := make(map[string]*PeriodStatistics)
	var aggregate AggregateStatistics

	for _, record := range records {
		date, err := question.ParseDate(record.Date)
		if err != nil {
			continue
		}
		if !matchesFilter(date.Year(), int(date.Month()), year, month) {
			continue
		}

		period := fmt.Sprintf("%d-%02d", date.Year(), int(date.Month()))
		stats, ok := periods[period]
		if !ok {
			stats = &PeriodStatistics{Period: period}
			periods[period] = stats
		}
		stats.SolvedCount += record.SolvedCount
		stats.CorrectCount += record.CorrectCount
		aggregate.SolvedCount += record.SolvedCount
		aggregate.CorrectCount += record.CorrectCount
	}

	result := StatisticsResult{Aggregate: aggregate}
	result.Aggregate.CorrectRate = rate(aggregate.CorrectCount, aggregate.SolvedCount)
	for _, stats := range periods {
		stats.CorrectRate = rate(stats.CorrectCount, stats.SolvedCount)
		result.Periods = append(result.Periods, *stats)
	}
	sort.Slice(result.Periods, func(i, j int) bool {
		return result.Periods[i].Period < result.Periods[j].Period
	})
	return result
}

func matchesFilter(recordYear, recordMonth, year, month int) bool {
	if year != 0 && recordYear != year {
		return false
	}
	if month != 0 && recordMonth != month {
		return false
	}
	return true
}

func rate(correct, solved int) int {
	if solved <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(solved) * 100))
}
