package cli

import (
	"fmt"
	"io"

	"github.com/at-ishikawa/quizdeck/internal/history"
	"github.com/at-ishikawa/quizdeck/internal/statistics"
)

// RunStatsReport renders the daily rollup and its monthly aggregation.
// Optional year and month narrow the report (0 means no filter).
func RunStatsReport(writer io.Writer, records []history.Record, year, month int) {
	if len(records) == 0 {
		fmt.Fprintln(writer, "No history records found.")
		return
	}

	fmt.Fprintln(writer, "Study History Report")
	fmt.Fprintln(writer, "====================")
	fmt.Fprintln(writer)
	fmt.Fprintf(writer, "%-12s  %8s  %8s  %6s\n", "Date", "Solved", "Correct", "Rate")
	fmt.Fprintf(writer, "%-12s  %8s  %8s  %6s\n", "----", "------", "-------", "----")

	for _, record := range records {
		fmt.Fprintf(writer, "%-12s  %8d  %8d  %5d%%\n",
			record.Date, record.SolvedCount, record.CorrectCount, record.CorrectRate)
	}

	result := statistics.CalculateStatistics(records, year, month)
	if len(result.Periods) == 0 {
		return
	}

	fmt.Fprintln(writer)
	fmt.Fprintf(writer, "%-12s  %8s  %8s  %6s\n", "Month", "Solved", "Correct", "Rate")
	fmt.Fprintf(writer, "%-12s  %8s  %8s  %6s\n", "-----", "------", "-------", "----")
	for _, period := range result.Periods {
		fmt.Fprintf(writer, "%-12s  %8d  %8d  %5d%%\n",
			period.Period, period.SolvedCount, period.CorrectCount, period.CorrectRate)
	}

	fmt.Fprintln(writer)
	fmt.Fprintf(writer, "%-12s  %8d  %8d  %5d%%\n",
		"Totals:", result.Aggregate.SolvedCount, result.Aggregate.CorrectCount, result.Aggregate.CorrectRate)
}
