package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DjordjeVuckovic/entity-search/internal/bench/runner"
)

func WriteJSON(r *runner.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func WriteTable(r *runner.Result, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	kValues := r.Config.KValues

	fmt.Fprintf(tw, "\n=== Entity Search Relevance: %s ===\n\n", r.SuiteName)

	header := []string{"Query"}
	for _, k := range kValues {
		header = append(header, fmt.Sprintf("NDCG@%d", k))
	}
	for _, k := range kValues {
		header = append(header, fmt.Sprintf("P@%d", k))
	}
	header = append(header, "AP", "RR", "p50", "p95", "Error")
	writeRow(tw, header)
	writeRow(tw, separator(len(header)))

	for _, q := range r.Queries {
		row := []string{q.QueryID}
		row = appendScores(row, kValues, q.NDCG)
		row = appendScores(row, kValues, q.Precision)
		row = append(row,
			fmt.Sprintf("%.4f", q.AP),
			fmt.Sprintf("%.4f", q.RR),
			fmtDuration(q.Latency.P50()),
			fmtDuration(q.Latency.P95()),
			q.Error,
		)
		writeRow(tw, row)
	}

	agg := r.Aggregate
	row := []string{"MEAN"}
	row = appendScores(row, kValues, agg.NDCG)
	row = appendScores(row, kValues, agg.Precision)
	row = append(row,
		fmt.Sprintf("%.4f", agg.MAP),
		fmt.Sprintf("%.4f", agg.MRR),
		fmtDuration(agg.Latency.P50()),
		fmtDuration(agg.Latency.P95()),
		fmt.Sprintf("%d/%d failed", agg.ErrorCount, agg.QueryCount),
	)
	writeRow(tw, separator(len(header)))
	writeRow(tw, row)

	return tw.Flush()
}

func appendScores(row []string, kValues []int, scores map[int]float64) []string {
	for _, k := range kValues {
		row = append(row, fmt.Sprintf("%.4f", scores[k]))
	}
	return row
}

func writeRow(w io.Writer, cells []string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}

func separator(n int) []string {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	return sep
}

func fmtDuration(d time.Duration) string {
	switch {
	case d == 0:
		return "-"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	default:
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	}
}
