package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteText prints the formatted console summary.
func (s Summary) WriteText(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance Summary:")
	fmt.Fprintln(w, strings.Repeat("-", 50))

	if s.Total == 0 {
		fmt.Fprintln(w, "No data collected.")
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Large Request Performance Analysis:")
	if s.NoCache == nil {
		fmt.Fprintln(w, "First request (no cache): no data")
	} else {
		fmt.Fprintf(w, "First request (no cache): %.4f seconds\n", s.NoCache.Mean)
	}
	if s.Cached == nil {
		fmt.Fprintln(w, "Cached requests: no data")
	} else {
		fmt.Fprintln(w, "Cached requests:")
		fmt.Fprintf(w, "  - Average: %.4f seconds\n", s.Cached.Mean)
		fmt.Fprintf(w, "  - Min: %.4f seconds\n", s.Cached.Min)
		fmt.Fprintf(w, "  - Max: %.4f seconds\n", s.Cached.Max)
		fmt.Fprintf(w, "  - Standard deviation: %.4f seconds\n", s.Cached.StdDev)
	}
	if s.Speedup == nil {
		fmt.Fprintln(w, "Cache speedup: no data")
	} else {
		fmt.Fprintf(w, "Cache speedup: %.1f%%\n", *s.Speedup)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other Operations (response times in seconds):")
	if len(s.Distributions) == 0 {
		fmt.Fprintln(w, "no data")
	} else {
		fmt.Fprintf(w, "%-24s %5s %8s %8s %8s %8s %8s\n", "Operation", "Count", "Min", "Q1", "Median", "Q3", "Max")
		for _, d := range s.Distributions {
			fmt.Fprintf(w, "%-24s %5d %8.4f %8.4f %8.4f %8.4f %8.4f\n",
				d.Operation, d.Count, d.Min, d.Q1, d.Median, d.Q3, d.Max)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Samples: %d total, %d cache hits, %d misses/uncached\n",
		s.Total, s.CacheHitCounts[true], s.CacheHitCounts[false])

	fmt.Fprintln(w, "Status codes:")
	codes := make([]int, 0, len(s.StatusCounts))
	for code := range s.StatusCounts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		label := fmt.Sprintf("%d", code)
		if code == 0 {
			label = "no response"
		}
		fmt.Fprintf(w, "  %-12s %d\n", label, s.StatusCounts[code])
	}

	fmt.Fprintln(w, "Error rate by operation:")
	for _, er := range s.ErrorRates {
		fmt.Fprintf(w, "  %-24s %.1f%% (%d/%d)\n", er.Operation, er.Rate, er.Errors, er.Total)
	}
}
