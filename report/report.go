// Package report turns a harness sample store into summary statistics,
// a console report, and chart images. Everything here is a pure transform:
// the sample slice is never mutated.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	proxybench "github.com/proxy-bench/proxy-bench"
)

// OperationStats summarizes response times for one operation label.
type OperationStats struct {
	Operation string
	Count     int
	Mean      float64
	Min       float64
	Max       float64
	StdDev    float64
}

// Distribution is a five-number summary of response times for one
// operation label.
type Distribution struct {
	Operation string
	Count     int
	Min       float64
	Q1        float64
	Median    float64
	Q3        float64
	Max       float64
}

// ErrorRate is the share of responses with status >= 400 for one
// operation label. Samples with no response at all (status 0) do not
// count as errors here; they show up in the status counts instead.
type ErrorRate struct {
	Operation string
	Total     int
	Errors    int
	Rate      float64 // percent
}

// TimelinePoint is one sample's response time at its recorded instant.
type TimelinePoint struct {
	Timestamp    time.Time
	ResponseTime float64
}

// Summary is everything the reporting stage derives from a run.
// Pointer fields are nil when the underlying group has no samples.
type Summary struct {
	Total int

	// Large-object scenario, split by cache classification.
	NoCache *OperationStats
	Cached  *OperationStats
	// Cache speedup percent; nil when undefined (no miss samples, no hit
	// samples, or zero miss mean).
	Speedup *float64

	// Five-number summaries for everything outside the large-object
	// scenario, sorted by operation label.
	Distributions []Distribution

	CacheHitCounts map[bool]int
	StatusCounts   map[int]int
	ErrorRates     []ErrorRate
	Timeline       []TimelinePoint
}

// Build aggregates a full sample store. It handles the empty store: the
// resulting summary reports no data instead of failing downstream.
func Build(samples []proxybench.Sample) Summary {
	s := Summary{
		Total:          len(samples),
		CacheHitCounts: make(map[bool]int),
		StatusCounts:   make(map[int]int),
	}

	byOp := make(map[string][]float64)
	for _, sm := range samples {
		byOp[sm.Operation] = append(byOp[sm.Operation], sm.ResponseTime)
		s.CacheHitCounts[sm.CacheHit]++
		s.StatusCounts[sm.StatusCode]++
		s.Timeline = append(s.Timeline, TimelinePoint{Timestamp: sm.Timestamp, ResponseTime: sm.ResponseTime})
	}

	s.NoCache = operationStats(proxybench.OpLargeRequestNoCache, byOp[proxybench.OpLargeRequestNoCache])
	s.Cached = operationStats(proxybench.OpLargeRequestCached, byOp[proxybench.OpLargeRequestCached])
	s.Speedup = speedup(s.NoCache, s.Cached)

	for op, times := range byOp {
		if isLargeOp(op) {
			continue
		}
		s.Distributions = append(s.Distributions, distribution(op, times))
	}
	sort.Slice(s.Distributions, func(i, j int) bool {
		return s.Distributions[i].Operation < s.Distributions[j].Operation
	})

	counts := make(map[string]*ErrorRate)
	for _, sm := range samples {
		er, exists := counts[sm.Operation]
		if !exists {
			er = &ErrorRate{Operation: sm.Operation}
			counts[sm.Operation] = er
		}
		er.Total++
		if sm.StatusCode >= 400 {
			er.Errors++
		}
	}
	for _, er := range counts {
		er.Rate = float64(er.Errors) / float64(er.Total) * 100
		s.ErrorRates = append(s.ErrorRates, *er)
	}
	sort.Slice(s.ErrorRates, func(i, j int) bool {
		return s.ErrorRates[i].Operation < s.ErrorRates[j].Operation
	})

	return s
}

func isLargeOp(operation string) bool {
	return strings.HasPrefix(operation, "large_request")
}

func operationStats(operation string, times []float64) *OperationStats {
	if len(times) == 0 {
		return nil
	}
	mean, _ := stats.Mean(times)
	min, _ := stats.Min(times)
	max, _ := stats.Max(times)
	stdDev, _ := stats.StandardDeviation(times)
	return &OperationStats{
		Operation: operation,
		Count:     len(times),
		Mean:      mean,
		Min:       min,
		Max:       max,
		StdDev:    stdDev,
	}
}

func speedup(noCache, cached *OperationStats) *float64 {
	if noCache == nil || cached == nil || noCache.Mean == 0 {
		return nil
	}
	v := (noCache.Mean - cached.Mean) / noCache.Mean * 100
	return &v
}

func distribution(operation string, times []float64) Distribution {
	d := Distribution{Operation: operation, Count: len(times)}
	d.Min, _ = stats.Min(times)
	d.Max, _ = stats.Max(times)
	d.Median, _ = stats.Median(times)
	if len(times) >= 2 {
		if q, err := stats.Quartile(times); err == nil {
			d.Q1, d.Q3 = q.Q1, q.Q3
			return d
		}
	}
	// too few samples for quartiles, collapse onto the median
	d.Q1, d.Q3 = d.Median, d.Median
	return d
}
