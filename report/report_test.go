package report

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	proxybench "github.com/proxy-bench/proxy-bench"
)

func sample(operation string, seconds float64, status int, cacheHit bool) proxybench.Sample {
	return proxybench.Sample{
		Operation:    operation,
		ResponseTime: seconds,
		StatusCode:   status,
		Timestamp:    time.Now(),
		CacheHit:     cacheHit,
	}
}

func TestCacheSpeedup(t *testing.T) {
	s := Build([]proxybench.Sample{
		sample(proxybench.OpLargeRequestNoCache, 2.0, 200, false),
		sample(proxybench.OpLargeRequestCached, 0.5, 200, true),
	})
	if s.Speedup == nil {
		t.Fatal("Speedup undefined")
	}
	if *s.Speedup != 75.0 {
		t.Fatalf("Speedup is %f", *s.Speedup)
	}
}

func TestSpeedupUndefinedWithoutMissSamples(t *testing.T) {
	s := Build([]proxybench.Sample{
		sample(proxybench.OpLargeRequestCached, 0.5, 200, true),
	})
	if s.Speedup != nil {
		t.Fatalf("Speedup is %f with no nocache samples", *s.Speedup)
	}

	var buf bytes.Buffer
	s.WriteText(&buf)
	if !strings.Contains(buf.String(), "Cache speedup: no data") {
		t.Fatalf("Summary output:\n%s", buf.String())
	}
}

func TestSpeedupUndefinedWithZeroMissMean(t *testing.T) {
	s := Build([]proxybench.Sample{
		sample(proxybench.OpLargeRequestNoCache, 0, 200, false),
		sample(proxybench.OpLargeRequestCached, 0.5, 200, true),
	})
	if s.Speedup != nil {
		t.Fatalf("Speedup is %f with zero nocache mean", *s.Speedup)
	}
}

func TestOperationStatsMeanAndStdDev(t *testing.T) {
	s := Build([]proxybench.Sample{
		sample(proxybench.OpLargeRequestCached, 1.0, 200, true),
		sample(proxybench.OpLargeRequestCached, 2.0, 200, true),
		sample(proxybench.OpLargeRequestCached, 3.0, 200, true),
	})
	if s.Cached == nil {
		t.Fatal("No cached stats")
	}
	if s.Cached.Count != 3 || s.Cached.Mean != 2.0 || s.Cached.Min != 1.0 || s.Cached.Max != 3.0 {
		t.Fatalf("Stats are %+v", s.Cached)
	}
	if want := math.Sqrt(2.0 / 3.0); math.Abs(s.Cached.StdDev-want) > 1e-9 {
		t.Fatalf("StdDev is %f, want %f", s.Cached.StdDev, want)
	}
}

func TestErrorRate(t *testing.T) {
	s := Build([]proxybench.Sample{
		sample(proxybench.OpCreateUser, 0.1, 201, false),
		sample(proxybench.OpCreateUser, 0.1, 500, false),
		sample(proxybench.OpCreateUser, 0.1, 201, false),
	})
	if len(s.ErrorRates) != 1 {
		t.Fatalf("%d error rate entries", len(s.ErrorRates))
	}
	er := s.ErrorRates[0]
	if er.Operation != proxybench.OpCreateUser || er.Total != 3 || er.Errors != 1 {
		t.Fatalf("Error rate entry is %+v", er)
	}
	if got := fmt.Sprintf("%.1f", er.Rate); got != "33.3" {
		t.Fatalf("Rate renders as %s", got)
	}
}

func TestDistributionsExcludeLargeRequests(t *testing.T) {
	s := Build([]proxybench.Sample{
		sample(proxybench.OpLargeRequestNoCache, 2.0, 200, false),
		sample(proxybench.OpLargeRequestCached, 0.5, 200, true),
		sample(proxybench.OpCreateUser, 0.1, 201, false),
		sample(proxybench.OpGetUsers, 0.2, 200, false),
	})
	if len(s.Distributions) != 2 {
		t.Fatalf("%d distributions", len(s.Distributions))
	}
	// sorted by label
	if s.Distributions[0].Operation != proxybench.OpCreateUser {
		t.Fatalf("First distribution is %s", s.Distributions[0].Operation)
	}
	if s.Distributions[1].Operation != proxybench.OpGetUsers {
		t.Fatalf("Second distribution is %s", s.Distributions[1].Operation)
	}
}

func TestDistributionQuartiles(t *testing.T) {
	samples := make([]proxybench.Sample, 0, 4)
	for _, v := range []float64{1, 2, 3, 4} {
		samples = append(samples, sample(proxybench.OpCreateUser, v, 201, false))
	}
	s := Build(samples)

	d := s.Distributions[0]
	if d.Min != 1 || d.Max != 4 {
		t.Fatalf("Distribution is %+v", d)
	}
	if d.Median != 2.5 {
		t.Fatalf("Median is %f", d.Median)
	}
	if d.Q1 != 1.5 || d.Q3 != 3.5 {
		t.Fatalf("Quartiles are %f, %f", d.Q1, d.Q3)
	}
}

func TestDistributionSingleSample(t *testing.T) {
	s := Build([]proxybench.Sample{sample(proxybench.OpGetUsers, 0.2, 200, false)})
	d := s.Distributions[0]
	if d.Min != 0.2 || d.Q1 != 0.2 || d.Median != 0.2 || d.Q3 != 0.2 || d.Max != 0.2 {
		t.Fatalf("Distribution is %+v", d)
	}
}

func TestCounts(t *testing.T) {
	s := Build([]proxybench.Sample{
		sample(proxybench.OpLargeRequestNoCache, 2.0, 200, false),
		sample(proxybench.OpLargeRequestCached, 0.5, 200, true),
		sample(proxybench.OpLargeRequestCached, 0.4, 200, true),
		sample(proxybench.OpCreateUser, 0.1, 201, false),
		sample(proxybench.OpCreateUser, 0.1, 0, false), // no response
	})
	if s.CacheHitCounts[true] != 2 || s.CacheHitCounts[false] != 3 {
		t.Fatalf("Cache hit counts are %v", s.CacheHitCounts)
	}
	if s.StatusCounts[200] != 3 || s.StatusCounts[201] != 1 || s.StatusCounts[0] != 1 {
		t.Fatalf("Status counts are %v", s.StatusCounts)
	}
	if len(s.Timeline) != 5 {
		t.Fatalf("Timeline has %d points", len(s.Timeline))
	}
}

func TestEmptyStore(t *testing.T) {
	s := Build(nil)
	if s.Total != 0 || s.Speedup != nil || s.NoCache != nil || s.Cached != nil {
		t.Fatalf("Summary of empty store is %+v", s)
	}

	var buf bytes.Buffer
	s.WriteText(&buf)
	if !strings.Contains(buf.String(), "No data collected") {
		t.Fatalf("Summary output:\n%s", buf.String())
	}
}

func TestWriteTextFullSummary(t *testing.T) {
	s := Build([]proxybench.Sample{
		sample(proxybench.OpServerStatusCheck, 0.01, 200, false),
		sample(proxybench.OpLargeRequestNoCache, 2.0, 200, false),
		sample(proxybench.OpLargeRequestCached, 0.5, 200, true),
		sample(proxybench.OpCreateUser, 0.1, 500, false),
	})

	var buf bytes.Buffer
	s.WriteText(&buf)
	out := buf.String()

	for _, want := range []string{
		"Performance Summary:",
		"Cache speedup: 75.0%",
		"server_status_check",
		"create_user",
		"100.0% (1/1)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("Summary output missing %q:\n%s", want, out)
		}
	}
}
