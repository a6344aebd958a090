package results

import (
	"fmt"
	"testing"
	"time"

	proxybench "github.com/proxy-bench/proxy-bench"
)

// memoryDB returns a DSN for a named in-memory db, so tests do not share
// state through the default shared-cache memory db.
func memoryDB(t *testing.T) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
}

func TestSaveAndListRuns(t *testing.T) {
	archive, err := NewSQLiteResults(memoryDB(t))
	if err != nil {
		t.Fatal(err)
	}
	defer archive.Close()

	startedAt := time.Now()
	samples := []proxybench.Sample{
		{Operation: proxybench.OpLargeRequestNoCache, ResponseTime: 2.0, StatusCode: 200, Timestamp: startedAt, CacheHit: false},
		{Operation: proxybench.OpLargeRequestCached, ResponseTime: 0.5, StatusCode: 200, Timestamp: startedAt.Add(time.Second), CacheHit: true},
		{Operation: proxybench.OpCreateUser, ResponseTime: 0.1, StatusCode: 0, Timestamp: startedAt.Add(2 * time.Second), CacheHit: false},
	}
	if err := archive.SaveRun("run-1", startedAt, samples); err != nil {
		t.Fatal(err)
	}

	runs, err := archive.Runs()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("%d runs archived", len(runs))
	}
	if runs[0].ID != "run-1" || runs[0].Samples != 3 {
		t.Fatalf("Run is %+v", runs[0])
	}
	if runs[0].StartedAt.UnixNano() != startedAt.UnixNano() {
		t.Fatalf("StartedAt is %v, want %v", runs[0].StartedAt, startedAt)
	}
}

func TestRunSamplesRoundTrip(t *testing.T) {
	archive, err := NewSQLiteResults(memoryDB(t))
	if err != nil {
		t.Fatal(err)
	}
	defer archive.Close()

	startedAt := time.Now()
	samples := []proxybench.Sample{
		{Operation: proxybench.OpLargeRequestNoCache, ResponseTime: 2.0, StatusCode: 200, Timestamp: startedAt},
		{Operation: proxybench.OpLargeRequestCached, ResponseTime: 0.5, StatusCode: 200, Timestamp: startedAt.Add(time.Second), CacheHit: true},
	}
	if err := archive.SaveRun("run-1", startedAt, samples); err != nil {
		t.Fatal(err)
	}

	got, err := archive.RunSamples("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Got %d samples", len(got))
	}
	for i, sm := range got {
		if sm.Operation != samples[i].Operation {
			t.Fatalf("Sample %d operation is %s", i, sm.Operation)
		}
		if sm.ResponseTime != samples[i].ResponseTime {
			t.Fatalf("Sample %d response time is %f", i, sm.ResponseTime)
		}
		if sm.StatusCode != samples[i].StatusCode {
			t.Fatalf("Sample %d status is %d", i, sm.StatusCode)
		}
		if sm.Timestamp.UnixNano() != samples[i].Timestamp.UnixNano() {
			t.Fatalf("Sample %d timestamp is %v", i, sm.Timestamp)
		}
		if sm.CacheHit != samples[i].CacheHit {
			t.Fatalf("Sample %d cache hit is %v", i, sm.CacheHit)
		}
	}
}

func TestRunSamplesUnknownRun(t *testing.T) {
	archive, err := NewSQLiteResults(memoryDB(t))
	if err != nil {
		t.Fatal(err)
	}
	defer archive.Close()

	got, err := archive.RunSamples("nope")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("Got %d samples for unknown run", len(got))
	}
}

func TestMultipleRunsOrderedByStart(t *testing.T) {
	archive, err := NewSQLiteResults(memoryDB(t))
	if err != nil {
		t.Fatal(err)
	}
	defer archive.Close()

	first := time.Now()
	second := first.Add(time.Minute)
	if err := archive.SaveRun("run-b", second, nil); err != nil {
		t.Fatal(err)
	}
	if err := archive.SaveRun("run-a", first, nil); err != nil {
		t.Fatal(err)
	}

	runs, err := archive.Runs()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("%d runs archived", len(runs))
	}
	if runs[0].ID != "run-a" || runs[1].ID != "run-b" {
		t.Fatalf("Run order is %s, %s", runs[0].ID, runs[1].ID)
	}
}
