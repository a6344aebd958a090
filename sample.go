package proxybench

import "time"

// Operation labels used when recording samples.
// Reporting groups and filters on these.
const (
	OpServerStatusCheck   = "server_status_check"
	OpProxyStatusCheck    = "proxy_status_check"
	OpLargeRequestNoCache = "large_request_nocache"
	OpLargeRequestCached  = "large_request_cached"
	OpCreateUser          = "create_user"
	OpGetUsers            = "get_users"
	OpDeleteUser          = "delete_user"
)

// Sample is one observed request.
type Sample struct {
	Operation    string
	ResponseTime float64 // elapsed wall-clock seconds
	StatusCode   int     // zero if no response was received
	Timestamp    time.Time
	CacheHit     bool
}

// Store is an append-only, ordered record of every observed request.
// It is owned by a single harness run: populated during the scenario
// phase and read (never mutated) during reporting.
// Not safe for concurrent use, and does not need to be.
type Store struct {
	samples []Sample
}

func NewStore() *Store {
	return &Store{samples: make([]Sample, 0, 64)}
}

// Append records one sample, timestamped now.
// Samples end up in the exact order requests complete.
func (s *Store) Append(operation string, elapsed time.Duration, statusCode int, cacheHit bool) {
	s.samples = append(s.samples, Sample{
		Operation:    operation,
		ResponseTime: elapsed.Seconds(),
		StatusCode:   statusCode,
		Timestamp:    time.Now(),
		CacheHit:     cacheHit,
	})
}

// Samples returns a copy of the recorded samples in append order.
func (s *Store) Samples() []Sample {
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

func (s *Store) Len() int {
	return len(s.samples)
}
