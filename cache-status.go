package proxybench

import (
	"net/http"
	"strings"
)

// cacheStatusHit inspects an RFC 9211 Cache-Status response header and
// reports whether the response was served from cache. ok is false when the
// header is absent or carries neither a hit nor a fwd parameter, in which
// case the caller must fall back to its own heuristic.
//
// The header is a list of members, one per cache the response passed
// through, e.g.
//
//	Cache-Status: ExampleCDN; fwd=miss, Always-Cache; hit
//
// The cache closest to the client appends last, so the last member wins.
func cacheStatusHit(h http.Header) (hit bool, ok bool) {
	value := h.Get("Cache-Status")
	if value == "" {
		return false, false
	}
	members := strings.Split(value, ",")
	member := members[len(members)-1]
	params := strings.Split(member, ";")
	for _, p := range params[1:] {
		p = strings.TrimSpace(p)
		if p == "hit" {
			return true, true
		}
		if p == "fwd" || strings.HasPrefix(p, "fwd=") {
			return false, true
		}
	}
	return false, false
}
