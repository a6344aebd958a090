package proxybench

import "net/http"

// runLargeObjectScenario fetches the same large object through the proxy a
// fixed number of times. The first request is classified as a cache miss and
// every later one as a hit; this is a position heuristic, not a protocol
// check, unless TrustCacheStatus is set and the proxy sends a Cache-Status
// header. Failed or non-200 requests are skipped, not recorded.
func (h *Harness) runLargeObjectScenario() {
	log := h.log.With().Str("scenario", "large-object").Logger()
	log.Info().
		Int("requests", h.cfg.LargeRequests).
		Str("path", h.cfg.LargePath).
		Msg("Testing large object caching through proxy")

	for i := 0; i < h.cfg.LargeRequests; i++ {
		out := h.client.get(h.cfg.ProxyURL+h.cfg.LargePath, h.cfg.ProxyHost, h.cfg.LargeTimeout)
		if !out.ok() {
			log.Error().Err(out.err).Int("request", i+1).Msg("Request failed")
			h.pause()
			continue
		}
		if out.statusCode != http.StatusOK {
			log.Error().Int("request", i+1).Int("status", out.statusCode).Msg("Unexpected status")
			h.pause()
			continue
		}

		hit := i > 0
		if h.cfg.TrustCacheStatus {
			if headerHit, ok := cacheStatusHit(out.header); ok {
				hit = headerHit
			}
		}
		op := OpLargeRequestNoCache
		if hit {
			op = OpLargeRequestCached
		}
		h.store.Append(op, out.elapsed, out.statusCode, hit)

		log.Info().
			Int("request", i+1).
			Dur("elapsed", out.elapsed).
			Float64("sizeMB", float64(len(out.body))/(1024*1024)).
			Bool("cacheHit", hit).
			Msg("Request done")
		h.pause()
	}
}
