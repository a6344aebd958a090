package proxybench

import (
	"net/http"

	"github.com/rs/zerolog"
)

// checkConnectivity probes both servers with one bounded-timeout GET each.
// A sample is recorded per attempt regardless of outcome. It returns true
// only if both probes come back with a 200.
func (h *Harness) checkConnectivity() bool {
	log := h.log.With().Str("phase", "connectivity").Logger()

	log.Info().Msg("Testing backend server connectivity")
	out := h.client.get(h.cfg.BackendURL+"/test", "", h.cfg.StatusTimeout)
	h.store.Append(OpServerStatusCheck, out.elapsed, out.statusCode, false)
	if !h.probeOK(log, "backend", out) {
		return false
	}

	log.Info().Msg("Testing proxy server connectivity")
	out = h.client.get(h.cfg.ProxyURL+"/test", h.cfg.ProxyHost, h.cfg.StatusTimeout)
	h.store.Append(OpProxyStatusCheck, out.elapsed, out.statusCode, false)
	return h.probeOK(log, "proxy", out)
}

func (h *Harness) probeOK(log zerolog.Logger, target string, out outcome) bool {
	switch {
	case out.failure == failureTimeout:
		log.Error().Str("target", target).Msg("Connection timed out")
		return false
	case out.failure == failureConnection:
		log.Error().Err(out.err).Str("target", target).Msg("Cannot connect")
		return false
	case out.statusCode != http.StatusOK:
		log.Error().Str("target", target).Int("status", out.statusCode).Msg("Unexpected status")
		return false
	}
	log.Info().Str("target", target).Str("response", string(out.body)).Msg("Server is running")
	return true
}
