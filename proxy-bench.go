package proxybench

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// ErrConnectivity is returned by Run when either target server fails the
// initial connectivity check. The caller should exit non-zero without
// reporting: timings against unavailable servers would only mislead.
var ErrConnectivity = errors.New("connectivity check failed")

type Config struct {
	// Base URL of the backend application server.
	BackendURL string
	// Base URL of the caching proxy under test.
	ProxyURL string
	// Host header to send on requests through the proxy, identifying the
	// backend to proxy to. Optional.
	ProxyHost string

	// Number of GETs in the large-object scenario. Default 3.
	LargeRequests int
	// Path of the large object on the origin. Default "/large".
	LargePath string
	// Number of synthetic users in the lifecycle scenario. Default 5.
	UserCount int

	// Pause between scenario requests. Zero means no pacing.
	RequestDelay time.Duration
	// Timeout for connectivity probes. Default 2s.
	StatusTimeout time.Duration
	// Timeout for large-object requests. Default 10s.
	LargeTimeout time.Duration
	// Timeout for all other scenario requests. Default 10s.
	RequestTimeout time.Duration

	// Classify cache hits from the Cache-Status response header (RFC 9211)
	// when the proxy sends one, instead of by request position.
	TrustCacheStatus bool

	// Logger to use. The global zerolog logger is used if nil.
	Logger *zerolog.Logger
}

// Harness runs the benchmark scenarios against the configured servers and
// collects one Sample per observed request.
type Harness struct {
	cfg    Config
	log    zerolog.Logger
	client client
	store  *Store
}

// CreateHarness initializes a harness run.
// Zero config values are replaced with defaults, except RequestDelay.
func CreateHarness(cfg Config) *Harness {
	if cfg.LargeRequests <= 0 {
		cfg.LargeRequests = 3
	}
	if cfg.LargePath == "" {
		cfg.LargePath = "/large"
	}
	if cfg.UserCount <= 0 {
		cfg.UserCount = 5
	}
	if cfg.StatusTimeout == 0 {
		cfg.StatusTimeout = 2 * time.Second
	}
	if cfg.LargeTimeout == 0 {
		cfg.LargeTimeout = 10 * time.Second
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	var logger zerolog.Logger
	if cfg.Logger == nil {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	} else {
		logger = *cfg.Logger
	}
	logger = logger.With().
		Str("backend", cfg.BackendURL).
		Str("proxy", cfg.ProxyURL).
		Logger()

	return &Harness{
		cfg:    cfg,
		log:    logger,
		client: newClient(),
		store:  NewStore(),
	}
}

// Run executes the connectivity check and then all scenarios, one request
// at a time. It returns ErrConnectivity (and runs nothing further) if
// either server fails the check. Scenario-level failures are logged and
// never abort the run.
func (h *Harness) Run() error {
	if !h.checkConnectivity() {
		return ErrConnectivity
	}

	h.runLargeObjectScenario()

	created := h.createUsers()
	h.listUsers()
	h.deleteUsers(created)

	return nil
}

// Store returns the samples collected so far.
func (h *Harness) Store() *Store {
	return h.store
}

func (h *Harness) pause() {
	if h.cfg.RequestDelay > 0 {
		time.Sleep(h.cfg.RequestDelay)
	}
}
