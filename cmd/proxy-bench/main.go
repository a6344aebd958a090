package main

import (
	"flag"
	"io"
	"os"
	"time"

	proxybench "github.com/proxy-bench/proxy-bench"
	"github.com/proxy-bench/proxy-bench/report"
	"github.com/proxy-bench/proxy-bench/results"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// CLI flags
	configFlag           string
	backendFlag          string
	proxyFlag            string
	hostFlag             string
	largeRequestsFlag    int
	largePathFlag        string
	usersFlag            int
	delayFlag            time.Duration
	chartsDirFlag        string
	resultsDBFlag        string
	historyFlag          bool
	trustCacheStatusFlag bool
	verbosityTraceFlag   bool
	logFilenameFlag      string

	// this is set by goreleaser
	version string
)

func init() {
	flag.StringVar(&configFlag, "config", "", "Path to YAML config file")
	flag.StringVar(&backendFlag, "backend", "http://localhost:3000", "Base URL of the backend server")
	flag.StringVar(&proxyFlag, "proxy", "http://localhost:8080", "Base URL of the caching proxy")
	flag.StringVar(&hostFlag, "host", "localhost:3000", "Host header to send on proxy requests")
	flag.IntVar(&largeRequestsFlag, "large-requests", 3, "Number of large-object requests")
	flag.StringVar(&largePathFlag, "large-path", "/large", "Path of the large object")
	flag.IntVar(&usersFlag, "users", 5, "Number of synthetic users to create")
	flag.DurationVar(&delayFlag, "delay", 500*time.Millisecond, "Pause between scenario requests")
	flag.StringVar(&chartsDirFlag, "charts-dir", ".", "Directory for chart images (empty to disable)")
	flag.StringVar(&resultsDBFlag, "results-db", "", "SQLite file to archive run samples to (empty to disable)")
	flag.BoolVar(&historyFlag, "history", false, "List archived runs from the results db and exit")
	flag.BoolVar(&trustCacheStatusFlag, "trust-cache-status", false, "Classify cache hits from the Cache-Status header when present")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")
	flag.StringVar(&logFilenameFlag, "log-file", "", "Log file to use (in addition to stdout)")

	if version == "" {
		version = "DEV"
	}
}

func main() {
	flag.Parse()

	// set log level
	logLevel := zerolog.DebugLevel
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}

	// set up log output to stdout
	// also output to logfile if specified
	logOutputs := make([]io.Writer, 0)
	logOutputs = append(logOutputs, zerolog.ConsoleWriter{Out: os.Stdout})
	if logFilenameFlag != "" {
		if logFileOutput, err := os.OpenFile(logFilenameFlag, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644); err != nil {
			log.Fatal().Err(err).Msg("Cannot open log file")
		} else {
			logOutputs = append(logOutputs, logFileOutput)
		}
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	log.Logger = log.Level(logLevel).Output(multiWriter).
		With().Str("version", version).Logger()

	applyConfigFile()

	if historyFlag {
		listHistory()
		return
	}

	cfg := proxybench.Config{
		BackendURL:       backendFlag,
		ProxyURL:         proxyFlag,
		ProxyHost:        hostFlag,
		LargeRequests:    largeRequestsFlag,
		LargePath:        largePathFlag,
		UserCount:        usersFlag,
		RequestDelay:     delayFlag,
		TrustCacheStatus: trustCacheStatusFlag,
		Logger:           &log.Logger,
	}

	startedAt := time.Now()
	harness := proxybench.CreateHarness(cfg)
	if err := harness.Run(); err != nil {
		log.Error().Err(err).Msg("Servers not reachable, aborting without running scenarios")
		os.Exit(1)
	}

	samples := harness.Store().Samples()
	summary := report.Build(samples)
	summary.WriteText(os.Stdout)

	if chartsDirFlag != "" {
		files, err := report.WriteCharts(summary, chartsDirFlag)
		if err != nil {
			log.Error().Err(err).Msg("Could not write charts")
		}
		for _, f := range files {
			log.Info().Str("file", f).Msg("Chart written")
		}
	}

	if resultsDBFlag != "" {
		archive, err := results.NewSQLiteResults(resultsDBFlag)
		if err != nil {
			log.Error().Err(err).Msg("Could not open results db")
			return
		}
		defer archive.Close()
		runID := uuid.NewString()
		if err := archive.SaveRun(runID, startedAt, samples); err != nil {
			log.Error().Err(err).Msg("Could not archive run")
		} else {
			log.Info().Str("run", runID).Int("samples", len(samples)).Msg("Run archived")
		}
	}
}

// applyConfigFile loads the YAML config (if given) and applies it to every
// flag the user did not set explicitly on the command line.
func applyConfigFile() {
	if configFlag == "" {
		return
	}
	fileCfg, err := proxybench.LoadFileConfig(configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot read config file")
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if fileCfg.Backend != "" && !set["backend"] {
		backendFlag = fileCfg.Backend
	}
	if fileCfg.Proxy != "" && !set["proxy"] {
		proxyFlag = fileCfg.Proxy
	}
	if fileCfg.Host != "" && !set["host"] {
		hostFlag = fileCfg.Host
	}
	if fileCfg.LargeRequests > 0 && !set["large-requests"] {
		largeRequestsFlag = fileCfg.LargeRequests
	}
	if fileCfg.LargePath != "" && !set["large-path"] {
		largePathFlag = fileCfg.LargePath
	}
	if fileCfg.Users > 0 && !set["users"] {
		usersFlag = fileCfg.Users
	}
	if fileCfg.DelayMs > 0 && !set["delay"] {
		delayFlag = time.Duration(fileCfg.DelayMs) * time.Millisecond
	}
	if fileCfg.TrustCacheStatus && !set["trust-cache-status"] {
		trustCacheStatusFlag = true
	}
	if fileCfg.ChartsDir != "" && !set["charts-dir"] {
		chartsDirFlag = fileCfg.ChartsDir
	}
	if fileCfg.ResultsDB != "" && !set["results-db"] {
		resultsDBFlag = fileCfg.ResultsDB
	}
}

func listHistory() {
	if resultsDBFlag == "" {
		log.Fatal().Msg("Please specify a results db")
	}
	archive, err := results.NewSQLiteResults(resultsDBFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open results db")
	}
	defer archive.Close()

	runs, err := archive.Runs()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not list runs")
	}
	if len(runs) == 0 {
		log.Info().Msg("No archived runs")
		return
	}
	for _, run := range runs {
		log.Info().
			Str("run", run.ID).
			Time("startedAt", run.StartedAt).
			Int("samples", run.Samples).
			Msg("Archived run")
	}
}
