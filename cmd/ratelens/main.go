package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bricklab/ratelens/internal/analysis"
	"github.com/bricklab/ratelens/internal/config"
	"github.com/bricklab/ratelens/internal/dataset"
	"github.com/bricklab/ratelens/internal/logging"
	"github.com/bricklab/ratelens/internal/pipeline"
	"github.com/bricklab/ratelens/internal/report"
	"github.com/bricklab/ratelens/internal/samplerate"
)

var configFile = flag.String("config", "configs/config.yaml", "Path to the configuration file")

func main() {
	// Initialize Configuration
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration from %s: %v\n", *configFile, err)
		os.Exit(1)
	}

	// Initialize Logger
	logger, logErr := logging.NewLogger(cfg.Log)
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", logErr)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync() // Flush buffered logs on exit
	}()

	sugar := logger.Sugar()
	sugar.Infow("Configuration loaded", "path", *configFile,
		"datasets", len(cfg.Datasets),
		"live", cfg.Live.Enabled,
	)

	// Batch Analysis
	failed := 0
	if len(cfg.Datasets) > 0 {
		failed = analyzeDatasets(cfg, logger)
	}

	// Live Monitoring
	if cfg.Live.Enabled {
		if err := runLive(cfg, logger); err != nil {
			sugar.Errorw("Live monitoring stopped unexpectedly", zap.Error(err))
			os.Exit(1)
		}
	}

	if failed > 0 {
		sugar.Warnw("Finished with failed dataset analyses", "failed", failed)
		os.Exit(1)
	}
	sugar.Info("ratelens finished.")
}

// analyzeDatasets runs each configured dataset through the engine.
// Failures are scoped per dataset: one bad file never aborts its siblings.
func analyzeDatasets(cfg *config.Config, logger *zap.Logger) (failed int) {
	sugar := logger.Sugar()

	for _, ds := range cfg.Datasets {
		dsLogger := logger.Named("analysis").With(zap.String("dataset", ds.Name))

		tbl, err := dataset.LoadCSV(ds.Path, ds.Name)
		if err != nil {
			dsLogger.Error("Failed to load dataset", zap.String("path", ds.Path), zap.Error(err))
			failed++
			continue
		}
		sugar.Infow("Dataset loaded", "dataset", ds.Name, "rows", tbl.Rows, "columns", len(tbl.ColumnNames()))

		unit, _ := samplerate.ParseUnit(ds.Unit) // validated at config load
		res, err := analysis.Analyze(tbl, analysis.Request{
			TimeColumn:  ds.TimeColumn,
			FlagColumn:  ds.FlagColumn,
			LabelColumn: ds.LabelColumn,
			Unit:        unit,
		}, dsLogger)
		if err != nil {
			dsLogger.Error("Analysis failed", zap.Error(err))
			failed++
			continue
		}

		if err := report.Write(os.Stdout, res); err != nil {
			dsLogger.Error("Failed to write report", zap.Error(err))
			failed++
		}
	}
	return failed
}

// runLive starts the streaming monitor and blocks until shutdown.
func runLive(cfg *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()

	sugar.Info("Initializing live pipeline...")
	pipe, err := pipeline.New(cfg, logger)
	if err != nil {
		sugar.Errorw("Failed to initialize pipeline", zap.Error(err))
		return err
	}

	// Handle Graceful Shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-signals
		sugar.Infow("Received signal, initiating shutdown...", "signal", sig.String())
		cancel()
	}()

	// Expose Prometheus metrics while the pipeline runs.
	go serveMetrics(cfg.Live.MetricsAddr, logger)

	sugar.Info("Starting live monitoring pipeline...")
	runErr := pipe.Run(ctx)

	// Evaluate Pipeline Result
	switch {
	case runErr == nil:
		sugar.Info("Pipeline execution completed without error.")
	case errors.Is(runErr, context.Canceled):
		sugar.Info("Pipeline execution cancelled (expected on shutdown).")
		runErr = nil
	default:
		logger.Log(zapcore.ErrorLevel, "Pipeline shutdown due to error", zap.Error(runErr))
	}
	return runErr
}

func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("Serving Prometheus metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Metrics server stopped", zap.Error(err))
	}
}
