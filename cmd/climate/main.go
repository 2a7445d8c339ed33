// Command climate summarizes NOAA tab-delimited climate observations per
// region (state).
//
// Usage:
//
//	climate data_tn.tdv data_wa.tdv
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/couchcryptid/climate-data-etl/internal/adapter/file"
	httpadapter "github.com/couchcryptid/climate-data-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/climate-data-etl/internal/aggregate"
	"github.com/couchcryptid/climate-data-etl/internal/config"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
	"github.com/couchcryptid/climate-data-etl/internal/pipeline"
	"github.com/couchcryptid/climate-data-etl/internal/report"
)

// env carries the process surroundings so tests can substitute them.
type env struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	newMetrics func() *observability.Metrics
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, env{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		newMetrics: observability.NewMetrics,
	})
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, e env) int {
	prog := "climate"
	if len(args) > 0 {
		prog = filepath.Base(args[0])
	}
	if len(args) < 2 {
		printUsage(e.stdout, prog)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: load config: %v\n", prog, err)
		return 1
	}

	logger := observability.NewLoggerTo(e.stderr, cfg)
	metrics := e.newMetrics()

	renderer, err := report.New(cfg.ReportFormat)
	if err != nil {
		logger.Error("invalid report format", "error", err)
		return 1
	}

	store := aggregate.New()
	p := pipeline.New(file.NewOpenerWithStdin(e.stdin), store, logger, metrics, pipeline.Policy(cfg.MissingFilePolicy))
	reports := &httpadapter.ReportHolder{}

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, reports, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	stats, err := p.Run(ctx, args[1:])
	if err != nil {
		logger.Error("ingest failed", "error", err)
		fmt.Fprintf(e.stderr, "%s: %v\n", prog, err)
		return 1
	}

	rep := domain.NewReport(store.Snapshot(), stats)
	reports.Set(rep)

	if err := renderer.Render(e.stdout, rep); err != nil {
		logger.Error("render report failed", "error", err)
		return 1
	}

	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger, metrics)
		err := writer.Publish(ctx, rep)
		if cerr := writer.Close(); cerr != nil {
			logger.Error("kafka writer close error", "error", cerr)
		}
		if err != nil {
			logger.Error("publish failed", "error", err)
			return 1
		}
	}

	if cfg.HTTPAddr != "" {
		logger.Info("serving report until interrupted", "addr", cfg.HTTPAddr)
		<-ctx.Done()
		logger.Info("shutting down")
	}

	return 0
}

func printUsage(w io.Writer, prog string) {
	fmt.Fprintf(w, "Usage: %s tdv_file1 tdv_file2 ... tdv_fileN\n", prog)
}
