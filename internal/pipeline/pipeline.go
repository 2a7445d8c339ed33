package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
)

// ErrInputUnavailable marks an input stream that could not be opened or read.
var ErrInputUnavailable = errors.New("input unavailable")

// Policy decides what happens when an input is unavailable.
type Policy string

const (
	// PolicyAbort stops the run at the first unavailable input.
	PolicyAbort Policy = "abort"
	// PolicySkip logs the unavailable input and continues with the next one.
	PolicySkip Policy = "skip"
)

// SourceOpener opens a named input stream.
type SourceOpener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Store receives every well-formed observation.
type Store interface {
	Observe(obs domain.Observation)
	Len() int
}

// Pipeline feeds input streams, one after another, into a Store.
type Pipeline struct {
	opener  SourceOpener
	store   Store
	logger  *slog.Logger
	metrics *observability.Metrics
	policy  Policy
	ready   atomic.Bool
}

// New creates a Pipeline. An unknown policy behaves like PolicyAbort.
func New(opener SourceOpener, store Store, logger *slog.Logger, metrics *observability.Metrics, policy Policy) *Pipeline {
	if policy != PolicySkip {
		policy = PolicyAbort
	}
	return &Pipeline{
		opener:  opener,
		store:   store,
		logger:  logger,
		metrics: metrics,
		policy:  policy,
	}
}

// CheckReadiness returns nil once a run has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("ingest has not completed yet")
	}
	return nil
}

// Run ingests every named input in order. Under PolicyAbort the first
// unavailable input ends the run with an error wrapping ErrInputUnavailable;
// lines already folded into the store stay there. Under PolicySkip an input
// that cannot be opened is listed in Skipped, and one that fails after
// opening is listed in Partial with its earlier lines still counted.
func (p *Pipeline) Run(ctx context.Context, names []string) (domain.IngestStats, error) {
	p.logger.Info("ingest started", "files", len(names), "policy", string(p.policy))

	var stats domain.IngestStats
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		s, err := p.ingestFile(ctx, name)
		stats.Add(s)
		if err == nil {
			continue
		}
		if p.policy == PolicyAbort || !errors.Is(err, ErrInputUnavailable) {
			return stats, err
		}
		if s.Files == 0 {
			p.logger.Warn("input unavailable, moving on to next file", "file", name, "error", err)
			p.metrics.FilesSkipped.Inc()
			stats.Skipped = append(stats.Skipped, name)
			continue
		}
		// Lines read before the failure are already in the store.
		p.logger.Warn("input failed mid-read, keeping lines already ingested",
			"file", name, "lines", s.Lines, "error", err)
		p.metrics.FilesPartial.Inc()
		stats.Partial = append(stats.Partial, name)
	}

	p.ready.Store(true)
	p.logger.Info("ingest complete",
		"files", stats.Files,
		"skipped", len(stats.Skipped),
		"partial", len(stats.Partial),
		"lines", stats.Lines,
		"records", stats.Records,
		"malformed", stats.Malformed,
		"regions", p.store.Len(),
	)
	return stats, nil
}

func (p *Pipeline) ingestFile(ctx context.Context, name string) (domain.IngestStats, error) {
	rc, err := p.opener.Open(ctx, name)
	if err != nil {
		return domain.IngestStats{}, fmt.Errorf("%w: %s: %w", ErrInputUnavailable, name, err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			p.logger.Warn("close input failed", "file", name, "error", err)
		}
	}()

	p.metrics.FilesOpened.Inc()
	p.logger.Info("opening file", "file", name)
	return p.Ingest(ctx, name, rc)
}
