package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// ctxCheckInterval is how many lines Ingest reads between context checks.
const ctxCheckInterval = 1024

// Ingest reads r line by line, without a length limit, and folds every
// well-formed line into the store. Malformed lines are counted and skipped.
// The returned stats count r as one file. Cancelling ctx stops the read
// within ctxCheckInterval lines and returns the context error.
func (p *Pipeline) Ingest(ctx context.Context, name string, r io.Reader) (domain.IngestStats, error) {
	start := time.Now()
	stats := domain.IngestStats{Files: 1}
	br := bufio.NewReader(r)

	for lineNo := 1; ; lineNo++ {
		if lineNo%ctxCheckInterval == 1 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}
		line, err := br.ReadString('\n')
		if line != "" {
			p.handleLine(name, lineNo, line, &stats)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("%w: %s: read line %d: %w", ErrInputUnavailable, name, lineNo, err)
		}
	}

	p.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	p.metrics.RegionsTracked.Set(float64(p.store.Len()))
	p.logger.Debug("file consumed", "file", name, "lines", stats.Lines, "malformed", stats.Malformed)
	return stats, nil
}

func (p *Pipeline) handleLine(name string, lineNo int, line string, stats *domain.IngestStats) {
	stats.Lines++
	p.metrics.LinesRead.Inc()

	obs, err := domain.ParseLine(line)
	if err != nil {
		stats.Malformed++
		p.metrics.MalformedLines.Inc()
		p.logger.Debug("skipping malformed line", "file", name, "line", lineNo, "error", err)
		return
	}

	p.store.Observe(obs)
	stats.Records++
	p.metrics.RecordsObserved.Inc()
}
