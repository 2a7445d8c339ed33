// Package report renders region summaries for humans and machines.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// Renderer writes a finished report.
type Renderer interface {
	Render(w io.Writer, rep domain.Report) error
}

// New returns the renderer for a REPORT_FORMAT value.
func New(format string) (Renderer, error) {
	switch format {
	case "text", "":
		return NewText(time.Local), nil
	case "json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Text renders the classic per-state block layout. Timestamps use the
// C library's ctime layout in the configured location.
type Text struct {
	loc *time.Location
}

// NewText creates a Text renderer printing times in loc.
func NewText(loc *time.Location) Text {
	if loc == nil {
		loc = time.Local
	}
	return Text{loc: loc}
}

// Render writes the "States found" line followed by one block per region.
func (t Text) Render(w io.Writer, rep domain.Report) error {
	ew := &errWriter{w: w}

	ew.printf("States found: %s\n", strings.Join(rep.Codes(), " "))
	for _, r := range rep.Regions {
		ew.printf("-- State: %s --\n", r.Code)
		ew.printf("Number of Records: %d\n", r.RecordCount)
		ew.printf("Average Humidity: %.1f%%\n", r.AvgHumidityPct)
		ew.printf("Average Temperature: %.1fF\n", r.AvgTempF)
		ew.printf("Max Temperature: %.1fF\n", r.MaxTempF)
		ew.printf("Max Temperature on: %s\n", t.ctime(r.MaxTempAt))
		ew.printf("Min Temperature: %.1fF\n", r.MinTempF)
		ew.printf("Min Temperature on: %s\n", t.ctime(r.MinTempAt))
		ew.printf("Lightning Strikes: %d\n", r.LightningCount)
		ew.printf("Records with Snow Cover: %d\n", r.SnowCount)
		ew.printf("Average Cloud Cover: %.1f%%\n", r.AvgCloudCoverPct)
	}
	return ew.err
}

func (t Text) ctime(ts time.Time) string {
	return ts.In(t.loc).Format(time.ANSIC)
}

// errWriter keeps the first write error and drops everything after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
