package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// JSON renders the whole report, ingest stats included, as indented JSON.
type JSON struct{}

func (JSON) Render(w io.Writer, rep domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
