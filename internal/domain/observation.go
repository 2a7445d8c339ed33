package domain

import "time"

// FieldCount is the number of tab-separated fields in a well-formed TDV line.
const FieldCount = 9

// Field positions within a TDV line.
const (
	fieldRegion = iota
	fieldTimestamp
	fieldGeohash
	fieldHumidity
	fieldSnow
	fieldCloudCover
	fieldLightning
	fieldPressure
	fieldTemperature
)

// Observation is one parsed TDV line with units already converted.
type Observation struct {
	RegionCode    string
	ObservedAt    time.Time
	Geohash       string
	HumidityPct   float64
	HasSnow       bool
	CloudCoverPct float64
	HasLightning  bool
	PressurePa    float64
	TempF         float64
}

// RegionSummary is the read-only view of one region's running statistics.
type RegionSummary struct {
	Code             string    `json:"code"`
	RecordCount      int       `json:"record_count"`
	AvgHumidityPct   float64   `json:"avg_humidity_pct"`
	AvgTempF         float64   `json:"avg_temp_f"`
	MaxTempF         float64   `json:"max_temp_f"`
	MaxTempAt        time.Time `json:"max_temp_at"`
	MinTempF         float64   `json:"min_temp_f"`
	MinTempAt        time.Time `json:"min_temp_at"`
	LightningCount   int       `json:"lightning_count"`
	SnowCount        int       `json:"snow_count"`
	AvgCloudCoverPct float64   `json:"avg_cloud_cover_pct"`
}

// IngestStats describes a single ingestion run across all input streams.
// Skipped lists inputs that could not be opened. Partial lists inputs that
// failed after opening; their earlier lines are included in the counts.
type IngestStats struct {
	Files     int      `json:"files"`
	Skipped   []string `json:"skipped,omitempty"`
	Partial   []string `json:"partial,omitempty"`
	Lines     int      `json:"lines"`
	Records   int      `json:"records"`
	Malformed int      `json:"malformed"`
}

// Add folds the counters of another run into s.
func (s *IngestStats) Add(o IngestStats) {
	s.Files += o.Files
	s.Skipped = append(s.Skipped, o.Skipped...)
	s.Partial = append(s.Partial, o.Partial...)
	s.Lines += o.Lines
	s.Records += o.Records
	s.Malformed += o.Malformed
}

// Report is the final output of a run: every region in first-seen order.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Regions     []RegionSummary `json:"regions"`
	Ingest      IngestStats     `json:"ingest"`
}

// NewReport stamps the summaries with the package clock.
func NewReport(regions []RegionSummary, stats IngestStats) Report {
	if regions == nil {
		regions = []RegionSummary{}
	}
	return Report{
		GeneratedAt: clock.Now(),
		Regions:     regions,
		Ingest:      stats,
	}
}

// Codes lists the region codes of the report in order.
func (r Report) Codes() []string {
	codes := make([]string, len(r.Regions))
	for i := range r.Regions {
		codes[i] = r.Regions[i].Code
	}
	return codes
}
