// Package aggregate maintains running climate statistics per region code.
package aggregate

import (
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// Store is an insertion-ordered registry of per-region running statistics.
// It is not safe for concurrent use.
type Store struct {
	index   map[string]int
	regions []*regionStats
}

// regionStats is the running aggregate for one region. It only exists once
// at least one observation has been folded in, so count is never zero.
type regionStats struct {
	code      string
	count     int
	maxTempF  float64
	maxTempAt time.Time
	minTempF  float64
	minTempAt time.Time
	lightning int
	snow      int
	humidity  sum
	temp      sum
	cloud     sum
}

// New creates an empty Store.
func New() *Store {
	return &Store{index: make(map[string]int)}
}

// Observe folds one observation into its region, creating the region on
// first sight. Each call counts as a distinct record.
func (s *Store) Observe(obs domain.Observation) {
	i, ok := s.index[obs.RegionCode]
	if !ok {
		s.index[obs.RegionCode] = len(s.regions)
		s.regions = append(s.regions, seed(obs))
		return
	}
	s.regions[i].add(obs)
}

// Snapshot returns every region in first-seen order with averages computed.
func (s *Store) Snapshot() []domain.RegionSummary {
	out := make([]domain.RegionSummary, len(s.regions))
	for i, r := range s.regions {
		out[i] = r.summary()
	}
	return out
}

// Lookup returns the summary for a single region code.
func (s *Store) Lookup(code string) (domain.RegionSummary, bool) {
	i, ok := s.index[code]
	if !ok {
		return domain.RegionSummary{}, false
	}
	return s.regions[i].summary(), true
}

// Codes lists region codes in first-seen order.
func (s *Store) Codes() []string {
	codes := make([]string, len(s.regions))
	for i, r := range s.regions {
		codes[i] = r.code
	}
	return codes
}

// Len reports the number of distinct regions seen.
func (s *Store) Len() int {
	return len(s.regions)
}

func seed(obs domain.Observation) *regionStats {
	r := &regionStats{
		code:      obs.RegionCode,
		count:     1,
		maxTempF:  obs.TempF,
		maxTempAt: obs.ObservedAt,
		minTempF:  obs.TempF,
		minTempAt: obs.ObservedAt,
		lightning: indicator(obs.HasLightning),
		snow:      indicator(obs.HasSnow),
	}
	r.humidity.add(obs.HumidityPct)
	r.temp.add(obs.TempF)
	r.cloud.add(obs.CloudCoverPct)
	return r
}

func (r *regionStats) add(obs domain.Observation) {
	r.count++
	// Strict comparisons: on ties the earliest extreme keeps its timestamp.
	if obs.TempF > r.maxTempF {
		r.maxTempF = obs.TempF
		r.maxTempAt = obs.ObservedAt
	}
	if obs.TempF < r.minTempF {
		r.minTempF = obs.TempF
		r.minTempAt = obs.ObservedAt
	}
	r.lightning += indicator(obs.HasLightning)
	r.snow += indicator(obs.HasSnow)
	r.humidity.add(obs.HumidityPct)
	r.temp.add(obs.TempF)
	r.cloud.add(obs.CloudCoverPct)
}

func (r *regionStats) summary() domain.RegionSummary {
	n := float64(r.count)
	return domain.RegionSummary{
		Code:             r.code,
		RecordCount:      r.count,
		AvgHumidityPct:   r.humidity.value() / n,
		AvgTempF:         r.temp.value() / n,
		MaxTempF:         r.maxTempF,
		MaxTempAt:        r.maxTempAt,
		MinTempF:         r.minTempF,
		MinTempAt:        r.minTempAt,
		LightningCount:   r.lightning,
		SnowCount:        r.snow,
		AvgCloudCoverPct: r.cloud.value() / n,
	}
}

func indicator(b bool) int {
	if b {
		return 1
	}
	return 0
}
