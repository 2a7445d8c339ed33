package aggregate_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/aggregate"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obsAt(code string, sec int64, tempF float64) domain.Observation {
	return domain.Observation{
		RegionCode:    code,
		ObservedAt:    time.Unix(sec, 0),
		HumidityPct:   50,
		CloudCoverPct: 25,
		TempF:         tempF,
	}
}

func TestStore_FirstObservationSeedsRegion(t *testing.T) {
	s := aggregate.New()
	s.Observe(domain.Observation{
		RegionCode:    "TN",
		ObservedAt:    time.Unix(100, 0),
		HumidityPct:   49.5,
		HasSnow:       true,
		CloudCoverPct: 53,
		HasLightning:  true,
		TempF:         58.3,
	})

	got, ok := s.Lookup("TN")
	require.True(t, ok)
	want := domain.RegionSummary{
		Code:             "TN",
		RecordCount:      1,
		AvgHumidityPct:   49.5,
		AvgTempF:         58.3,
		MaxTempF:         58.3,
		MaxTempAt:        time.Unix(100, 0),
		MinTempF:         58.3,
		MinTempAt:        time.Unix(100, 0),
		LightningCount:   1,
		SnowCount:        1,
		AvgCloudCoverPct: 53,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_RecordCountIsAPureFold(t *testing.T) {
	s := aggregate.New()
	o := obsAt("CA", 1, 60)
	for range 5 {
		s.Observe(o)
	}

	got, ok := s.Lookup("CA")
	require.True(t, ok)
	assert.Equal(t, 5, got.RecordCount)
	assert.Equal(t, 1, s.Len())
}

func TestStore_MaxTieKeepsEarliestTimestamp(t *testing.T) {
	s := aggregate.New()
	s.Observe(obsAt("CA", 10, 70))
	s.Observe(obsAt("CA", 20, 95))
	s.Observe(obsAt("CA", 30, 95))
	s.Observe(obsAt("CA", 40, 80))

	got, _ := s.Lookup("CA")
	assert.Equal(t, 95.0, got.MaxTempF)
	assert.Equal(t, time.Unix(20, 0), got.MaxTempAt)
}

func TestStore_MinTieKeepsEarliestTimestamp(t *testing.T) {
	s := aggregate.New()
	s.Observe(obsAt("WA", 10, 20))
	s.Observe(obsAt("WA", 20, -18.7))
	s.Observe(obsAt("WA", 30, -18.7))
	s.Observe(obsAt("WA", 40, 0))

	got, _ := s.Lookup("WA")
	assert.Equal(t, -18.7, got.MinTempF)
	assert.Equal(t, time.Unix(20, 0), got.MinTempAt)
}

func TestStore_ExtremesTrackRunningMaxAndMin(t *testing.T) {
	temps := []float64{53.6, 12.1, 99.9, -4.0, 40.0, 99.8}
	s := aggregate.New()
	for i, v := range temps {
		s.Observe(obsAt("TX", int64(i), v))
	}

	got, _ := s.Lookup("TX")
	assert.Equal(t, 99.9, got.MaxTempF)
	assert.Equal(t, time.Unix(2, 0), got.MaxTempAt)
	assert.Equal(t, -4.0, got.MinTempF)
	assert.Equal(t, time.Unix(3, 0), got.MinTempAt)
}

func TestStore_Averages(t *testing.T) {
	s := aggregate.New()
	humidity := []float64{10, 20, 33.3, 91}
	cloud := []float64{0, 100, 50, 22}
	temps := []float64{40, 50, 60, 71}
	for i := range humidity {
		s.Observe(domain.Observation{
			RegionCode:    "OR",
			ObservedAt:    time.Unix(int64(i), 0),
			HumidityPct:   humidity[i],
			CloudCoverPct: cloud[i],
			TempF:         temps[i],
		})
	}

	got, _ := s.Lookup("OR")
	assert.InDelta(t, (10+20+33.3+91)/4.0, got.AvgHumidityPct, 1e-9)
	assert.InDelta(t, (0+100+50+22)/4.0, got.AvgCloudCoverPct, 1e-9)
	assert.InDelta(t, (40+50+60+71)/4.0, got.AvgTempF, 1e-9)
}

func TestStore_CountsIndicators(t *testing.T) {
	s := aggregate.New()
	flags := []struct{ snow, lightning bool }{
		{true, false}, {true, true}, {false, true}, {false, false}, {true, true},
	}
	for i, f := range flags {
		o := obsAt("CO", int64(i), 30)
		o.HasSnow = f.snow
		o.HasLightning = f.lightning
		s.Observe(o)
	}

	got, _ := s.Lookup("CO")
	assert.Equal(t, 3, got.SnowCount)
	assert.Equal(t, 3, got.LightningCount)
}

func TestStore_FirstSeenOrder(t *testing.T) {
	s := aggregate.New()
	for i, code := range []string{"CA", "TX", "CA", "WA", "TX", "CA"} {
		s.Observe(obsAt(code, int64(i), 50))
	}

	assert.Equal(t, []string{"CA", "TX", "WA"}, s.Codes())

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "CA", snap[0].Code)
	assert.Equal(t, 3, snap[0].RecordCount)
	assert.Equal(t, "TX", snap[1].Code)
	assert.Equal(t, 2, snap[1].RecordCount)
	assert.Equal(t, "WA", snap[2].Code)
	assert.Equal(t, 1, snap[2].RecordCount)
}

func TestStore_ObserveTouchesOnlyMatchedRegion(t *testing.T) {
	s := aggregate.New()
	s.Observe(obsAt("CA", 1, 50))
	s.Observe(obsAt("TX", 2, 90))
	before, _ := s.Lookup("CA")

	s.Observe(obsAt("TX", 3, 100))

	after, _ := s.Lookup("CA")
	assert.Equal(t, before, after)
}

func TestStore_CaseSensitiveCodes(t *testing.T) {
	s := aggregate.New()
	s.Observe(obsAt("CA", 1, 50))
	s.Observe(obsAt("ca", 2, 50))

	assert.Equal(t, []string{"CA", "ca"}, s.Codes())
}

func TestStore_NoCapacityBound(t *testing.T) {
	s := aggregate.New()
	for i := range 500 {
		code := string(rune('A'+i%26)) + string(rune('A'+i/26))
		s.Observe(obsAt(code, int64(i), 50))
	}
	assert.Equal(t, 500, s.Len())
}

func TestStore_EmptySnapshot(t *testing.T) {
	s := aggregate.New()
	assert.Empty(t, s.Snapshot())
	assert.Empty(t, s.Codes())

	_, ok := s.Lookup("CA")
	assert.False(t, ok)
}

func TestStore_SplitStreamsMatchSingleStream(t *testing.T) {
	lines := []string{
		"CA\t1428300000000\t9prcjqk3yc80\t93.0\t0.0\t100.0\t0.0\t95644.0\t277.58716\n",
		"TX\t1430308800000\t9vk1mfq2q3zz\t4.0\t0.0\t100.0\t1.0\t99226.0\t302.63037\n",
		"CA\t1428559200000\t9prrremmdqxb\t61.0\t0.0\t0.0\t0.0\t102112.0\t285.07513\n",
		"WA\t1428192000000\tc23nb62w20st\t57.0\t1.0\t100.0\t0.0\t101765.0\t265.21332\n",
		"TX\t1428170400000\t9vk1mfq2q3zz\t73.0\t0.0\t22.0\t0.0\t102074.0\t302.63037\n",
		"CA\t1429768800000\t9pr60tz83r2p\t38.0\t0.0\t0.0\t0.0\t101679.0\t283.9342\n",
	}

	feed := func(t *testing.T, s *aggregate.Store, chunk []string) {
		t.Helper()
		for _, l := range chunk {
			o, err := domain.ParseLine(l)
			require.NoError(t, err)
			s.Observe(o)
		}
	}

	single := aggregate.New()
	feed(t, single, lines)

	for _, split := range [][]int{{1}, {2, 4}, {3}, {1, 2, 3, 4, 5}} {
		t.Run(fmt.Sprint(split), func(t *testing.T) {
			multi := aggregate.New()
			prev := 0
			for _, cut := range append(split, len(lines)) {
				feed(t, multi, lines[prev:cut])
				prev = cut
			}
			if diff := cmp.Diff(single.Snapshot(), multi.Snapshot()); diff != "" {
				t.Errorf("snapshot mismatch (-single +multi):\n%s", diff)
			}
		})
	}
}
