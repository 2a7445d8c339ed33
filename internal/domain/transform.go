package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedRecord marks a TDV line that cannot become an Observation.
var ErrMalformedRecord = errors.New("malformed record")

var fieldNames = [FieldCount]string{
	"region", "timestamp", "geohash", "humidity", "snow",
	"cloud_cover", "lightning", "pressure", "temperature",
}

// ParseLine converts one TDV line into an Observation. The trailing newline,
// if any, is not part of the last field. Errors wrap ErrMalformedRecord.
func ParseLine(line string) (Observation, error) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	fields := strings.Split(line, "\t")
	if len(fields) != FieldCount {
		return Observation{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, FieldCount, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	code := fields[fieldRegion]
	if code == "" {
		return Observation{}, fmt.Errorf("%w: empty region code", ErrMalformedRecord)
	}

	millis, err := strconv.ParseInt(fields[fieldTimestamp], 10, 64)
	if err != nil {
		return Observation{}, fieldError(fieldTimestamp, err)
	}

	var nums [FieldCount]float64
	for _, i := range []int{fieldHumidity, fieldSnow, fieldCloudCover, fieldLightning, fieldPressure, fieldTemperature} {
		v, err := parseFinite(fields[i])
		if err != nil {
			return Observation{}, fieldError(i, err)
		}
		nums[i] = v
	}

	return Observation{
		RegionCode:    code,
		ObservedAt:    ObservedAtFromMillis(millis),
		Geohash:       fields[fieldGeohash],
		HumidityPct:   nums[fieldHumidity],
		HasSnow:       parseFlag(nums[fieldSnow]),
		CloudCoverPct: nums[fieldCloudCover],
		HasLightning:  parseFlag(nums[fieldLightning]),
		PressurePa:    nums[fieldPressure],
		TempF:         KelvinToFahrenheit(nums[fieldTemperature]),
	}, nil
}

// KelvinToFahrenheit converts a surface temperature reading.
func KelvinToFahrenheit(k float64) float64 {
	return k*1.8 - 459.67
}

// ObservedAtFromMillis truncates an epoch-millisecond timestamp to whole seconds.
func ObservedAtFromMillis(ms int64) time.Time {
	return time.Unix(ms/1000, 0)
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

// parseFlag reads a 0/1 indicator the way an integer column is read:
// fractional parts are dropped, anything left over is "set".
func parseFlag(v float64) bool {
	return math.Trunc(v) != 0
}

func fieldError(i int, err error) error {
	return fmt.Errorf("%w: field %s: %w", ErrMalformedRecord, fieldNames[i], err)
}
