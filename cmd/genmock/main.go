// Command genmock writes deterministic synthetic TDV climate data for tests
// and local runs. The same flags always produce the same bytes.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock/climate_mock.tdv \
//	  -regions CA,TX,WA \
//	  -records 1000 \
//	  -seed 42 \
//	  -malformed-every 50
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// Observations start here and advance a random number of minutes per record.
var baseDate = time.Date(2015, time.April, 1, 0, 0, 0, 0, time.UTC)

const geohashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

type options struct {
	regions        []string
	records        int
	seed           uint64
	malformedEvery int
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("genmock", flag.ContinueOnError)
	out := fs.String("out", "-", "output path, - for stdout")
	regions := fs.String("regions", "CA,TX,WA", "comma-separated region codes")
	records := fs.Int("records", 1000, "number of lines to write")
	seed := fs.Uint64("seed", 1, "random seed")
	malformedEvery := fs.Int("malformed-every", 0, "write a malformed line every N lines, 0 to disable")
	fs.SetOutput(stdout)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	opts := options{
		regions:        splitRegions(*regions),
		records:        *records,
		seed:           *seed,
		malformedEvery: *malformedEvery,
	}
	if len(opts.regions) == 0 {
		return fmt.Errorf("no regions given")
	}
	if opts.records < 0 {
		return fmt.Errorf("records must not be negative, got %d", opts.records)
	}

	if *out == "-" {
		if err := generate(stdout, opts); err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		return nil
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := generate(f, opts); err != nil {
		f.Close()
		return fmt.Errorf("generate: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	log.Printf("wrote %d lines to %s", opts.records, *out)
	return nil
}

func splitRegions(s string) []string {
	var codes []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

func generate(w io.Writer, opts options) error {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	clock := clockwork.NewFakeClockAt(baseDate)

	bw := bufio.NewWriter(w)
	for i := 1; i <= opts.records; i++ {
		clock.Advance(time.Duration(1+rng.IntN(180)) * time.Minute)

		var line string
		if opts.malformedEvery > 0 && i%opts.malformedEvery == 0 {
			line = malformedLine(rng, opts.regions)
		} else {
			line = observationLine(rng, opts.regions[rng.IntN(len(opts.regions))], clock.Now())
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func observationLine(rng *rand.Rand, region string, at time.Time) string {
	kelvin := 250 + rng.Float64()*65
	fields := []string{
		region,
		strconv.FormatInt(at.UnixMilli(), 10),
		geohash(rng),
		formatFloat(float64(rng.IntN(101))),
		flagValue(rng, 0.1),
		formatFloat(float64(rng.IntN(101))),
		flagValue(rng, 0.05),
		formatFloat(float64(95000 + rng.IntN(8000))),
		strconv.FormatFloat(kelvin, 'f', 5, 64),
	}
	return strings.Join(fields, "\t")
}

// malformedLine produces one of the shapes the parser must reject.
func malformedLine(rng *rand.Rand, regions []string) string {
	region := regions[rng.IntN(len(regions))]
	switch rng.IntN(3) {
	case 0:
		return region + "\t1428300000000\ttruncated"
	case 1:
		return region + "\tnot-a-timestamp\tgh\t50.0\t0.0\t50.0\t0.0\t100000.0\t290.0"
	default:
		return "# comment line"
	}
}

func geohash(rng *rand.Rand) string {
	var b strings.Builder
	for range 12 {
		b.WriteByte(geohashAlphabet[rng.IntN(len(geohashAlphabet))])
	}
	return b.String()
}

func flagValue(rng *rand.Rand, p float64) string {
	if rng.Float64() < p {
		return "1.0"
	}
	return "0.0"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
