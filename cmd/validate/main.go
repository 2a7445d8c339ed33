// Command validate checks TDV climate files line by line with the same parser
// the ETL uses and prints a PASS/FAIL line per file. Malformed lines are
// listed with their line number and reason. The exit status is 1 if any
// file is unreadable or has a malformed line.
//
// Usage:
//
//	go run ./cmd/validate data_tn.tdv data_wa.tdv.gz
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/climate-data-etl/internal/adapter/file"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// maxListed caps how many malformed lines are printed per file.
const maxListed = 20

// phase tracks pass/fail for one input file.
type phase struct {
	name    string
	lines   int
	records int
	regions map[string]int
	errors  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	os.Exit(run(context.Background(), os.Args[1:], file.NewOpener(), os.Stdout, os.Stderr))
}

func run(ctx context.Context, names []string, opener *file.Opener, stdout, stderr io.Writer) int {
	if len(names) == 0 {
		fmt.Fprintln(stderr, "Usage: validate FILE...")
		return 1
	}

	fmt.Fprintln(stdout, "=== Climate Data Validation ===")
	fmt.Fprintln(stdout)

	phases := make([]*phase, 0, len(names))
	for _, name := range names {
		phases = append(phases, validateFile(ctx, opener, name))
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(stdout, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(stdout)
	for _, p := range phases {
		fmt.Fprintf(stdout, "%s: %d lines, %d records, %d regions\n", p.name, p.lines, p.records, len(p.regions))
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(stdout, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxListed {
				fmt.Fprintf(stdout, "  ... %d more\n", len(p.errors)-maxListed)
				break
			}
			fmt.Fprintf(stdout, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(stdout, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(stdout, "\nValidation FAILED.")
	return 1
}

func validateFile(ctx context.Context, opener *file.Opener, name string) *phase {
	p := &phase{name: name, regions: make(map[string]int)}

	rc, err := opener.Open(ctx, name)
	if err != nil {
		p.errorf("open: %v", err)
		return p
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if line != "" {
			p.lines++
			obs, perr := domain.ParseLine(line)
			if perr != nil {
				p.errorf("line %d: %v", lineNo, perr)
			} else {
				p.records++
				p.regions[obs.RegionCode]++
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			p.errorf("read line %d: %v", lineNo, err)
			break
		}
	}
	return p
}
