// Package file opens TDV input streams named on the command line.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Stdin is the argument that selects standard input.
const Stdin = "-"

// Opener implements pipeline.SourceOpener for local paths. It reads "-" as
// standard input and decompresses names ending in ".gz".
type Opener struct {
	stdin io.Reader
}

// NewOpener creates an Opener bound to the process's standard input.
func NewOpener() *Opener {
	return &Opener{stdin: os.Stdin}
}

// NewOpenerWithStdin creates an Opener reading "-" from r.
func NewOpenerWithStdin(r io.Reader) *Opener {
	return &Opener{stdin: r}
}

// Open returns a reader for name. The caller closes it.
func (o *Opener) Open(_ context.Context, name string) (io.ReadCloser, error) {
	var rc io.ReadCloser
	if name == Stdin {
		rc = io.NopCloser(o.stdin)
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		rc = f
	}

	if !strings.HasSuffix(name, ".gz") {
		return rc, nil
	}

	zr, err := gzip.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("gzip %s: %w", name, err)
	}
	return &gzipReadCloser{Reader: zr, underlying: rc}, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	underlying io.Closer
}

func (g *gzipReadCloser) Close() error {
	zerr := g.Reader.Close()
	if err := g.underlying.Close(); err != nil {
		return err
	}
	return zerr
}
