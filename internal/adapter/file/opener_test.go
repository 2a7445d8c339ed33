package file

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testData = "TN\t1438599600000\tdnh0fhv8yqzp\t49.0\t0.0\t22.0\t1.0\t101325.0\t285.0\n"

func readAll(t *testing.T, o *Opener, name string) string {
	t.Helper()
	rc, err := o.Open(context.Background(), name)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestOpener_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data_tn.tdv")
	require.NoError(t, os.WriteFile(path, []byte(testData), 0o600))

	assert.Equal(t, testData, readAll(t, NewOpener(), path))
}

func TestOpener_GzipFile(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(testData))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "data_tn.tdv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	assert.Equal(t, testData, readAll(t, NewOpener(), path))
}

func TestOpener_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.tdv.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o600))

	_, err := NewOpener().Open(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestOpener_Stdin(t *testing.T) {
	o := NewOpenerWithStdin(strings.NewReader(testData))
	assert.Equal(t, testData, readAll(t, o, Stdin))
}

func TestOpener_MissingFile(t *testing.T) {
	_, err := NewOpener().Open(context.Background(), filepath.Join(t.TempDir(), "nope.tdv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
