package serialize

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// CreateOutput opens path for writing, transparently gzipping the stream
// when path ends in ".gz". The returned closer closes both the gzip writer
// (flushing its footer) and the underlying file.
func CreateOutput(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	return &gzipFile{gw: gzip.NewWriter(f), f: f}, nil
}

type gzipFile struct {
	gw *gzip.Writer
	f  *os.File
}

func (g *gzipFile) Write(p []byte) (int, error) { return g.gw.Write(p) }

func (g *gzipFile) Close() error {
	if err := g.gw.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}
