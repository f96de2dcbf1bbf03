// Package datasource resolves a source location into something that can be
// opened for reading.
package datasource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"salesetl/internal/datasource/file"
	"salesetl/internal/datasource/s3ds"
)

// Source opens a byte stream. The caller closes it.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// ForLocation picks a Source for loc: "s3://bucket/key" reads an S3 object
// using s3cfg, "file://path" or any plain path reads the local file.
func ForLocation(ctx context.Context, loc string, s3cfg s3ds.Config) (Source, error) {
	loc = strings.TrimSpace(loc)
	switch {
	case loc == "":
		return nil, fmt.Errorf("datasource: empty location")
	case strings.HasPrefix(loc, "s3://"):
		return s3ds.New(ctx, loc, s3cfg)
	case strings.HasPrefix(loc, "file://"):
		return file.NewLocal(strings.TrimPrefix(loc, "file://")), nil
	case strings.Contains(loc, "://"):
		return nil, fmt.Errorf("datasource: unsupported scheme in %q", loc)
	default:
		return file.NewLocal(loc), nil
	}
}
