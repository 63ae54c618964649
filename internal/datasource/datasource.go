// Package datasource abstracts where input bytes come from. The pipeline
// only reads static local files, but the seam keeps the parser and stages
// testable against in-memory readers.
package datasource

import (
	"context"
	"io"
)

// Source opens a stream of raw input bytes.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
