package dump_store

import (
	"context"

	"github.com/pkg/errors"
)

// ErrDumpNotFound is returned by Load when nothing was saved under the name.
var ErrDumpNotFound = errors.New("dump not found")

// DumpStore keeps fetched reference feeds between the fetch and the load
// steps of an import.
type DumpStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
}
