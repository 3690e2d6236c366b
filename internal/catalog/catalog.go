package catalog

import (
	"context"

	"neon-market/internal/model"
)

// Loader reads a catalogue seed file and returns the products it contains.
// Seed files are gzipped NDJSON: one product object per line.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.Product, error)
}
