package catalog

import (
	"context"

	"store-manager/internal/model"
)

// Record is one product row read from a catalogue file.
// Err is set when the row could not be parsed; such rows are skipped on import.
type Record struct {
	Line    int
	Product model.ProductRequest
	Err     error
}

// Loader defines the interface for loading catalogue files.
type Loader interface {
	// Load reads a catalogue file (gzipped or plain CSV) and returns its rows.
	Load(ctx context.Context, path string) ([]Record, error)
}
