package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for catalogue files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a catalogue file. Gzipped files are detected by their header.
func (l *fileLoader) Load(ctx context.Context, path string) ([]Record, error) {
	l.logger.Info().Str("file", path).Msg("loading catalogue file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open catalogue file")
		return nil, fmt.Errorf("failed to open catalogue file %s: %w", path, err)
	}
	defer file.Close()

	records, err := readCatalog(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("error reading catalogue file")
		return nil, fmt.Errorf("error reading catalogue file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("rows_loaded", len(records)).
		Msg("catalogue file loaded successfully")

	return records, nil
}
