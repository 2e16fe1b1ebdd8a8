package catalog

import (
	"context"
	"errors"
	"fmt"

	"store-manager/internal/model"

	"github.com/rs/zerolog"
)

// ProductCreator stores validated products.
type ProductCreator interface {
	Create(ctx context.Context, req *model.ProductRequest, ownerID int64) (*model.Product, error)
}

// RowError describes a catalogue row that was not imported.
type RowError struct {
	Line int
	Err  error
}

// Result summarises an import run.
type Result struct {
	Imported int
	Skipped  int
	Errors   []RowError
}

// Importer seeds the inventory from catalogue files.
type Importer struct {
	loader   Loader
	products ProductCreator
	logger   zerolog.Logger
}

// NewImporter creates an importer reading through loader and writing through products.
func NewImporter(loader Loader, products ProductCreator, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:   loader,
		products: products,
		logger:   logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Import loads path and creates one product per valid row, owned by ownerID.
// Rows that fail parsing or validation are skipped and reported in the result.
// Any other failure stops the import and is returned with the partial result.
func (i *Importer) Import(ctx context.Context, path string, ownerID int64) (Result, error) {
	var result Result

	records, err := i.loader.Load(ctx, path)
	if err != nil {
		return result, fmt.Errorf("failed to load catalogue %s: %w", path, err)
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if rec.Err != nil {
			result.skip(rec.Line, rec.Err)
			continue
		}

		req := rec.Product
		if _, err := i.products.Create(ctx, &req, ownerID); err != nil {
			var de *model.DomainError
			if errors.As(err, &de) && de.Kind == model.KindValidation {
				result.skip(rec.Line, err)
				continue
			}
			i.logger.Error().Err(err).Int("line", rec.Line).Msg("failed to import catalogue row")
			return result, fmt.Errorf("failed to import line %d: %w", rec.Line, err)
		}
		result.Imported++
	}

	i.logger.Info().
		Str("file", path).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("catalogue import finished")

	return result, nil
}

func (r *Result) skip(line int, err error) {
	r.Skipped++
	r.Errors = append(r.Errors, RowError{Line: line, Err: err})
}
