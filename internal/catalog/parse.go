package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"store-manager/internal/model"

	"github.com/shopspring/decimal"
)

// columns is the expected column order of a catalogue row.
var columns = []string{"name", "price", "quantity", "category"}

// cancelCheckInterval is how many rows are read between context checks.
const cancelCheckInterval = 10_000

var gzipMagic = []byte{0x1f, 0x8b}

// readCatalog parses catalogue rows from r, transparently decompressing gzip input.
func readCatalog(ctx context.Context, r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	if magic, err := br.Peek(len(gzipMagic)); err == nil && string(magic) == string(gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var records []Record
	for {
		if len(records)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			records = append(records, Record{Line: parseErr.Line, Err: err})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalogue: %w", err)
		}

		line, _ := reader.FieldPos(0)

		if len(records) == 0 && isHeader(fields) {
			continue
		}
		if isBlank(fields) {
			continue
		}

		product, err := parseRow(fields)
		records = append(records, Record{Line: line, Product: product, Err: err})
	}

	return records, nil
}

func isHeader(fields []string) bool {
	return len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), columns[0])
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseRow converts a name,price,quantity,category row into a product request.
func parseRow(fields []string) (model.ProductRequest, error) {
	if len(fields) != len(columns) {
		return model.ProductRequest{}, fmt.Errorf("expected %d columns, got %d", len(columns), len(fields))
	}

	price, err := decimal.NewFromString(strings.TrimSpace(fields[1]))
	if err != nil {
		return model.ProductRequest{}, fmt.Errorf("invalid price %q: %w", fields[1], err)
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return model.ProductRequest{}, fmt.Errorf("invalid quantity %q: %w", fields[2], err)
	}

	return model.ProductRequest{
		Name:     strings.TrimSpace(fields[0]),
		Price:    &price,
		Quantity: quantity,
		Category: strings.TrimSpace(fields[3]),
	}, nil
}
