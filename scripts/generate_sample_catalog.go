//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Writes data/catalog/sample.csv.gz for `storeadmin import-catalog`.
// The last two rows are malformed on purpose and should be reported as skipped.
func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	rows := [][]string{
		{"name", "price", "quantity", "category"},
		{"Widget", "9.99", "100", "Tools"},
		{"Gadget", "19.99", "25", "Electronics"},
		{"Sprocket", "0.50", "1000", "Tools"},
		{"Desk Lamp", "34.00", "12", "Home"},
		{"Notebook", "2.25", "300", "Stationery"},
		{"Broken Price", "abc", "1", "Tools"},
		{"Negative Price", "-4.00", "1", "Tools"},
	}

	filePath := filepath.Join(dataDir, "sample.csv.gz")
	if err := createCatalogFile(filePath, rows); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d data rows\n", filePath, len(rows)-1)
	fmt.Println("\nExpected import result: 5 imported, 2 skipped")
}

func createCatalogFile(filePath string, rows [][]string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	w := csv.NewWriter(gzipWriter)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write catalogue rows: %w", err)
	}

	return nil
}
