package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"salescli/internal/errors"
)

// RawRecord is a sales transaction row as read from the input CSV, before
// any cleaning. All fields are kept as text; the Cleaner owns parsing.
type RawRecord struct {
	Date        string
	StoreID     string
	ProductID   string
	Quantity    string
	UnitPrice   string
	CustomerAge string
}

// columnIndices maps the required input columns to their positions in the
// header row. -1 means the column was not found.
type columnIndices struct {
	date, store, product, quantity, price, age int
}

// Loader reads delimited sales transaction files into memory.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadCSV reads the sales CSV at path and returns one RawRecord per data row.
// The file must carry a header naming the required columns; column order is
// discovered from the header rather than assumed. A missing file or a
// malformed table is an error propagated to the caller, no recovery.
func (l *Loader) LoadCSV(path string) ([]RawRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open input file", err).
			WithContext("path", path)
	}
	defer file.Close()

	records, err := l.Read(file)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			appErr.WithContext("path", path)
		}
		return nil, err
	}

	l.logger.Info("loaded sales transactions",
		slog.String("path", path),
		slog.Int("row_count", len(records)))

	return records, nil
}

// Read parses CSV content from r. Split out from LoadCSV so tests and other
// callers can load from any reader.
func (l *Loader) Read(r io.Reader) ([]RawRecord, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewStorageError("failed to read input", err)
	}

	// Remove BOM if present
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.TrimLeadingSpace = true
	// Ragged rows are tolerated; missing trailing cells come back empty and
	// the cleaner's fill policy decides what to do with them.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to parse input CSV", err)
	}

	if len(rows) == 0 {
		return nil, errors.NewParsingError("input CSV is empty", nil)
	}

	columns, err := findColumnIndices(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, RawRecord{
			Date:        field(row, columns.date),
			StoreID:     field(row, columns.store),
			ProductID:   field(row, columns.product),
			Quantity:    field(row, columns.quantity),
			UnitPrice:   field(row, columns.price),
			CustomerAge: field(row, columns.age),
		})
	}

	return records, nil
}

// findColumnIndices locates the required columns in the header row
func findColumnIndices(header []string) (columnIndices, error) {
	columns := columnIndices{date: -1, store: -1, product: -1, quantity: -1, price: -1, age: -1}

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			columns.date = i
		case "store_id":
			columns.store = i
		case "product_id":
			columns.product = i
		case "quantity":
			columns.quantity = i
		case "unit_price":
			columns.price = i
		case "customer_age":
			columns.age = i
		}
	}

	var missing []string
	if columns.date == -1 {
		missing = append(missing, "date")
	}
	if columns.store == -1 {
		missing = append(missing, "store_id")
	}
	if columns.product == -1 {
		missing = append(missing, "product_id")
	}
	if columns.quantity == -1 {
		missing = append(missing, "quantity")
	}
	if columns.price == -1 {
		missing = append(missing, "unit_price")
	}
	if columns.age == -1 {
		missing = append(missing, "customer_age")
	}

	if len(missing) > 0 {
		return columns, errors.NewParsingError(
			fmt.Sprintf("input CSV is missing required columns: %s", strings.Join(missing, ", ")), nil)
	}

	return columns, nil
}

// field returns the trimmed cell at index i, or "" for short rows
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
