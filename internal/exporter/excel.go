package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of tabular data for Excel export.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// WriteWorkbook writes the given sheets to a single Excel workbook at path,
// replacing the file if it exists.
func WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook requires at least one sheet")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}
		if err := writeRow(f, sheet.Name, 1, sheet.Header); err != nil {
			return err
		}
		for i, row := range sheet.Rows {
			if err := writeRow(f, sheet.Name, i+2, row); err != nil {
				return err
			}
		}
	}

	// Drop the default sheet created by excelize
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	slog.Info("wrote workbook",
		slog.String("path", path),
		slog.Int("sheet_count", len(sheets)))
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
