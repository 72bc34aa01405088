// Package exporter writes the pipeline's output artifacts: CSV summary
// tables, the Excel summary workbook, and the customer age histogram chart.
package exporter
