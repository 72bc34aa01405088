package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations in the application.
type Paths struct {
	ExecutableDir string
	DataDir       string
	InputDir      string
	ReportsDir    string
	LogsDir       string

	// Well-known files
	InputCSV string

	// Generated report files
	EnrichedCSV      string
	DailySalesCSV    string
	WeeklyRevenueCSV string
	AvgQuantityCSV   string
	MonthlyCSV       string
	QuarterlyCSV     string
	SummaryStatsCSV  string
	HistogramPNG     string
	SummaryWorkbook  string
}

// GetPaths returns the application paths relative to the executable location.
// All paths are relative to the executable directory, never the current
// working directory.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return PathsFor(filepath.Dir(exe)), nil
}

// PathsFor builds the path layout rooted at the given directory.
//
// Directory structure:
//
//	<root>/
//	  ├── data/
//	  │   ├── input/     (raw sales CSV files)
//	  │   └── reports/   (generated aggregate tables)
//	  └── logs/          (application logs)
func PathsFor(root string) *Paths {
	dataDir := filepath.Join(root, "data")
	inputDir := filepath.Join(dataDir, "input")
	reportsDir := filepath.Join(dataDir, "reports")

	return &Paths{
		ExecutableDir: root,
		DataDir:       dataDir,
		InputDir:      inputDir,
		ReportsDir:    reportsDir,
		LogsDir:       filepath.Join(root, "logs"),

		InputCSV: filepath.Join(inputDir, "sales_data.csv"),

		EnrichedCSV:      filepath.Join(reportsDir, "sales_data_with_revenue.csv"),
		DailySalesCSV:    filepath.Join(reportsDir, "daily_sales.csv"),
		WeeklyRevenueCSV: filepath.Join(reportsDir, "weekly_revenue_by_store.csv"),
		AvgQuantityCSV:   filepath.Join(reportsDir, "avg_quantity_by_product_and_age_group.csv"),
		MonthlyCSV:       filepath.Join(reportsDir, "monthly_revenue_trends.csv"),
		QuarterlyCSV:     filepath.Join(reportsDir, "quarterly_revenue_trends.csv"),
		SummaryStatsCSV:  filepath.Join(reportsDir, "summary_statistics.csv"),
		HistogramPNG:     filepath.Join(reportsDir, "customer_age_histogram.png"),
		SummaryWorkbook:  filepath.Join(reportsDir, "sales_summary.xlsx"),
	}
}

// SetReportsDir repoints the reports directory and every generated report
// file at dir. Used when the caller overrides the default layout, for
// example through the processor's -out flag.
func (p *Paths) SetReportsDir(dir string) {
	p.ReportsDir = dir

	p.EnrichedCSV = filepath.Join(dir, "sales_data_with_revenue.csv")
	p.DailySalesCSV = filepath.Join(dir, "daily_sales.csv")
	p.WeeklyRevenueCSV = filepath.Join(dir, "weekly_revenue_by_store.csv")
	p.AvgQuantityCSV = filepath.Join(dir, "avg_quantity_by_product_and_age_group.csv")
	p.MonthlyCSV = filepath.Join(dir, "monthly_revenue_trends.csv")
	p.QuarterlyCSV = filepath.Join(dir, "quarterly_revenue_trends.csv")
	p.SummaryStatsCSV = filepath.Join(dir, "summary_statistics.csv")
	p.HistogramPNG = filepath.Join(dir, "customer_age_histogram.png")
	p.SummaryWorkbook = filepath.Join(dir, "sales_summary.xlsx")
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.InputDir,
		p.ReportsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// GetLogPath returns the path for a log file in the logs directory
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetReportPath returns the path for a report file in the reports directory
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
