// Package dataprocessing implements the sales transaction pipeline: loading
// raw CSV data, cleaning it, deriving per-row features, and producing the
// grouped summary tables and descriptive statistics that are written to the
// reports directory.
//
// The pipeline is strictly sequential and single-threaded. A Processor owns
// the in-memory table for its entire lifetime; aggregation and analytics
// consume the processed table through the Processor and never mutate rows
// concurrently.
package dataprocessing
