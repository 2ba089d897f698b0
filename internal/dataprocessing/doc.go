// Package dataprocessing turns a point-of-sale line-item export into a
// time-of-day by weekday sales heatmap.
//
// # Architecture
//
// The package is organized as a single batch pipeline:
//
//  1. Loader: reads a CSV or XLSX export into a Table of RawRecords
//  2. Normalizer: parses bill-open and order timestamps, coerces numbers
//  3. Filter: optionally keeps only the trailing window before the newest bill
//  4. Bucketizer: builds the 48 half-hour TimeIntervals of a day
//  5. Aggregator: sums the selected Measure per interval and weekday
//
// # Usage
//
//	table, err := dataprocessing.LoadFile("sales.csv", dataprocessing.DefaultLoadOptions())
//	if err != nil {
//	    return err
//	}
//	processor := dataprocessing.NewProcessor(logger)
//	result, err := processor.Process(ctx, table, dataprocessing.VariantRevenue.Options())
//
// # Data Flow
//
//	CSV/XLSX → Loader → RawRecords → Normalizer → NormalizedRecords → Filter → Aggregator → ResultRows
//
// # Error Handling
//
// Only dataset-wide problems are returned as errors and all of them wrap
// ErrDataFormat. A single unparseable timestamp or number turns into a
// missing value and the row is skipped by the aggregator.
//
// # Numeric Contract
//
// Every cell is a float64 rounded once, on the final sum, to two decimals
// using round-half-to-even. Cells always serialize with a decimal point
// (100 is written as 100.0).
package dataprocessing
