// Package exporter writes heatmap results to disk.
//
// Every writer goes through writeAtomic, so a reader of the destination path
// sees either the previous file or the complete new one, never a partial
// write. A failed export leaves nothing behind.
//
// Supported formats:
//
//	json     array of row objects, the format served over HTTP
//	csv      wide table, one column per weekday, UTF-8 BOM for Excel
//	xlsx     the same wide table in a workbook
//	parquet  long table of (time, weekday, value)
//
// Example usage:
//
//	w, err := exporter.NewWriter(exporter.FormatFromPath("out.json"))
//	if err != nil {
//	    return err
//	}
//	err = w.Write("out.json", result)
package exporter
