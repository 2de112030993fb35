// Package exporter saves session statistics to disk.
//
// CSVWriter writes UTF-8 CSV files, optionally with a BOM so Excel detects
// the encoding. XLSXWriter writes multi-sheet workbooks with excelize.
// ReportExporter lays a stats.Report out for both and writes one file per
// configured format, named after the selection:
//
//	exp := exporter.NewReportExporter(cfg.Export, logger, tel)
//	paths, err := exp.Export(ctx, report)
//	// exports/chicago_march_all_stats.csv, exports/chicago_march_all_stats.xlsx
package exporter
