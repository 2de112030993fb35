package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of an exported workbook
type Sheet struct {
	Name    string
	Headers []string
	Records [][]string
}

// XLSXWriter writes Excel workbooks below a base directory
type XLSXWriter struct {
	dir    string
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer rooted at dir
func NewXLSXWriter(dir string, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{dir: dir, logger: logger}
}

// WriteWorkbook saves sheets, in order, to fileName and returns the full path.
// The first sheet replaces excelize's default "Sheet1".
func (w *XLSXWriter) WriteWorkbook(fileName string, sheets []Sheet) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook %s has no sheets", fileName)
	}

	fullPath := fileName
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(w.dir, fileName)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return "", fmt.Errorf("failed to name sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return "", fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Debug("Wrote workbook",
		slog.String("full_path", fullPath),
		slog.Int("sheets", len(sheets)))
	return fullPath, nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	rows := make([][]string, 0, len(sheet.Records)+1)
	if len(sheet.Headers) > 0 {
		rows = append(rows, sheet.Headers)
	}
	rows = append(rows, sheet.Records...)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %s: %w", i, sheet.Name, err)
		}
	}
	return nil
}
