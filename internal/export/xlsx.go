// Package export writes tabular data as XLSX workbooks.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

var ErrNoSheets = errors.New("no sheets to export")

// Sheet is one worksheet: a header row followed by data rows
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Write encodes sheets as a workbook into w. Sheets are written in order and the first one is active.
func Write(w io.Writer, sheets []Sheet) error {
	f, err := build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Save writes the workbook to path, creating parent directories
func Save(path string, sheets []Sheet) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	f, err := build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// ReadRows returns every row of a sheet in a saved workbook, as text
func ReadRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()
	return f.GetRows(sheet)
}

func build(sheets []Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	f := excelize.NewFile()
	for i, sheet := range sheets {
		if err := writeSheet(f, i, sheet); err != nil {
			f.Close()
			return nil, err
		}
	}
	if sheets[0].Name != defaultSheet {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}
	if idx, err := f.GetSheetIndex(sheets[0].Name); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeSheet(f *excelize.File, position int, sheet Sheet) error {
	if sheet.Name == "" {
		return fmt.Errorf("sheet %d has no name", position)
	}
	if sheet.Name != defaultSheet {
		if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}
	}

	header := make([]any, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet.Name, err)
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet.Name, err)
		}
	}
	return nil
}
