package sheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load reads sheetName from the workbook at path into a Table. The first
// row is the header; later rows shorter than the header read as empty cells.
func Load(path, sheetName string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheetName)
	}

	header := rows[0]
	t := &Table{
		Columns: make([]string, len(header)),
		Rows:    make([]Row, 0, len(rows)-1),
	}
	copy(t.Columns, header)

	for _, raw := range rows[1:] {
		row := make(Row, len(header))
		for colIdx, name := range header {
			if colIdx < len(raw) {
				row[name] = raw[colIdx]
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// Save writes the table as sheetName into a new workbook at path,
// replacing any existing file.
func Save(t *Table, path, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet is renamed rather than left dangling.
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheetName, err)
	}

	if err := writeSheet(f, t, sheetName); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// SaveInPlace overwrites sheetName inside the existing workbook at path,
// leaving other sheets untouched. There is no backup: a failed write is
// reported, not rolled back.
func SaveInPlace(t *Table, path, sheetName string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return fmt.Errorf("failed to look up sheet %q: %w", sheetName, err)
	}
	if idx < 0 {
		return fmt.Errorf("sheet %q not found in %s", sheetName, path)
	}

	// Rebuild on a scratch sheet first: DeleteSheet refuses to remove the
	// last worksheet of a workbook, so the old sheet can only go once its
	// replacement exists.
	const scratch = "__loctran_rebuild__"
	if _, err := f.NewSheet(scratch); err != nil {
		return fmt.Errorf("failed to create scratch sheet: %w", err)
	}
	if err := writeSheet(f, t, scratch); err != nil {
		return err
	}
	if err := f.DeleteSheet(sheetName); err != nil {
		return fmt.Errorf("failed to clear sheet %q: %w", sheetName, err)
	}
	if err := f.SetSheetName(scratch, sheetName); err != nil {
		return fmt.Errorf("failed to rename scratch sheet: %w", err)
	}
	if newIdx, err := f.GetSheetIndex(sheetName); err == nil && newIdx >= 0 {
		f.SetActiveSheet(newIdx)
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t *Table, sheetName string) error {
	for colIdx, name := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err != nil {
			return fmt.Errorf("invalid header coordinate: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header %q: %w", name, err)
		}
	}

	for rowIdx, row := range t.Rows {
		for colIdx, name := range t.Columns {
			val, ok := row[name]
			if !ok || val == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("invalid cell coordinate: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return fmt.Errorf("failed to write row %d col %q: %w", rowIdx, name, err)
			}
		}
	}
	return nil
}

// TranslatedPath inserts "_translated" before the extension:
// localizations.xlsx -> localizations_translated.xlsx.
func TranslatedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_translated" + ext
}
