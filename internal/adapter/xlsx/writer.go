package xlsx

import (
	"fmt"

	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Catalogo"

// WriteWorkbook writes records to a new workbook at path using the catalogue
// column layout, with FECHA_UTC stored as a date cell.
func WriteWorkbook(path string, records []domain.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{ColDate, ColLat, ColLon, ColMag, ColDepth}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		row := []any{r.Time.UTC(), r.Lat, r.Lon, r.Magnitude, r.Depth}
		if err := f.SetSheetRow(sheetName, cellRef, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
