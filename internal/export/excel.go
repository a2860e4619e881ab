package export

import (
	"github.com/xuri/excelize/v2"

	"inventora/webclient/internal/report"
)

const defaultSheet = "Sheet1"

// Excel writes the report as a single-sheet workbook named after its title.
func Excel(data report.Data) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := data.Title
	if sheet == "" {
		sheet = "Report"
	}
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Vertical: "top"},
	})
	if err != nil {
		return nil, err
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, err
	}

	for col, header := range data.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}
	if n := len(data.Headers); n > 0 {
		last, _ := excelize.CoordinatesToCellName(n, 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return nil, err
		}
		lastCol, _ := excelize.ColumnNumberToName(n)
		if err := f.SetColWidth(sheet, "A", lastCol, 24); err != nil {
			return nil, err
		}
	}

	for r, row := range data.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(sheet, cell, cell, bodyStyle); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
