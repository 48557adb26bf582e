// Package export maintains the cumulative policy workbook. Every batch
// rewrites the workbook as existing rows plus the newly accepted records,
// with serial numbers reassigned so the first data row is always 1.
package export

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/cmc-agency/policy-cli/internal/model"
)

const sheetName = "TÜM POLİÇELER"

var headers = []string{"SIRA", "SİGORTALI", "TARİH", "MÜŞTERİ NO", "POLİÇE NO", "TÜR", "ŞİRKET", "PLAKA", "MARKA", "TUTAR", "AÇIKLAMA"}

// Fixed column widths; the insured name column is the widest.
var colWidths = []float64{8, 35, 12, 15, 18, 12, 12, 15, 20, 15, 15}

// Merge appends records to the workbook at path, creating it when absent.
// Returns the total number of data rows after the merge.
func Merge(path string, records []model.PolicyRecord) (int, error) {
	existing, err := readRows(path)
	if err != nil {
		return 0, err
	}

	for i := range records {
		r := &records[i]
		existing = append(existing, []string{
			r.Insured, r.Date, r.CustomerNo, r.PolicyNo,
			string(r.Type), string(r.Carrier), r.Plate, r.Brand, r.Amount, r.Note,
		})
	}

	if err := writeRows(path, existing); err != nil {
		return 0, err
	}
	return len(existing), nil
}

// readRows loads the data rows of an existing workbook, without header and
// serial column. A missing file is an empty workbook.
func readRows(path string) ([][]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: open workbook")
	}
	sheet, ok := f.Sheet[sheetName]
	if !ok {
		if len(f.Sheets) == 0 {
			return nil, nil
		}
		sheet = f.Sheets[0]
	}

	var rows [][]string
	for i, row := range sheet.Rows {
		if i == 0 {
			continue
		}
		cells := rowToStrings(row)
		// Drop the stale serial; it is reassigned on write.
		if len(cells) == len(headers) {
			cells = cells[1:]
		}
		for len(cells) < len(headers)-1 {
			cells = append(cells, model.Placeholder)
		}
		rows = append(rows, cells[:len(headers)-1])
	}
	return rows, nil
}

func writeRows(path string, rows [][]string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range headers {
		header.AddCell().SetString(h)
	}

	for i, cells := range rows {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}

	for i, w := range colWidths {
		sheet.SetColWidth(i, i, w)
	}

	return eris.Wrap(f.Save(path), "export: save workbook")
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
