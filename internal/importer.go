package internal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var ErrNoSheets = errors.New("no sheets found in workbook")

type ImportReport struct {
	Imported int
	Skipped  int
}

// ImportWorkbook inserts every row of an .xlsx sheet. Row 1 is a header,
// column A holds the name and column B the number. Each row goes through the
// same validation and duplicate check as the add form, and one line per row
// is written to out. An empty sheet name selects the first sheet.
func (pb *Phonebook) ImportWorkbook(ctx context.Context, path, sheet string, out io.Writer) (ImportReport, error) {
	var report ImportReport

	f, err := excelize.OpenFile(path)
	if err != nil {
		return report, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return report, ErrNoSheets
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return report, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return report, nil
	}

	for i, columns := range rows[1:] {
		rowNum := i + 2
		if len(columns) < 2 {
			report.Skipped++
			fmt.Fprintf(out, "row %d: skipped, expected name and number\n", rowNum)
			continue
		}

		in, err := ValidateAdd(columns[0], columns[1])
		if err != nil {
			report.Skipped++
			fmt.Fprintf(out, "row %d: %v\n", rowNum, err)
			continue
		}

		outcome, err := pb.InsertPerson(ctx, in)
		if err != nil {
			return report, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if outcome.Status == StatusAdded {
			report.Imported++
		} else {
			report.Skipped++
		}
		fmt.Fprintf(out, "row %d: %s\n", rowNum, outcome.Message)
	}
	return report, nil
}
