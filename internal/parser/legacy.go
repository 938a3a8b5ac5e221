package parser

import (
	"errors"
	"fmt"
	"io"

	"github.com/extrame/xls"
)

var errNoWorkbookStream = errors.New("compound file has no workbook stream")

// readLegacyWorkbook reads the first sheet of a BIFF workbook. Rows absent
// from the file come back empty so later rows keep their place.
func readLegacyWorkbook(r io.ReadSeeker) (table [][]string, err error) {
	// the BIFF decoder panics on some truncated records
	defer func() {
		if p := recover(); p != nil {
			table, err = nil, fmt.Errorf("corrupt workbook: %v", p)
		}
	}()

	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, errNoWorkbookStream
	}
	if wb.NumSheets() == 0 {
		return nil, nil
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			table = append(table, nil)
			continue
		}
		record := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			record[c] = row.Col(c)
		}
		table = append(table, record)
	}
	return padHeader(table), nil
}
