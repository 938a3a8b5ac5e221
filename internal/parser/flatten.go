package parser

import (
	"fmt"
	"strings"

	"tabular-rag/internal/models"
)

func isBlank(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

// FlattenTable renders rows under header as TextUnits. Fully blank rows are
// dropped first; numbering counts only the rows that remain.
func FlattenTable(source string, header []string, rows [][]string) []models.TextUnit {
	columns := normalizeHeader(header)

	var units []models.TextUnit
	for _, row := range rows {
		if rowIsBlank(row) {
			continue
		}
		n := len(units) + 1
		units = append(units, models.TextUnit{
			Text:   FormatRow(n, columns, row),
			Source: source,
			Row:    n,
		})
	}
	return units
}

// FormatRow builds "Row <n>: <col> is <val>, ..." skipping blank cells.
// Cells past the last column are ignored.
func FormatRow(n int, columns, row []string) string {
	parts := make([]string, 0, len(columns))
	for i, col := range columns {
		if i >= len(row) || isBlank(row[i]) {
			continue
		}
		parts = append(parts, fmt.Sprintf(models.ClauseFormat, col, row[i]))
	}
	return fmt.Sprintf(models.RowPrefixFormat, n) + strings.Join(parts, models.ClauseSeparator)
}

func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if !isBlank(cell) {
			return false
		}
	}
	return true
}

// normalizeHeader names blank columns "Unnamed: <i>" and suffixes repeats
// with ".1", ".2", ...
func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		} else {
			name = h
		}
		if count, ok := seen[name]; ok {
			seen[name] = count + 1
			name = fmt.Sprintf("%s.%d", name, count+1)
		}
		seen[name] = 0
		columns[i] = name
	}
	return columns
}
