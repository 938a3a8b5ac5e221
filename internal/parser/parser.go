package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"tabular-rag/internal/models"
)

// Parser turns tabular files into text units.
type Parser interface {
	Flatten(filePath string) ([]models.TextUnit, error)
	FlattenAll(filePaths []string) ([]models.TextUnit, error)
}

type fileParser struct{}

// New returns the Parser backed by Flatten.
func New() Parser {
	return fileParser{}
}

func (fileParser) Flatten(filePath string) ([]models.TextUnit, error) {
	return Flatten(filePath)
}

func (fileParser) FlattenAll(filePaths []string) ([]models.TextUnit, error) {
	return FlattenAll(filePaths)
}

// Flatten reads the header row and data rows of filePath and renders every
// non-blank row as a TextUnit, numbered from 1 within the file.
func Flatten(filePath string) ([]models.TextUnit, error) {
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", models.ErrFileNotFound, filePath)
	}

	var table [][]string
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".xlsx", ".xls":
		table, err = readWorkbook(filePath)
	case ".csv":
		table, err = readCSV(filePath)
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	if len(table) == 0 {
		return nil, nil
	}

	units := FlattenTable(filepath.Base(filePath), table[0], table[1:])
	log.Debug().Str("file", filePath).Int("rows", len(units)).Msg("Flattened table")
	return units, nil
}

// FlattenAll flattens every file in order and concatenates the units. The
// first failing file aborts the whole call.
func FlattenAll(filePaths []string) ([]models.TextUnit, error) {
	var all []models.TextUnit
	for _, p := range filePaths {
		units, err := Flatten(p)
		if err != nil {
			return nil, err
		}
		log.Info().Msgf("Parsed %d rows from %s", len(units), filepath.Base(p))
		all = append(all, units...)
	}
	return all, nil
}

// compound file header of legacy BIFF workbooks
var ole2Signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// readWorkbook picks the reader from the file content, not the extension:
// a .xls saved as OOXML opens with excelize.
func readWorkbook(filePath string) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, len(ole2Signature))
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if n == len(ole2Signature) && bytes.Equal(head, ole2Signature) {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		return readLegacyWorkbook(f)
	}
	return readSpreadsheet(filePath)
}

// first sheet only, like a default spreadsheet read
func readSpreadsheet(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil || len(rows) == 0 {
		return rows, err
	}
	return padHeader(rows), nil
}

// GetRows trims trailing empty cells, so the header can be narrower than the
// data below it.
func padHeader(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	for len(rows[0]) < width {
		rows[0] = append(rows[0], "")
	}
	return rows
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV cell texts that stand for a missing value. Spreadsheet cells are empty
// when missing, so these apply to CSV input only.
var csvMissingValues = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {},
	"None": {}, "n/a": {}, "nan": {}, "null": {},
}

func readCSV(filePath string) ([][]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var table [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(table) > 0 && len(record) > len(table[0]) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(table[0]), len(record))
		}
		if len(table) > 0 {
			for i, cell := range record {
				if _, ok := csvMissingValues[strings.TrimSpace(cell)]; ok {
					record[i] = ""
				}
			}
		}
		table = append(table, record)
	}
	return table, nil
}
