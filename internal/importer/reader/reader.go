// Package reader decodes uploaded tabular files (delimited text and
// spreadsheet binary) into one rectangular grid shape: rows of string
// cells, first row being the header. No business validation happens here;
// a one-row grid is valid output and the caller decides it is insufficient.
package reader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnreadableFile wraps any decode failure (corrupt file, wrong
// encoding). Callers test for it with errors.Is.
var ErrUnreadableFile = errors.New("reader: unreadable file")

// Format identifies the input encoding of an uploaded file.
type Format int

const (
	FormatCSV Format = iota
	FormatExcel
)

// DetectFormat guesses the format from a file name. Spreadsheet extensions
// map to FormatExcel; everything else is treated as delimited text.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xls":
		return FormatExcel
	}
	return FormatCSV
}

// Read decodes the file into a grid of raw cell values. Blank rows are
// skipped. Decode failures wrap ErrUnreadableFile.
func Read(r io.Reader, format Format) ([][]string, error) {
	if format == FormatExcel {
		return readExcel(r)
	}
	return readCSV(r)
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	data = stripBOM(data)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
