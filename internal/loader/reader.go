package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadFile parses one CSV export into records. Any read or parse error aborts
// the whole file.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// ParseCSV reads a header row then coerces every following row. A leading
// byte order mark is stripped; UTF-16 input with a BOM is transcoded to UTF-8.
func ParseCSV(r io.Reader) ([]Record, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(encoding.Nop.NewDecoder()))

	reader := csv.NewReader(decoded)
	// Trailing empty columns are often dropped by exporters; missing cells are null.
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	var records []Record
	row := make(map[string]string, len(columns))
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		clear(row)
		for i, cell := range cells {
			if i < len(columns) {
				row[columns[i]] = cell
			}
		}
		records = append(records, CoerceRow(row))
	}
	return records, nil
}
