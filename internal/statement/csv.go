package statement

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/vledger/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a delimited statement. The delimiter is sniffed from the
// header line among comma, semicolon and tab; Brazilian bank exports
// commonly use semicolons.
func ReadCSV(r io.Reader) (model.Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return model.Statement{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = sniffDelimiter(string(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return model.Statement{}, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return model.Statement{}, nil
	}

	data := make([][]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]any, len(record))
		for i, v := range record {
			row[i] = v
		}
		data = append(data, row)
	}

	return tableToStatement(records[0], data), nil
}

// sniffDelimiter returns the candidate occurring most often in the first line.
func sniffDelimiter(sample string) rune {
	if i := strings.IndexAny(sample, "\r\n"); i >= 0 {
		sample = sample[:i]
	}

	best, bestCount := ',', 0
	for _, delim := range []rune{',', ';', '\t'} {
		if n := strings.Count(sample, string(delim)); n > bestCount {
			best, bestCount = delim, n
		}
	}
	return best
}
