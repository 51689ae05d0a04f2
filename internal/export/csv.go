package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Veraticus/vledger/internal/model"
)

// WriteCSV writes result with the same layout as WriteXLSX.
func WriteCSV(w io.Writer, result *model.ClassificationResult) error {
	header, rows := Table(result)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, v := range row {
			record[i] = csvText(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvText(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
