// Package export renders classification results as spreadsheets.
package export

import (
	"fmt"
	"math"
	"time"

	"github.com/Veraticus/vledger/internal/model"
)

// Export layout.
const (
	SheetName    = "Classificação"
	DebitHeader  = "Débito"
	CreditHeader = "Crédito"
)

// Table lays a result out as header plus rows: the original columns in their
// original order followed by the debit and credit accounts. The resolved date
// column holds the normalized YYYY-MM-DD date when the row's date parsed.
func Table(result *model.ClassificationResult) ([]string, [][]any) {
	header := make([]string, 0, len(result.SourceColumns)+2)
	header = append(header, result.SourceColumns...)
	header = append(header, DebitHeader, CreditHeader)

	rows := make([][]any, 0, len(result.Rows))
	for _, row := range result.Rows {
		values := make([]any, 0, len(header))
		for _, col := range result.SourceColumns {
			if col == result.Columns.Date && row.Date != nil {
				values = append(values, row.DateString())
				continue
			}
			values = append(values, cellValue(row.Raw[col]))
		}
		values = append(values, row.DebitAccount, row.CreditAccount)
		rows = append(rows, values)
	}

	return header, rows
}

// cellValue makes a raw cell safe for every writer: missing values become
// empty, dates become YYYY-MM-DD and anything exotic is rendered as text.
func cellValue(v any) any {
	switch c := v.(type) {
	case nil:
		return ""
	case string, bool, int, int64:
		return c
	case float64:
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return ""
		}
		return c
	case time.Time:
		return c.Format(model.DateLayout)
	case *time.Time:
		if c == nil {
			return ""
		}
		return c.Format(model.DateLayout)
	}
	return fmt.Sprint(v)
}

// FileName is the download name of an export produced at now.
func FileName(now time.Time) string {
	return "Vledger_" + now.Format("20060102_150405") + ".xlsx"
}
