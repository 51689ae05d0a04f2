package statement

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/vledger/internal/model"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first sheet of a workbook; its first row is the header.
// Cells formatted as dates are returned as time.Time so they never depend on
// the locale the workbook was saved in. Other cells keep their raw text.
func ReadXLSX(r io.Reader) (model.Statement, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return model.Statement{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return model.Statement{}, nil
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.Statement{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return model.Statement{}, nil
	}

	dates := dateStyles{file: f, known: make(map[int]bool)}
	data := make([][]any, 0, len(rows)-1)
	for r, cells := range rows[1:] {
		row := make([]any, len(cells))
		for c, value := range cells {
			row[c] = value
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				continue
			}
			if t, ok := dates.convert(sheet, cell, value); ok {
				row[c] = t
			}
		}
		data = append(data, row)
	}

	return tableToStatement(rows[0], data), nil
}

// dateStyles caches which cell styles use a date number format.
type dateStyles struct {
	file  *excelize.File
	known map[int]bool
}

func (d *dateStyles) convert(sheet, cell, value string) (any, bool) {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, false
	}

	styleID, err := d.file.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return nil, false
	}

	isDate, ok := d.known[styleID]
	if !ok {
		isDate = d.isDateStyle(styleID)
		d.known[styleID] = isDate
	}
	if !isDate {
		return nil, false
	}

	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return nil, false
	}
	return t, true
}

func (d *dateStyles) isDateStyle(styleID int) bool {
	style, err := d.file.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	return isBuiltInDateFormat(style.NumFmt)
}

// isBuiltInDateFormat reports whether a built-in number format id renders a
// date (ECMA-376 18.8.30, including the CJK variants).
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code contains day, month
// or year tokens outside quoted literals and bracketed sections.
func isDateFormatCode(code string) bool {
	code = strings.ToLower(code)
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		switch ch := code[i]; {
		case ch == '\\':
			i++
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		case ch == 'd', ch == 'y':
			return true
		case ch == 'm':
			// "mm" after "h" is minutes; a bare time format is not a date.
			if !strings.ContainsAny(code, "hs") {
				return true
			}
		}
	}
	return false
}
