// Package statement loads uploaded bank statements into the column/row form
// the classification engine works on.
package statement

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
)

// Format identifies a statement file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatOFX  Format = "ofx"
)

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".ofx", ".qfx":
		return FormatOFX, nil
	}
	return "", common.NewUserError(
		"Use a .csv, .xlsx or .ofx statement file",
		fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, filepath.Base(path)))
}

// Open reads the statement at path.
func Open(ctx context.Context, path string) (model.Statement, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return model.Statement{}, err
	}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return model.Statement{}, fmt.Errorf("failed to open statement: %w", err)
	}
	defer func() { _ = f.Close() }()

	stmt, err := Read(ctx, f, format)
	if err != nil {
		return model.Statement{}, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	stmt.Source = filepath.Base(path)

	slog.Info("Loaded statement",
		"file", stmt.Source,
		"format", format,
		"columns", len(stmt.Columns),
		"rows", len(stmt.Rows))

	return stmt, nil
}

// Read parses a statement of the given format.
func Read(ctx context.Context, r io.Reader, format Format) (model.Statement, error) {
	if err := ctx.Err(); err != nil {
		return model.Statement{}, err
	}

	var (
		stmt model.Statement
		err  error
	)
	switch format {
	case FormatCSV:
		stmt, err = ReadCSV(r)
	case FormatXLSX:
		stmt, err = ReadXLSX(r)
	case FormatOFX:
		stmt, err = ReadOFX(r)
	default:
		return model.Statement{}, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return model.Statement{}, err
	}

	if len(stmt.Rows) == 0 {
		return stmt, common.NewUserError("The statement has no transaction rows", common.ErrEmptyStatement)
	}
	return stmt, nil
}

// tableToStatement turns a header row plus data rows into a Statement. Header
// names are trimmed, blank names are numbered and repeated names get a suffix
// so every row key is unique. Rows with no values are dropped.
func tableToStatement(header []string, records [][]any) model.Statement {
	columns := uniqueColumns(header)

	stmt := model.Statement{Columns: columns}
	for _, record := range records {
		row := make(model.RawRow, len(columns))
		empty := true
		for i, col := range columns {
			var v any
			if i < len(record) {
				v = record[i]
			}
			if s, ok := v.(string); ok {
				if strings.TrimSpace(s) == "" {
					v = nil
				}
			}
			if v != nil {
				empty = false
			}
			row[col] = v
		}
		if !empty {
			stmt.Rows = append(stmt.Rows, row)
		}
	}
	return stmt
}

func uniqueColumns(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Coluna %d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s (%d)", name, n+1)
		}
		seen[name]++
		columns[i] = name
	}
	return columns
}
