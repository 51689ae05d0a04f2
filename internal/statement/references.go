package statement

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
)

// Reference spreadsheet columns, matched case-insensitively.
const (
	ReferenceNameColumn   = "Nome"
	ReferenceDebitColumn  = "Conta_D"
	ReferenceCreditColumn = "Conta_E"
)

// OpenReferences reads a reference spreadsheet (CSV or XLSX) with the Nome,
// Conta_D and Conta_E columns. Rows with a blank name are kept so the caller
// can count them as skipped.
func OpenReferences(ctx context.Context, path string) ([]model.Reference, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatOFX {
		return nil, common.NewUserError("Use a .csv or .xlsx file to import references",
			fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, filepath.Base(path)))
	}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open reference file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var table model.Statement
	if format == FormatCSV {
		table, err = ReadCSV(f)
	} else {
		table, err = ReadXLSX(f)
	}
	if err != nil {
		return nil, err
	}

	return ReferencesFromTable(table)
}

// ReferencesFromTable converts a Nome/Conta_D/Conta_E table into references.
func ReferencesFromTable(table model.Statement) ([]model.Reference, error) {
	required := []string{ReferenceNameColumn, ReferenceDebitColumn, ReferenceCreditColumn}
	found := make(map[string]string, len(required))
	var missing []string

	for _, want := range required {
		for _, col := range table.Columns {
			if strings.EqualFold(strings.TrimSpace(col), want) {
				found[want] = col
				break
			}
		}
		if _, ok := found[want]; !ok {
			missing = append(missing, want)
		}
	}

	if len(missing) > 0 {
		return nil, common.NewUserError(
			fmt.Sprintf("The file must have the columns %s", strings.Join(required, ", ")),
			fmt.Errorf("%w: %s", common.ErrMissingColumns, strings.Join(missing, ", ")))
	}

	refs := make([]model.Reference, 0, len(table.Rows))
	for _, row := range table.Rows {
		refs = append(refs, model.Reference{
			Name:          cellText(row[found[ReferenceNameColumn]]),
			DebitAccount:  cellText(row[found[ReferenceDebitColumn]]),
			CreditAccount: cellText(row[found[ReferenceCreditColumn]]),
		})
	}
	return refs, nil
}

// cellText renders a cell as trimmed text. Account codes typed as numbers in a
// spreadsheet come back without a trailing ".0".
func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case float64:
		if c == float64(int64(c)) {
			return fmt.Sprintf("%d", int64(c))
		}
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
