package export

import (
	"fmt"
	"io"

	"github.com/Veraticus/vledger/internal/model"
	"github.com/xuri/excelize/v2"
)

// TemplateReferences are the sample rows of the reference import template.
var TemplateReferences = []model.Reference{
	{Name: "Intermedica", DebitAccount: "282", CreditAccount: "537"},
	{Name: "Amil", DebitAccount: "310", CreditAccount: "537"},
	{Name: "Unimed", DebitAccount: "295", CreditAccount: "537"},
}

// WriteXLSX writes result as a single-sheet workbook.
func WriteXLSX(w io.Writer, result *model.ClassificationResult) error {
	header, rows := Table(result)
	return writeWorkbook(w, SheetName, header, rows)
}

// WriteReferenceTemplate writes the workbook users fill in to bulk import
// references.
func WriteReferenceTemplate(w io.Writer) error {
	rows := make([][]any, 0, len(TemplateReferences))
	for _, ref := range TemplateReferences {
		rows = append(rows, []any{ref.Name, ref.DebitAccount, ref.CreditAccount})
	}
	return writeWorkbook(w, "Referências", []string{"Nome", "Conta_D", "Conta_E"}, rows)
}

func writeWorkbook(w io.Writer, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet writer: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = excelize.Cell{StyleID: bold, Value: h}
	}
	if err := sw.SetRow("A1", headerCells); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
