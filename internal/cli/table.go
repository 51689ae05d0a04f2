package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/vledger/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

// RenderTable renders rows under headers without outer borders.
func RenderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})

	return t.Render()
}

// FormatAmount renders an amount with two decimals, Brazilian style
// (1.234,56).
func FormatAmount(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := grouped.String() + "," + frac
	if negative {
		out = "-" + out
	}
	return out
}

// RenderSummary renders the per-reference digest of a classification.
func RenderSummary(summary model.Summary) string {
	rows := make([][]string, 0, len(summary.References)+1)
	for _, ref := range summary.References {
		rows = append(rows, []string{ref.Name, fmt.Sprint(ref.Count), FormatAmount(ref.Total)})
	}
	if summary.Unmatched > 0 {
		rows = append(rows, []string{
			SubtleStyle.Render("(unmatched)"),
			fmt.Sprint(summary.Unmatched),
			FormatAmount(summary.UnmatchedAmount),
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rows: %d   Matched: %d   Unmatched: %d\n\n",
		summary.Rows, summary.Matched, summary.Unmatched)
	b.WriteString(RenderTable([]string{"Reference", "Rows", "Total"}, rows))
	return b.String()
}
