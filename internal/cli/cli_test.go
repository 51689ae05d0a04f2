package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/Veraticus/vledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   string
	}{
		{"zero", decimal.Zero, "0,00"},
		{"small", decimal.RequireFromString("12.5"), "12,50"},
		{"thousands", decimal.RequireFromString("1234.56"), "1.234,56"},
		{"millions", decimal.RequireFromString("1234567.891"), "1.234.567,89"},
		{"negative", decimal.RequireFromString("-1500"), "-1.500,00"},
		{"exact hundreds", decimal.NewFromInt(100), "100,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.amount))
		})
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"Name", "Debit"}, [][]string{
		{"Amil", "310"},
		{"Unimed", "295"},
	})

	for _, want := range []string{"Name", "Debit", "Amil", "310", "Unimed", "295"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "Amil"), strings.Index(out, "Unimed"))
}

func TestRenderSummary(t *testing.T) {
	result := model.NewClassificationResult(
		[]string{"Data", "Descrição", "Valor"},
		model.ColumnRoles{},
		[]model.TransactionRow{
			{Description: "pgto amil", Amount: 100, MatchedReference: "Amil", DebitAccount: "310", CreditAccount: "537"},
			{Description: "pgto amil", Amount: 50.25, MatchedReference: "Amil", DebitAccount: "310", CreditAccount: "537"},
			{Description: "tarifa", Amount: 12},
		},
		nil,
	)

	out := RenderSummary(result.Summary())

	assert.Contains(t, out, "Rows: 3")
	assert.Contains(t, out, "Matched: 2")
	assert.Contains(t, out, "Unmatched: 1")
	assert.Contains(t, out, "Amil")
	assert.Contains(t, out, "150,25")
	assert.Contains(t, out, "(unmatched)")
	assert.Contains(t, out, "12,00")
}

func TestRenderSummaryAllMatched(t *testing.T) {
	result := model.NewClassificationResult(nil, model.ColumnRoles{}, []model.TransactionRow{
		{Description: "unimed", Amount: 10, MatchedReference: "Unimed"},
	}, nil)

	out := RenderSummary(result.Summary())
	assert.NotContains(t, out, "(unmatched)")
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)

	// Advance before Start is a no-op.
	p.Advance(5)
	assert.Empty(t, buf.String())

	p.Start(10, "Classifying rows")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Advance(2)
		}()
	}
	wg.Wait()
	p.Done()

	out := buf.String()
	assert.Contains(t, out, "Classifying rows")
	assert.Contains(t, out, "10/10")

	// Done twice is harmless.
	p.Done()
}

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("saved"), "saved")
	assert.Contains(t, FormatError("failed"), "failed")
	assert.Contains(t, FormatWarning("careful"), "careful")
	assert.Contains(t, FormatInfo("note"), "note")
	assert.Contains(t, FormatTitle("Companies"), LedgerIcon)
	assert.Contains(t, RenderBox("Summary", "body"), "body")
}
