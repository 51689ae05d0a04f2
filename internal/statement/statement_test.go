package statement

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "extrato.csv", want: FormatCSV},
		{path: "EXTRATO.XLSX", want: FormatXLSX},
		{path: "bank.qfx", want: FormatOFX},
		{path: "bank.ofx", want: FormatOFX},
		{path: "extrato.pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantColumns []string
		wantRows    []model.RawRow
	}{
		{
			name:        "semicolon with BOM",
			input:       "\ufeffData;Histórico;Valor\n05/03/2024;PAGAMENTO UNIMED;1.234,56\n",
			wantColumns: []string{"Data", "Histórico", "Valor"},
			wantRows: []model.RawRow{
				{"Data": "05/03/2024", "Histórico": "PAGAMENTO UNIMED", "Valor": "1.234,56"},
			},
		},
		{
			name:        "comma with quoted amount",
			input:       "Date,Description,Amount\n2024-03-05,\"AMIL, SAUDE\",\"10,50\"\n",
			wantColumns: []string{"Date", "Description", "Amount"},
			wantRows: []model.RawRow{
				{"Date": "2024-03-05", "Description": "AMIL, SAUDE", "Amount": "10,50"},
			},
		},
		{
			name:        "tab separated with blank cells and rows",
			input:       "Data\tDescrição\tValor\n\t\t\n01/02/2024\t\t5\n",
			wantColumns: []string{"Data", "Descrição", "Valor"},
			wantRows: []model.RawRow{
				{"Data": "01/02/2024", "Descrição": nil, "Valor": "5"},
			},
		},
		{
			name:        "short rows and repeated headers",
			input:       "Valor;Valor;\n1;2\n",
			wantColumns: []string{"Valor", "Valor (2)", "Coluna 3"},
			wantRows: []model.RawRow{
				{"Valor": "1", "Valor (2)": "2", "Coluna 3": nil},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := ReadCSV(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantColumns, stmt.Columns)
			assert.Equal(t, tt.wantRows, stmt.Rows)
		})
	}
}

func TestRead_EmptyStatement(t *testing.T) {
	_, err := Read(context.Background(), strings.NewReader("Data;Descrição;Valor\n"), FormatCSV)
	assert.ErrorIs(t, err, common.ErrEmptyStatement)
}

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadXLSX(t *testing.T) {
	posted := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	content := buildWorkbook(t, [][]any{
		{"Data", "Descrição", "Valor"},
		{posted, "PAGAMENTO UNIMED", 1234.56},
		{"06/03/2024", "MENSALIDADE AMIL", "R$ 10,00"},
	})

	stmt, err := ReadXLSX(bytes.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, []string{"Data", "Descrição", "Valor"}, stmt.Columns)
	require.Len(t, stmt.Rows, 2)

	date, ok := stmt.Rows[0]["Data"].(time.Time)
	require.True(t, ok, "date cell should be read as time.Time, got %T", stmt.Rows[0]["Data"])
	assert.Equal(t, posted, date.UTC())
	assert.Equal(t, "PAGAMENTO UNIMED", stmt.Rows[0]["Descrição"])
	assert.Equal(t, "1234.56", stmt.Rows[0]["Valor"])

	assert.Equal(t, "06/03/2024", stmt.Rows[1]["Data"])
	assert.Equal(t, "R$ 10,00", stmt.Rows[1]["Valor"])
}

func TestIsDateFormatCode(t *testing.T) {
	tests := map[string]bool{
		"dd/mm/yyyy":         true,
		"yyyy-mm-dd":         true,
		`[$-416]d" de "mmmm`: true,
		"hh:mm:ss":           false,
		"#,##0.00":           false,
		`"R$" #,##0.00`:      false,
		`0.00\d`:             false,
	}

	for code, want := range tests {
		assert.Equal(t, want, isDateFormatCode(code), code)
	}
}

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>341
<ACCTID>12345
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-1234.56
<FITID>2024011501
<NAME>PAGAMENTO
<MEMO>UNIMED REF 1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>500.00
<FITID>2024012001
<NAME>PIX RECEBIDO
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func TestReadOFX(t *testing.T) {
	stmt, err := ReadOFX(strings.NewReader("\n\n" + sampleOFX))
	require.NoError(t, err)

	assert.Equal(t, []string{OFXDateColumn, OFXDescriptionColumn, OFXAmountColumn, OFXIDColumn}, stmt.Columns)
	require.Len(t, stmt.Rows, 2)

	first := stmt.Rows[0]
	assert.Equal(t, "PAGAMENTO UNIMED REF 1234", first[OFXDescriptionColumn])
	assert.InDelta(t, -1234.56, first[OFXAmountColumn], 1e-9)
	assert.Equal(t, "2024011501", first[OFXIDColumn])
	posted, ok := first[OFXDateColumn].(time.Time)
	require.True(t, ok)
	assert.Equal(t, "2024-01-15", posted.UTC().Format(model.DateLayout))

	assert.Equal(t, "PIX RECEBIDO", stmt.Rows[1][OFXDescriptionColumn])
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extrato.csv")
	require.NoError(t, os.WriteFile(path, []byte("Data;Descrição;Valor\n05/03/2024;UNIMED;10\n"), 0o600))

	stmt, err := Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "extrato.csv", stmt.Source)
	assert.Len(t, stmt.Rows, 1)

	_, err = Open(context.Background(), filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestReferencesFromTable(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("nome;CONTA_D;Conta_E\nIntermedica;282;537\n;1;2\n"))
	require.NoError(t, err)

	refs, err := ReferencesFromTable(table)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, model.Reference{Name: "Intermedica", DebitAccount: "282", CreditAccount: "537"}, refs[0])
	assert.Empty(t, refs[1].Name)

	table, err = ReadCSV(strings.NewReader("Nome;Debito\nAmil;310\n"))
	require.NoError(t, err)
	_, err = ReferencesFromTable(table)
	require.ErrorIs(t, err, common.ErrMissingColumns)
	assert.Contains(t, err.Error(), "Conta_D")
	assert.Contains(t, err.Error(), "Conta_E")
}

func TestOpenReferences_XLSX(t *testing.T) {
	content := buildWorkbook(t, [][]any{
		{"Nome", "Conta_D", "Conta_E"},
		{"Amil", 310, 537},
	})
	path := filepath.Join(t.TempDir(), "refs.xlsx")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	refs, err := OpenReferences(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "310", refs[0].DebitAccount)
	assert.Equal(t, "537", refs[0].CreditAccount)

	_, err = OpenReferences(context.Background(), filepath.Join(t.TempDir(), "refs.ofx"))
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}
