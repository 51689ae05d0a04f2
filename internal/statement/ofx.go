package statement

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/vledger/internal/model"
	"github.com/aclindsa/ofxgo"
)

// Columns synthesized for OFX statements. The names are the ones the column
// resolver recognizes, so OFX rows classify without fallbacks.
const (
	OFXDateColumn        = "Data"
	OFXDescriptionColumn = "Descrição"
	OFXAmountColumn      = "Valor"
	OFXIDColumn          = "FITID"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// SGML-style files sometimes leave an aggregate tag without its ">".
	unclosedTagRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in bank-generated OFX files.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTagRegex.ReplaceAllString(content, "$1>")
}

// ReadOFX reads the bank and credit card transactions of an OFX/QFX file.
// Amounts keep the OFX sign: debits are negative.
func ReadOFX(r io.Reader) (model.Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return model.Statement{}, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return model.Statement{}, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	stmt := model.Statement{
		Columns: []string{OFXDateColumn, OFXDescriptionColumn, OFXAmountColumn, OFXIDColumn},
	}
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if s, ok := msg.(*ofxgo.StatementResponse); ok && s.BankTranList != nil {
			bankStmts++
			stmt.Rows = appendOFXRows(stmt.Rows, s.BankTranList.Transactions)
		}
	}

	for _, msg := range resp.CreditCard {
		if s, ok := msg.(*ofxgo.CCStatementResponse); ok && s.BankTranList != nil {
			ccStmts++
			stmt.Rows = appendOFXRows(stmt.Rows, s.BankTranList.Transactions)
		}
	}

	slog.Debug("Parsed OFX file",
		"transactions", len(stmt.Rows),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return stmt, nil
}

func appendOFXRows(rows []model.RawRow, txns []ofxgo.Transaction) []model.RawRow {
	for _, txn := range txns {
		amount, _ := txn.TrnAmt.Float64()
		rows = append(rows, model.RawRow{
			OFXDateColumn:        txn.DtPosted.Time,
			OFXDescriptionColumn: ofxDescription(txn),
			OFXAmountColumn:      amount,
			OFXIDColumn:          string(txn.FiTID),
		})
	}
	return rows
}

// ofxDescription joins the payee or name with the memo, the way bank
// statements print them, so keywords found in either field can match.
func ofxDescription(txn ofxgo.Transaction) string {
	name := strings.TrimSpace(string(txn.Name))
	if txn.Payee != nil && txn.Payee.Name != "" {
		name = strings.TrimSpace(string(txn.Payee.Name))
	}

	memo := strings.TrimSpace(string(txn.Memo))
	switch {
	case memo == "" || strings.EqualFold(memo, name):
		return name
	case name == "":
		return memo
	}
	return name + " " + memo
}
