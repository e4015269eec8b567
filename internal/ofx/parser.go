// Package ofx reads bank and credit card statements in OFX/QFX format and
// turns their debits into expenses.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// Transaction is one statement line. Amount is signed: debits are negative.
type Transaction struct {
	Date      time.Time
	FitID     string
	AccountID string
	Payee     string
	Type      string
	Amount    model.Money
}

// IsDebit reports whether money left the account.
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

var (
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagPattern  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser reads OFX/QFX statements.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger uses the default logger.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: common.OrDefault(logger)}
}

// normalize repairs formatting that ofxgo rejects: leading blank lines,
// mixed-case severities and SGML tags missing their closing bracket.
func normalize(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	return openTagPattern.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(ctx context.Context, r io.Reader) (*ofxgo.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	resp, err := ofxgo.ParseResponse(strings.NewReader(normalize(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// Parse returns every transaction of every bank and credit card statement
// in the file, in statement order.
func (p *Parser) Parse(ctx context.Context, r io.Reader) ([]Transaction, error) {
	resp, err := p.parse(ctx, r)
	if err != nil {
		return nil, err
	}

	var txns []Transaction
	var statements int
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			statements++
			txns = appendTransactions(txns, stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			statements++
			txns = appendTransactions(txns, stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))
		}
	}

	p.logger.Info("Parsed OFX file", "transactions", len(txns), "statements", statements)
	return txns, nil
}

// Accounts lists the distinct account ids in the file, in order of appearance.
func (p *Parser) Accounts(ctx context.Context, r io.Reader) ([]string, error) {
	resp, err := p.parse(ctx, r)
	if err != nil {
		return nil, err
	}

	var accounts []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			accounts = append(accounts, id)
		}
	}
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(string(stmt.BankAcctFrom.AcctID))
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			add(string(stmt.CCAcctFrom.AcctID))
		}
	}
	return accounts, nil
}

func appendTransactions(dst []Transaction, src []ofxgo.Transaction, accountID string) []Transaction {
	for _, tx := range src {
		dst = append(dst, Transaction{
			FitID:     string(tx.FiTID),
			AccountID: accountID,
			Date:      tx.DtPosted.Time,
			Payee:     payeeName(tx),
			Type:      fmt.Sprint(tx.TrnType),
			Amount:    decimal.NewFromBigRat(&tx.TrnAmt.Rat, model.MoneyScale),
		})
	}
	return dst
}

var payeePrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// payeeName picks the most readable merchant name of a transaction.
func payeeName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && genericNames[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(tx.Memo))
	}
	for _, prefix := range payeePrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}
	// Drop a leading "MM/DD " posting date.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}
	return name
}
