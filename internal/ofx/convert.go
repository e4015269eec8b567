package ofx

import (
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/validate"
	"github.com/google/uuid"
)

// idNamespace scopes the deterministic expense ids of imported transactions.
var idNamespace = uuid.MustParse("3f6c2d1e-8b4a-4c5e-9a7d-2e1f0b6c9d84")

// ExpenseID derives a stable expense id from the account and FITID, so
// importing the same statement twice yields the same ids. Transactions
// without a FITID fall back to their date, amount and payee.
func ExpenseID(t Transaction) string {
	key := t.AccountID + "/" + t.FitID
	if t.FitID == "" {
		key = t.AccountID + "/" + t.Date.Format(model.DateLayout) + "/" + t.Amount.String() + "/" + t.Payee
	}
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// ToExpenses converts the debits of txns into expenses in categoryID. Credits
// are skipped and counted, as are repeated ids within txns.
func ToExpenses(txns []Transaction, categoryID string) ([]model.Expense, int) {
	var (
		expenses []model.Expense
		skipped  int
	)
	seen := make(map[string]bool, len(txns))
	for _, t := range txns {
		if !t.IsDebit() {
			skipped++
			continue
		}
		id := ExpenseID(t)
		if seen[id] {
			skipped++
			continue
		}
		seen[id] = true
		expenses = append(expenses, model.Expense{
			ID:         id,
			CategoryID: categoryID,
			Date:       t.Date,
			Amount:     t.Amount.Abs(),
			Note:       validate.SanitizeNote(t.Payee),
		})
	}
	return expenses, skipped
}
