package report

import (
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is the ISO code amounts are displayed in.
const DefaultCurrency = "EGP"

// Display layouts.
const (
	DateLayout  = "Jan 02, 2006"
	MonthLayout = "Jan 2006"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders amount in the default currency, for example
// "EGP 1,234.50".
func FormatCurrency(amount model.Money) string {
	return FormatAmount(DefaultCurrency, amount)
}

// FormatAmount renders amount with en-US digit grouping and two decimals,
// prefixed by the currency code. Negative amounts lead with a minus sign.
func FormatAmount(code string, amount model.Money) string {
	if code == "" {
		code = DefaultCurrency
	}
	code = strings.ToUpper(code)
	rounded := amount.Round(model.MoneyScale)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	digits := printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(model.MoneyScale)))
	return sign + code + " " + digits
}

// FormatDate renders a date as "Jan 02, 2006".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatMonth renders a "YYYY-MM" key as "Jan 2006". Unparseable keys are
// returned unchanged.
func FormatMonth(key string) string {
	t, err := time.Parse(model.MonthLayout, key)
	if err != nil {
		return key
	}
	return t.Format(MonthLayout)
}
