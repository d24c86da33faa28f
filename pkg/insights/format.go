package insights

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders amount as US currency with two decimals, e.g. -$1,234.50.
func FormatUSD(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = math.Abs(amount)
	}
	return sign + "$" + usPrinter.Sprint(number.Decimal(amount, number.Scale(2)))
}

// FormatFixed renders v with places decimals, rounding ties away from zero.
// The exact binary value is rounded, so 0.15 (stored just below) gives "0.1"
// while 7.25 gives "7.3".
func FormatFixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', 60, 64))
	if err != nil {
		return strconv.FormatFloat(v, 'f', int(places), 64)
	}
	return d.StringFixed(places)
}
