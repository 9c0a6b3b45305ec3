package budget

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount as Brazilian Real, e.g. "R$ 1.234,56".
func FormatBRL(v float64) string {
	amount := decimal.NewFromFloat(math.Abs(v)).Round(2).InexactFloat64()
	s := "R$ " + brPrinter.Sprintf("%.2f", amount)
	if v < 0 && amount != 0 {
		return "-" + s
	}
	return s
}

// FormatCount renders an integer with pt-BR digit grouping.
func FormatCount(n int) string {
	return brPrinter.Sprintf("%d", n)
}

// FormatFixed2 renders a number with exactly two decimals and a dot separator.
// Halves round away from zero on the shortest decimal form, so 1.005 gives "1.01".
func FormatFixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPlain renders a number in its shortest exact form (85, 0.35, 1.5).
func FormatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FileName derives a download name from a budget name: lowercased, spaces to underscores.
func FileName(name, ext string) string {
	base := strings.ReplaceAll(strings.ToLower(name), " ", "_")
	if base == "" {
		base = "orcamento"
	}
	return base + "." + ext
}
