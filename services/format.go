package services

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatEUR renders a whole-euro amount with thousands separators, e.g. "€1,234".
func FormatEUR(v float64) string {
	return formatMoney("€", "", v)
}

// FormatIDR renders a whole-rupiah amount, e.g. "Rp 20,978,000".
func FormatIDR(v float64) string {
	return formatMoney("Rp", " ", v)
}

// FormatNumber groups thousands and drops the fraction.
func FormatNumber(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// FormatPercent renders a signed percentage with one decimal, e.g. "+12.3%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

func formatMoney(symbol, sep string, v float64) string {
	sign := ""
	if v < 0 && math.Round(v) != 0 {
		sign = "-"
		v = -v
	}
	return sign + symbol + sep + FormatNumber(math.Abs(v))
}
