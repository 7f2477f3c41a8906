package utils

import (
	"fmt"
	"strings"
)

// FormatCurrencyEUR memformat angka ke format mata uang Euro
// Example: 15000.5 -> "15.000,50 €"
func FormatCurrencyEUR(amount float64) string {
	formatted := fmt.Sprintf("%.2f", amount)

	negative := strings.HasPrefix(formatted, "-")
	if negative {
		formatted = formatted[1:]
	}

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	// Tambahkan pemisah ribuan
	var result []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		result = append([]string{integerPart[start:i]}, result...)
	}

	out := strings.Join(result, ".") + "," + decimalPart + " €"
	if negative {
		out = "-" + out
	}
	return out
}
