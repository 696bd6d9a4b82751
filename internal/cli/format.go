package cli

import (
	"fmt"
	"strconv"
	"strings"

	"gigledger/internal/core"
)

// FormatMoney formats an amount as euros with a decimal comma and
// thousands dots, e.g. -1234567 cents -> "-€12.345,67".
func FormatMoney(m core.Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + "€" + groupThousands(cents/100) + "," + fmt.Sprintf("%02d", cents%100)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercent formats a 0-100 percentage.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatAverage formats a monthly average already in currency units.
func FormatAverage(v float64) string {
	return FormatMoney(core.FromFloat(v))
}
