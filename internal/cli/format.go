// Package cli provides formatting helpers for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatMoney formats an amount with the configured currency symbol.
// e.g., 1234.5 -> "$1,234.50", 1200000 -> "$1,200,000"
func FormatMoney(currency string, amount float64) string {
	neg := ""
	if amount < 0 {
		neg = "-"
		amount = -amount
	}

	whole := int64(amount)
	cents := math.Round((amount - float64(whole)) * 100)
	if cents >= 100 {
		whole++
		cents = 0
	}

	if cents == 0 {
		return fmt.Sprintf("%s%s%s", neg, currency, FormatNumber(whole))
	}
	return fmt.Sprintf("%s%s%s.%02d", neg, currency, FormatNumber(whole), int(cents))
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats an already-scaled percentage with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatMinutes formats a minute count as hours and minutes.
// e.g., 330 -> "5h 30m", 45 -> "45m"
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	hours := min / 60
	rest := min % 60
	if hours > 0 && rest > 0 {
		return fmt.Sprintf("%dh %dm", hours, rest)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", rest)
}

// FormatCountdown phrases a days-until figure for display.
func FormatCountdown(days int) string {
	switch {
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	case days == 1:
		return "tomorrow"
	case days == 0:
		return "today"
	case days == -1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", -days)
	}
}
