package greenops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators: 18248 -> "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats f with precision decimals and thousand separators:
// FormatFloat(1234.567, 2) -> "1,234.57".
func FormatFloat(f float64, precision int) string {
	rounded := RoundTo(f, precision)
	if precision <= 0 {
		return FormatNumber(int64(rounded))
	}

	formatted := strconv.FormatFloat(rounded, 'f', precision, 64)
	intPart, frac, ok := strings.Cut(formatted, ".")
	if !ok {
		return formatted
	}
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return formatted
	}
	if n == 0 && strings.HasPrefix(intPart, "-") {
		return "-0." + frac
	}
	return FormatNumber(n) + "." + frac
}

// FormatKg renders a footprint the way the catalog states it, with no padding
// zeros: 0.082 -> "0.082 kg CO₂", 55 -> "55 kg CO₂".
func FormatKg(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64) + " kg CO₂"
}

// FormatTotalKg renders an aggregate with one decimal: 55.082 -> "55.1 kg".
func FormatTotalKg(kg float64) string {
	return FormatFloat(kg, 1) + " kg"
}

// FormatLarge formats large numbers with abbreviated notation.
//
// Values at or above BillionThreshold use "~X.X billion", values at or above
// LargeNumberThreshold use "~X.X million", anything smaller is comma-separated.
func FormatLarge(n float64) string {
	if n >= BillionThreshold {
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	}
	if n >= LargeNumberThreshold {
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	}
	return FormatNumber(int64(math.Round(n)))
}
