package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Number formats v with a thousands separator and fixed precision,
// plus an optional unit suffix. NaN renders as "N/A".
func Number(v float64, precision int, suffix string) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	s := printer.Sprintf("%v", number.Decimal(v, number.Scale(precision)))
	if suffix != "" {
		s += " " + suffix
	}
	return s
}

// WithUnits scales v by magnitude (k/M/G) against a base unit.
func WithUnits(v float64, unit string) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	switch {
	case math.Abs(v) >= 1e9:
		return fmt.Sprintf("%.1f G%s", v/1e9, unit)
	case math.Abs(v) >= 1e6:
		return fmt.Sprintf("%.1f M%s", v/1e6, unit)
	case math.Abs(v) >= 1e3:
		return fmt.Sprintf("%.1f k%s", v/1e3, unit)
	default:
		return fmt.Sprintf("%.1f %s", v, unit)
	}
}

// Percent formats v as a percentage. Infinities render by sign so the
// loader's asymmetric zero-change policy survives display.
func Percent(v float64, precision int, includeSign bool) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	if math.IsInf(v, 1) {
		return "+∞%"
	}
	if math.IsInf(v, -1) {
		return "-∞%"
	}
	if includeSign && v > 0 {
		return fmt.Sprintf("+%.*f%%", precision, v)
	}
	return fmt.Sprintf("%.*f%%", precision, v)
}

// YearRange formats an inclusive year span.
func YearRange(start, end int) string {
	return fmt.Sprintf("%d–%d", start, end)
}

// countryNames is a minimal mapping of the codes shown in headline
// summaries; unknown codes fall back to the code itself.
var countryNames = map[string]string{
	"USA": "United States",
	"CHN": "China",
	"IND": "India",
	"RUS": "Russia",
	"JPN": "Japan",
	"DEU": "Germany",
	"GBR": "United Kingdom",
	"FRA": "France",
	"ITA": "Italy",
	"CAN": "Canada",
	"BRA": "Brazil",
	"AUS": "Australia",
}

// CountryName resolves an ISO3 code to a readable name.
func CountryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}

// Abbreviate shortens a large number for display (1234567 -> "1.2M").
func Abbreviate(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	abbr := []string{"", "K", "M", "B", "T"}
	magnitude := 0
	for math.Abs(v) >= 1000 && magnitude < len(abbr)-1 {
		magnitude++
		v /= 1000
	}
	if magnitude > 0 {
		return fmt.Sprintf("%.1f%s", v, abbr[magnitude])
	}
	return fmt.Sprintf("%.0f", v)
}

// Delta returns the percent change from previous to current and
// whether it is defined (previous non-zero, both values real).
func Delta(current, previous float64) (float64, bool) {
	if math.IsNaN(current) || math.IsNaN(previous) || previous == 0 {
		return 0, false
	}
	return (current - previous) / previous * 100, true
}
