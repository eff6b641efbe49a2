// Package format holds pure display-string helpers for the dashboard cards.
// Rounding happens here and nowhere earlier, so metric math keeps full
// precision until the rendering boundary.
package format

import (
	"fmt"
	"math"
	"strings"
)

// NotApplicable is what the cards show when a trend has no usable baseline.
const NotApplicable = "N/A"

const (
	GlyphUp   = "↗"
	GlyphDown = "↘"
)

// Currency renders a value as $1.5M / $2K / $999. The magnitude thresholds
// compare the absolute value, the sign rides along in the division.
func Currency(value float64) string {
	switch {
	case math.Abs(value) >= 1e6:
		return fmt.Sprintf("$%.1fM", value/1e6)
	case math.Abs(value) >= 1e3:
		return fmt.Sprintf("$%.0fK", value/1e3)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}

// Trend renders the percentage change of current against previous as a
// directional glyph plus the absolute change to two decimals. A zero or
// missing baseline yields NotApplicable; there is no division in that path.
func Trend(current, previous float64, hasPrevious bool) string {
	if !hasPrevious || previous == 0 {
		return NotApplicable
	}
	changePct := (current - previous) / previous * 100
	return fmt.Sprintf("%s %.2f%%", Glyph(changePct), math.Abs(changePct))
}

// Glyph maps a percentage change to its direction marker. Zero counts as
// down, matching the strict > 0 test on the cards.
func Glyph(changePct float64) string {
	if changePct > 0 {
		return GlyphUp
	}
	return GlyphDown
}

// Percent renders a raw percentage to two decimals, e.g. the monthly growth
// card value.
func Percent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// Count renders an integer with thousands separators, e.g. 12,345.
func Count(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Stars renders a review score in [0,5] as filled stars.
func Stars(score float64) string {
	n := int(math.Round(score))
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n)
}
