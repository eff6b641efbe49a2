package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"millions", 1_500_000, "$1.5M"},
		{"exactly one million", 1_000_000, "$1.0M"},
		{"thousands", 2_300, "$2K"},
		{"exactly one thousand", 1_000, "$1K"},
		{"below one thousand", 999, "$999"},
		{"zero", 0, "$0"},
		{"negative millions keeps sign", -1_500_000, "$-1.5M"},
		{"negative thousands keeps sign", -2_300, "$-2K"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.value); got != tt.want {
				t.Errorf("Currency(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name        string
		current     float64
		previous    float64
		hasPrevious bool
		want        string
	}{
		{"zero baseline", 100, 0, true, NotApplicable},
		{"both zero", 0, 0, true, NotApplicable},
		{"missing baseline", 100, 50, false, NotApplicable},
		{"positive change", 150, 100, true, "↗ 50.00%"},
		{"negative change", 50, 100, true, "↘ 50.00%"},
		{"zero change counts as down", 100, 100, true, "↘ 0.00%"},
		{"fractional rounding", 101, 99, true, "↗ 2.02%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Trend(tt.current, tt.previous, tt.hasPrevious); got != tt.want {
				t.Errorf("Trend(%v, %v, %v) = %q, want %q", tt.current, tt.previous, tt.hasPrevious, got, tt.want)
			}
		})
	}
}

func TestGlyph(t *testing.T) {
	if got := Glyph(0.01); got != GlyphUp {
		t.Errorf("Glyph(0.01) = %q, want %q", got, GlyphUp)
	}
	if got := Glyph(0); got != GlyphDown {
		t.Errorf("Glyph(0) = %q, want %q", got, GlyphDown)
	}
	if got := Glyph(-3); got != GlyphDown {
		t.Errorf("Glyph(-3) = %q, want %q", got, GlyphDown)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(3.456); got != "3.46%" {
		t.Errorf("Percent(3.456) = %q, want %q", got, "3.46%")
	}
	if got := Percent(0); got != "0.00%" {
		t.Errorf("Percent(0) = %q, want %q", got, "0.00%")
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		value int
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1_234, "1,234"},
		{1_234_567, "1,234,567"},
		{-4_321, "-4,321"},
	}

	for _, tt := range tests {
		if got := Count(tt.value); got != tt.want {
			t.Errorf("Count(%d) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestStars(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{4.2, "★★★★"},
		{4.5, "★★★★★"},
		{1.0, "★"},
		{0, ""},
		{7, "★★★★★"},
	}

	for _, tt := range tests {
		if got := Stars(tt.score); got != tt.want {
			t.Errorf("Stars(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
