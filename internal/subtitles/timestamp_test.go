package subtitles

import (
	"math"
	"regexp"
	"strings"
	"testing"
)

var timestampPattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2},\d{3}$`)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{3661.5, "01:01:01,500"},
		{59.999, "00:00:59,999"},
		{0.0009, "00:00:00,000"},
		{1.2345, "00:00:01,234"},
		{61.001, "00:01:01,001"},
		{86400, "24:00:00,000"},
		{90061.25, "25:01:01,250"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatTimestampShape(t *testing.T) {
	for s := 0.0; s < 360000; s += 997.3331 {
		got := FormatTimestamp(s)
		if !timestampPattern.MatchString(got) {
			t.Fatalf("FormatTimestamp(%v) = %q does not match HH:MM:SS,mmm", s, got)
		}
	}
}

func TestFormatTimestampClampsInvalidInput(t *testing.T) {
	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		if got := FormatTimestamp(v); got != "00:00:00,000" {
			t.Fatalf("FormatTimestamp(%v) = %q, want zero timestamp", v, got)
		}
	}
}

func TestFormatTimestampLargeValues(t *testing.T) {
	if got := FormatTimestamp(1e13); got != "2777777777:46:40,000" {
		t.Fatalf("FormatTimestamp(1e13) = %q", got)
	}
	for _, v := range []float64{1e19, math.MaxFloat64} {
		got := FormatTimestamp(v)
		if strings.Contains(got, "-") || !timestampPattern.MatchString(got) {
			t.Fatalf("FormatTimestamp(%v) = %q, want a capped non-negative timestamp", v, got)
		}
	}
}

func TestParseTimestampRoundTrip(t *testing.T) {
	for _, value := range []string{"00:00:00,000", "01:01:01,500", "00:00:59,999", "12:34:56,789"} {
		seconds, err := ParseTimestamp(value)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) returned error: %v", value, err)
		}
		if got := FormatTimestamp(seconds); got != value {
			t.Fatalf("round trip %q -> %v -> %q", value, seconds, got)
		}
	}
	if got, err := ParseTimestamp("00:00:01.250"); err != nil || got != 1.25 {
		t.Fatalf("expected period separator to parse, got %v %v", got, err)
	}
	for _, bad := range []string{"", "1:2", "00:00:01", "00:61:00,000", "aa:bb:cc,ddd", "00:00:01,5"} {
		if _, err := ParseTimestamp(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
