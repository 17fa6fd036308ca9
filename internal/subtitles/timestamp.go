package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxTimestampSeconds caps input so whole seconds always fit in an int64.
const maxTimestampSeconds = float64(math.MaxInt64 / 2)

// FormatTimestamp renders seconds as an SRT timestamp (HH:MM:SS,mmm).
//
// The value is resolved to the nearest microsecond first so float noise such
// as 59.998999999 does not lose a millisecond, then the millisecond is
// truncated. Hours are not wrapped at 24. Negative and non-finite input is
// treated as zero; values too large for an int64 of seconds are capped.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	seconds = math.Min(seconds, maxTimestampSeconds)

	whole := math.Floor(seconds)
	micros := int64(math.Round((seconds - whole) * 1e6))
	totalSeconds := int64(whole)
	if micros >= 1e6 {
		totalSeconds++
		micros -= 1e6
	}
	millis := micros / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp converts an SRT timestamp back into seconds. A period is
// accepted in place of the comma.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 || len(timeParts[1]) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 || millis < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
