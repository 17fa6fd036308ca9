package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func splitCues(content []byte) []string {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var cues []string
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) != "" {
			cues = append(cues, block)
		}
	}
	return cues
}

// CountCues returns the number of non-empty blocks in SRT content.
func CountCues(content []byte) int {
	return len(splitCues(content))
}

// Bounds returns the earliest start and latest end timestamps found in SRT
// content. ok is false when no timing line parsed.
func Bounds(content []byte) (first, last float64, ok bool) {
	first = math.Inf(1)
	for _, cue := range splitCues(content) {
		start, end, err := cueTiming(cue)
		if err != nil {
			continue
		}
		ok = true
		first = math.Min(first, start)
		last = math.Max(last, end)
	}
	if !ok {
		return 0, 0, false
	}
	return first, last, true
}

// Validate checks SRT content for format issues and returns issue codes; an
// empty slice means the content passed.
func Validate(content []byte) []string {
	cues := splitCues(content)
	if len(cues) == 0 {
		return []string{"empty_subtitle_file"}
	}
	var issues []string
	prevStart := -1.0
	for idx, cue := range cues {
		want := idx + 1
		lines := strings.Split(cue, "\n")
		if id, err := strconv.Atoi(strings.TrimSpace(lines[0])); err != nil || id != want {
			issues = append(issues, fmt.Sprintf("non_contiguous_id:%d", want))
		}
		start, end, err := cueTiming(cue)
		if err != nil {
			issues = append(issues, fmt.Sprintf("bad_timestamp:%d", want))
			continue
		}
		if end < start {
			issues = append(issues, fmt.Sprintf("end_before_start:%d", want))
		}
		if start < prevStart {
			issues = append(issues, fmt.Sprintf("non_monotonic:%d", want))
		}
		prevStart = start
		if len(lines) < 3 || strings.TrimSpace(strings.Join(lines[2:], "\n")) == "" {
			issues = append(issues, fmt.Sprintf("empty_text:%d", want))
		}
	}
	return issues
}

func cueTiming(cue string) (float64, float64, error) {
	lines := strings.Split(cue, "\n")
	if len(lines) < 2 {
		return 0, 0, fmt.Errorf("missing timing line")
	}
	parts := strings.Split(lines[1], "-->")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", lines[1])
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
